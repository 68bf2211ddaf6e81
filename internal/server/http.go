// Package server exposes the extraction pipeline over HTTP. Each request is
// handled independently and statelessly: one document per request, no
// caching, no sessions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rezscan/pdflink/internal/config"
	"github.com/rezscan/pdflink/internal/pdf"
)

// Server is the HTTP shim around the PDF service.
type Server struct {
	config  *config.Config
	service *pdf.Service
	logger  *logrus.Logger
	http    *http.Server
}

// New creates the HTTP server with its routes registered.
func New(cfg *config.Config, service *pdf.Service, logger *logrus.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("service cannot be nil")
	}

	s := &Server{
		config:  cfg,
		service: service,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/files", s.handleFiles)
	})

	s.http = &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.http.Addr).Info("http server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract runs the full pipeline on one file. The request body is a
// direct serialization of ExtractRequest; the response of ExtractionResult.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req pdf.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	result, err := s.service.Extract(req)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"path": req.Path}).WithError(err).Warn("extract failed")
		s.writeError(w, statusForError(err), err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"path":  result.Path,
		"pages": result.Pages,
		"links": len(result.Links),
	}).Info("extraction complete")

	s.writeJSON(w, http.StatusOK, result)
}

// handleFiles lists PDFs under the configured directory, or under ?dir=
// with an optional ?query= filename filter.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	directory := r.URL.Query().Get("dir")
	if directory == "" {
		directory = s.config.PDFDirectory
	}

	result, err := s.service.SearchDirectory(pdf.SearchDirectoryRequest{
		Directory: directory,
		Query:     r.URL.Query().Get("query"),
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// statusForError maps the open-error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	oe, ok := pdf.AsOpenError(err)
	if !ok {
		return http.StatusBadRequest
	}
	switch oe.Kind {
	case pdf.OpenNotFound:
		return http.StatusNotFound
	case pdf.OpenBadPassword:
		return http.StatusUnauthorized
	case pdf.OpenCorrupt:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
