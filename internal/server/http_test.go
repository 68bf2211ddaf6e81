package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/rezscan/pdflink/internal/config"
	"github.com/rezscan/pdflink/internal/pdf"
)

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer
	cfg.PDFDirectory = dir

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv, err := New(cfg, pdf.NewService(cfg.MaxFileSize), logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_NilService(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := New(cfg, nil, logrus.New()); err == nil {
		t.Error("expected error for nil service")
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestServer_ExtractBadRequests(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}

	// Missing path.
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/v1/extract", pdf.ExtractRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing path: status = %d, want 400", rec.Code)
	}
}

func TestServer_ExtractNotFound(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/v1/extract", pdf.ExtractRequest{
		Path: filepath.Join(t.TempDir(), "missing.pdf"),
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestServer_ExtractCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\ngarbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	srv := newTestServer(t, dir)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/v1/extract", pdf.ExtractRequest{Path: path})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestServer_Files(t *testing.T) {
	dir := t.TempDir()
	// Stat-level listing only; the content is never parsed here.
	if err := os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	srv := newTestServer(t, dir)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/v1/files", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pdf.SearchDirectoryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if result.TotalCount != 1 || result.Files[0].Name != "report.pdf" {
		t.Errorf("unexpected listing: %+v", result)
	}
}

func TestServer_FilesWithQuery(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"resume.pdf", "invoice.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 stub"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	srv := newTestServer(t, dir)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/v1/files?query=resume", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pdf.SearchDirectoryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if result.TotalCount != 1 || result.Files[0].Name != "resume.pdf" {
		t.Errorf("unexpected listing: %+v", result)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		kind pdf.OpenKind
		want int
	}{
		{pdf.OpenNotFound, http.StatusNotFound},
		{pdf.OpenBadPassword, http.StatusUnauthorized},
		{pdf.OpenCorrupt, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		err := &pdf.OpenError{Kind: tt.kind, Path: "x.pdf"}
		if got := statusForError(err); got != tt.want {
			t.Errorf("statusForError(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
