package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Service orchestrates the extraction components behind request/result
// structs. One document is processed start to finish per call; the service
// itself holds no per-document state.
type Service struct {
	maxFileSize int64
	normalizer  *Normalizer
	validator   *Validator
	search      *Search
}

// NewService creates a PDF service with all components.
func NewService(maxFileSize int64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		normalizer:  NewNormalizer(),
		validator:   NewValidator(maxFileSize),
		search:      NewSearch(maxFileSize),
	}
}

// Extract runs the whole pipeline on one file: open (with optional
// password), per-page text, link normalization, metadata passthrough.
// It either returns a complete ExtractionResult or no result at all; a
// failed open never yields partial output.
func (s *Service) Extract(req ExtractRequest) (*ExtractionResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	if fileInfo, err := os.Stat(req.Path); err == nil {
		if fileInfo.Size() > s.maxFileSize {
			return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
				fileInfo.Size(), s.maxFileSize)
		}
	}

	doc, err := OpenDocument(req.Path, req.Password)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pageTexts := make([]string, 0, doc.PageCount())
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		pageTexts = append(pageTexts, doc.PageText(pageNr))
	}

	return &ExtractionResult{
		Path:      req.Path,
		Pages:     doc.PageCount(),
		PageTexts: pageTexts,
		Text:      strings.Join(pageTexts, "\n"),
		Links:     s.normalizer.DocumentLinks(doc),
		Metadata:  doc.Metadata(),
	}, nil
}

// ValidateFile reports whether a file is a readable PDF.
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// SearchDirectory lists PDF files under a directory.
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	return s.search.SearchDirectory(req)
}

// Debug file names inside the debug directory.
const (
	debugTextFile  = "text.txt"
	debugLinksFile = "links.md"
)

// WriteDebugFiles writes text.txt (page texts in page order) and links.md
// (markdown rendering in pipeline order) into dir, creating it if needed.
func (s *Service) WriteDebugFiles(result *ExtractionResult, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}

	textPath := filepath.Join(dir, debugTextFile)
	if err := os.WriteFile(textPath, []byte(result.Text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", debugTextFile, err)
	}

	linksPath := filepath.Join(dir, debugLinksFile)
	if err := os.WriteFile(linksPath, []byte(RenderMarkdown(result.Links)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", debugLinksFile, err)
	}

	return nil
}
