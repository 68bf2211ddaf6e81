// Package cli implements the interactive picker loop: list the PDFs in the
// configured directory, let the user select one, extract it, print a report.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rezscan/pdflink/internal/config"
	"github.com/rezscan/pdflink/internal/pdf"
)

// REPL drives the interactive menu over an input/output pair, so tests can
// feed it scripted input.
type REPL struct {
	config  *config.Config
	service *pdf.Service
	logger  *logrus.Logger
	in      *bufio.Reader
	out     io.Writer
}

// New creates a REPL bound to stdin/stdout.
func New(cfg *config.Config, service *pdf.Service, logger *logrus.Logger) *REPL {
	return NewWithIO(cfg, service, logger, os.Stdin, os.Stdout)
}

// NewWithIO creates a REPL with explicit input and output streams.
func NewWithIO(cfg *config.Config, service *pdf.Service, logger *logrus.Logger, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		config:  cfg,
		service: service,
		logger:  logger,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run loops the menu until the user quits or input ends.
func (r *REPL) Run() error {
	for {
		fmt.Fprintln(r.out, "\n=== PDF Processing Menu ===")
		fmt.Fprintln(r.out, "[p] Process file")
		fmt.Fprintln(r.out, "[q] Quit")

		choice, err := r.prompt("Select option: ")
		if err != nil {
			return nil // input closed, treat as quit
		}

		switch strings.ToLower(choice) {
		case "q":
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case "p":
			if err := r.processSelection(); err != nil {
				fmt.Fprintf(r.out, "Error: %v\n", err)
			}
		default:
			fmt.Fprintln(r.out, "Invalid option. Please try again.")
		}
	}
}

// RunOnce extracts a single file and prints the report, for the
// non-interactive `pdflink file.pdf` invocation.
func (r *REPL) RunOnce(path, password string) error {
	return r.extractAndReport(path, password)
}

// processSelection lists the directory, asks for a file number and an
// optional password, and runs the extraction.
func (r *REPL) processSelection() error {
	files, err := r.service.SearchDirectory(pdf.SearchDirectoryRequest{Directory: r.config.PDFDirectory})
	if err != nil {
		return err
	}
	if files.TotalCount == 0 {
		return fmt.Errorf("no PDF files found in %s; add some PDFs there and try again", r.config.PDFDirectory)
	}

	fmt.Fprintln(r.out, "\nAvailable PDF files:")
	for i, file := range files.Files {
		fmt.Fprintf(r.out, "[%d] %s (%d bytes)\n", i, file.Name, file.Size)
	}

	numText, err := r.prompt("Select file number: ")
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(numText)
	if err != nil || idx < 0 || idx >= len(files.Files) {
		return fmt.Errorf("invalid selection %q", numText)
	}

	password, err := r.prompt("Password (empty for none): ")
	if err != nil {
		return err
	}

	return r.extractAndReport(files.Files[idx].Path, password)
}

// extractAndReport runs the pipeline on one file, prints the report, logs a
// structured entry, and writes debug files when a debug directory is set.
func (r *REPL) extractAndReport(path, password string) error {
	result, err := r.service.Extract(pdf.ExtractRequest{Path: path, Password: password})
	if err != nil {
		if oe, ok := pdf.AsOpenError(err); ok {
			r.logger.WithFields(logrus.Fields{
				"path": path,
				"kind": string(oe.Kind),
			}).Error("extraction failed")
			return fmt.Errorf("%s", describeOpenError(oe))
		}
		return err
	}

	r.printReport(result)

	r.logger.WithFields(logrus.Fields{
		"path":  result.Path,
		"pages": result.Pages,
		"links": len(result.Links),
	}).Info("extraction complete")

	if r.config.DebugDir != "" {
		if err := r.service.WriteDebugFiles(result, r.config.DebugDir); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "\nDebug output written to %s\n", r.config.DebugDir)
	}

	return nil
}

// printReport renders the extraction result for the console.
func (r *REPL) printReport(result *pdf.ExtractionResult) {
	fmt.Fprintf(r.out, "\nProcessed: %s\n", result.Path)
	fmt.Fprintf(r.out, "Pages: %d\n", result.Pages)
	if result.Metadata.Title != "" {
		fmt.Fprintf(r.out, "Title: %s\n", result.Metadata.Title)
	}
	if result.Metadata.Author != "" {
		fmt.Fprintf(r.out, "Author: %s\n", result.Metadata.Author)
	}

	fmt.Fprintf(r.out, "Links: %d\n", len(result.Links))
	if md := pdf.RenderMarkdown(result.Links); md != "" {
		fmt.Fprintln(r.out)
		fmt.Fprint(r.out, md)
	}
}

// prompt prints a prompt and reads one trimmed line.
func (r *REPL) prompt(label string) (string, error) {
	fmt.Fprint(r.out, label)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// describeOpenError maps the error taxonomy onto user-facing messages.
func describeOpenError(oe *pdf.OpenError) string {
	switch oe.Kind {
	case pdf.OpenNotFound:
		return fmt.Sprintf("file not found: %s", oe.Path)
	case pdf.OpenBadPassword:
		return fmt.Sprintf("wrong or missing password for %s", oe.Path)
	default:
		return fmt.Sprintf("cannot parse %s: the file appears to be corrupt", oe.Path)
	}
}
