// Package mcp wires the extraction service into a Model Context Protocol
// server so editor and agent clients can call it over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/rezscan/pdflink/internal/config"
	"github.com/rezscan/pdflink/internal/pdf"
)

// Server represents the MCP server instance.
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	logger     *logrus.Logger
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *logrus.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		logger:     logger,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"pdf_extract_links",
		mcp.WithDescription("Extract text and hyperlink annotations from a PDF file, rendered as markdown"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("password",
			mcp.Description("Password for encrypted documents (optional)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractLinks)

	searchTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription("Search for PDF files in a directory with optional fuzzy matching"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDirectory)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)
}

// Handler functions
func (s *Server) handleExtractLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	password := ""
	if pw, ok := args["password"].(string); ok {
		password = pw
	}

	req := pdf.ExtractRequest{Path: path, Password: password}
	result, err := s.pdfService.Extract(req)
	if err != nil {
		if oe, ok := pdf.AsOpenError(err); ok {
			return mcp.NewToolResultError(oe.Error()), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractionResult(result)), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	req := pdf.SearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	}

	result, err := s.pdfService.SearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.ValidateFileRequest{Path: path}
	result, err := s.pdfService.ValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatExtractionResult(result *pdf.ExtractionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extracted %s\n", result.Path)
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	if result.Metadata.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", result.Metadata.Title)
	}
	if result.Metadata.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", result.Metadata.Author)
	}
	if result.Metadata.Encrypted {
		b.WriteString("Encrypted: yes\n")
	}

	fmt.Fprintf(&b, "\nLinks (%d):\n", len(result.Links))
	if md := pdf.RenderMarkdown(result.Links); md != "" {
		b.WriteString(md)
	} else {
		b.WriteString("(none)\n")
	}

	b.WriteString("\nText:\n")
	b.WriteString(result.Text)

	return b.String()
}

func (s *Server) formatSearchDirectoryResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

// Run serves the MCP protocol on stdin/stdout until the client disconnects.
func (s *Server) Run(_ context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"name":      s.config.ServerName,
		"directory": s.config.PDFDirectory,
	}).Debug("starting MCP server on stdio")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
