package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/rezscan/pdflink/internal/cli"
	"github.com/rezscan/pdflink/internal/config"
	"github.com/rezscan/pdflink/internal/logging"
	"github.com/rezscan/pdflink/internal/mcp"
	"github.com/rezscan/pdflink/internal/pdf"
	"github.com/rezscan/pdflink/internal/server"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
	gitCommit = "unknown" // set by build flags
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, closeLogs, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := closeLogs(); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", cerr)
		}
	}()

	pdfService := pdf.NewService(cfg.MaxFileSize)

	if err := run(cfg, pdfService, logger); err != nil {
		logger.WithError(err).Error("exiting")
		_ = closeLogs()
		os.Exit(1)
	}
}

func run(cfg *config.Config, pdfService *pdf.Service, logger *logrus.Logger) error {
	switch {
	case cfg.IsServerMode():
		return runServerMode(cfg, pdfService, logger)
	case cfg.IsStdioMode():
		return runStdioMode(cfg, pdfService, logger)
	default:
		return runCLIMode(cfg, pdfService, logger)
	}
}

// runCLIMode runs the interactive picker, or a single extraction when a
// file path was given as a positional argument.
func runCLIMode(cfg *config.Config, pdfService *pdf.Service, logger *logrus.Logger) error {
	repl := cli.New(cfg, pdfService, logger)

	if args := pflag.Args(); len(args) > 0 {
		return repl.RunOnce(args[0], "")
	}
	return repl.Run()
}

// runServerMode runs the HTTP server until SIGINT/SIGTERM.
func runServerMode(cfg *config.Config, pdfService *pdf.Service, logger *logrus.Logger) error {
	srv, err := server.New(cfg, pdfService, logger)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// runStdioMode serves the MCP protocol on stdin/stdout. The parent process
// controls the lifecycle; we exit when stdin closes.
func runStdioMode(cfg *config.Config, pdfService *pdf.Service, logger *logrus.Logger) error {
	srv, err := mcp.NewServer(cfg, pdfService, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.Run(context.Background())
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("pdflink\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
}
