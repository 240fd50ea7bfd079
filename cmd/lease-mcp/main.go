package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/lease-form-extractor/internal/config"
	"github.com/a3tai/lease-form-extractor/internal/ingest"
	"github.com/a3tai/lease-form-extractor/internal/mcp"
	"github.com/a3tai/lease-form-extractor/internal/pdf/extraction"
	"github.com/a3tai/lease-form-extractor/internal/sink"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging returns the logger for stdio mode. stdout carries the MCP
// protocol, so logs go to stderr and only in debug mode.
func setupLogging(cfg *config.Config) *slog.Logger {
	if !cfg.IsDebug() {
		return cfg.NewLogger(io.Discard)
	}
	return cfg.NewLogger(os.Stderr)
}

func newServer(cfg *config.Config, logger *slog.Logger) (*mcp.Server, error) {
	csvSink, err := sink.NewLocalFileSink(cfg.OutputPath)
	if err != nil {
		return nil, err
	}
	processor := ingest.NewProcessor(extraction.NewDefaultReader(cfg.IsDebug()), csvSink, cfg.MaxFileSize, logger)
	return mcp.NewServer(cfg, processor, logger)
}

func main() {
	if config.VersionRequested(os.Args[1:]) {
		printVersion()
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg)

	server, err := newServer(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create MCP server: %v\n", err)
		os.Exit(1)
	}

	// The parent process controls our lifecycle: stop on stdin EOF or signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Lease Form Extractor - MCP server\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
