package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/a3tai/lease-form-extractor/internal/config"
	"github.com/a3tai/lease-form-extractor/internal/ingest"
	"github.com/a3tai/lease-form-extractor/internal/pdf/extraction"
	"github.com/a3tai/lease-form-extractor/internal/sink"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const noFieldsMessage = "No form fields found in the PDF."

func main() {
	if config.VersionRequested(os.Args[1:]) {
		printVersion(os.Stdout)
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

	logger := cfg.NewLogger(os.Stderr)
	logger.Debug("starting", slog.String("config", cfg.String()))

	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.Error("extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run maps cfg.InputPath and appends the record to cfg.OutputPath, printing
// one status line to out.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	csvSink, err := sink.NewLocalFileSink(cfg.OutputPath)
	if err != nil {
		return err
	}

	processor := ingest.NewProcessor(extraction.NewDefaultReader(cfg.IsDebug()), csvSink, cfg.MaxFileSize, logger)

	_, err = processor.ProcessFile(ctx, cfg.InputPath)
	if errors.Is(err, ingest.ErrNoFields) {
		fmt.Fprintln(out, noFieldsMessage)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Structured data saved to %s\n", cfg.OutputPath)
	return nil
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Lease Form Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
