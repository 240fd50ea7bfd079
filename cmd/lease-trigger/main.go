package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/a3tai/lease-form-extractor/internal/config"
	"github.com/a3tai/lease-form-extractor/internal/ingest"
	"github.com/a3tai/lease-form-extractor/internal/pdf/extraction"
	"github.com/a3tai/lease-form-extractor/internal/sink"
	"github.com/a3tai/lease-form-extractor/internal/storage"
	"github.com/a3tai/lease-form-extractor/internal/trigger"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 10 * time.Second

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

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if cfg.IsDebug() {
		logger.Debug("starting with configuration", slog.String("config", cfg.String()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e, err := newTriggerServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create trigger server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-signalCh
		logger.Info("received signal, initiating graceful shutdown", slog.String("signal", sig.String()))
		cancel()
	}()

	if err := serve(ctx, e, cfg.Address(), logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped successfully")
}

// newTriggerServer wires storage, the ingest pipeline and the HTTP routes.
// Uploads and the output CSV live in the same storage backend.
func newTriggerServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*echo.Echo, error) {
	store, err := storage.New(ctx, storage.Options{
		Mode:      cfg.StorageMode,
		LocalRoot: cfg.StorageRoot,
		S3: storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	destination := sink.NewObjectSink(store, cfg.DestinationBucket, cfg.DestinationKey)
	processor := ingest.NewProcessor(extraction.NewDefaultReader(cfg.IsDebug()), destination, cfg.MaxFileSize, logger)

	return trigger.NewServer(trigger.NewHandler(store, processor, logger)), nil
}

// serve runs e on addr until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, e *echo.Echo, addr string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("trigger server listening", slog.String("address", addr))
		errCh <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Lease Form Extractor - upload trigger\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
