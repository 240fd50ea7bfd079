package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/lease-form-extractor/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTriggerServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StorageMode = config.StorageMemory

	e, err := newTriggerServer(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := `{"Records":[{"s3":{"bucket":{"name":"uploads"},"object":{"key":"missing.pdf"}}}]}`
	req = httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewTriggerServer_LocalStorage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StorageMode = config.StorageLocal
	cfg.StorageRoot = t.TempDir()

	_, err := newTriggerServer(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	cfg.StorageMode = "ftp"
	_, err = newTriggerServer(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StorageMode = config.StorageMemory

	e, err := newTriggerServer(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, e, "127.0.0.1:0", discardLogger())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
