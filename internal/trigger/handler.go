// Package trigger processes upload notifications: each uploaded lease is
// fetched from its bucket, mapped, and appended to the destination CSV object.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a3tai/lease-form-extractor/internal/ingest"
	"github.com/a3tai/lease-form-extractor/internal/pdf/extraction"
	"github.com/a3tai/lease-form-extractor/internal/storage"
)

const (
	MessageSuccess  = "Data processed successfully"
	MessageNoFields = "No fields extracted"
	MessageNoRecord = "Event contains no records"
	MessageNotPDF   = "Uploaded object is not a PDF"
)

// Response is the status code and short text body of one invocation.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler runs upload events through the ingest pipeline.
type Handler struct {
	source    storage.ObjectStore
	processor *ingest.Processor
	logger    *slog.Logger
}

// NewHandler creates a handler reading uploads from source. The processor's
// sink is the fixed destination.
func NewHandler(source storage.ObjectStore, processor *ingest.Processor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		source:    source,
		processor: processor,
		logger:    logger,
	}
}

// Handle processes every record of event in order and stops at the first
// failure. Records processed before a failure stay appended.
func (h *Handler) Handle(ctx context.Context, event *Event) Response {
	return h.handle(ctx, h.logger, event)
}

func (h *Handler) handle(ctx context.Context, logger *slog.Logger, event *Event) Response {
	if event == nil || len(event.Records) == 0 {
		logger.Warn("event without records")
		return Response{StatusCode: http.StatusBadRequest, Body: MessageNoRecord}
	}

	for _, record := range event.Records {
		bucket, key, err := record.Location()
		if err != nil {
			logger.Warn("invalid event record", slog.String("error", err.Error()))
			return Response{StatusCode: http.StatusBadRequest, Body: err.Error()}
		}

		log := logger.With(slog.String("bucket", bucket), slog.String("key", key))

		document, err := h.source.Get(ctx, bucket, key)
		if err != nil {
			log.Error("failed to fetch uploaded object", slog.String("error", err.Error()))
			return Response{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Failed to fetch %s/%s", bucket, key),
			}
		}

		result, err := h.processor.Process(ctx, document)
		switch {
		case errors.Is(err, ingest.ErrNoFields):
			log.Info("no form fields found in upload")
			return Response{StatusCode: http.StatusBadRequest, Body: MessageNoFields}
		case errors.Is(err, extraction.ErrNotPDF), errors.Is(err, extraction.ErrEmptyDocument):
			log.Warn("upload rejected", slog.String("error", err.Error()))
			return Response{StatusCode: http.StatusBadRequest, Body: MessageNotPDF}
		case errors.Is(err, ingest.ErrFileTooLarge):
			log.Warn("upload rejected", slog.String("error", err.Error()))
			return Response{StatusCode: http.StatusRequestEntityTooLarge, Body: err.Error()}
		case err != nil:
			log.Error("failed to process upload", slog.String("error", err.Error()))
			return Response{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Failed to process %s/%s", bucket, key),
			}
		}

		log.Info("record appended",
			slog.Int("fields", result.FieldCount),
			slog.String("destination", result.Destination))
	}

	return Response{StatusCode: http.StatusOK, Body: MessageSuccess}
}
