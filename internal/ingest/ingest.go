// Package ingest runs one lease document through form extraction, field
// mapping and the CSV sink.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/a3tai/lease-form-extractor/internal/lease"
	"github.com/a3tai/lease-form-extractor/internal/pdf/extraction"
	"github.com/a3tai/lease-form-extractor/internal/sink"
)

var (
	// ErrNoFields is returned when a document has no form fields. Nothing is
	// written in that case.
	ErrNoFields = errors.New("no form fields found in the PDF")

	// ErrFileTooLarge is returned for documents above the size limit.
	ErrFileTooLarge = errors.New("document exceeds maximum file size")
)

// Result describes one processed document.
type Result struct {
	FieldCount  int
	Record      *lease.OutputRecord
	Destination string
}

// Processor reads, maps and appends lease documents.
type Processor struct {
	reader      extraction.FieldReader
	sink        sink.Sink
	maxFileSize int64
	logger      *slog.Logger
}

// NewProcessor creates a processor. maxFileSize <= 0 disables the limit.
func NewProcessor(reader extraction.FieldReader, s sink.Sink, maxFileSize int64, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		reader:      reader,
		sink:        s,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Extract reads the form fields of document and maps them, without writing.
func (p *Processor) Extract(document []byte) (lease.FormFieldSet, *lease.OutputRecord, error) {
	if p.maxFileSize > 0 && int64(len(document)) > p.maxFileSize {
		return nil, nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(document), p.maxFileSize)
	}

	if err := extraction.ValidateDocument(document); err != nil {
		return nil, nil, err
	}

	fields, err := p.reader.ReadFields(bytes.NewReader(document))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract form fields: %w", err)
	}

	set := extraction.ToFieldSet(fields)
	if set.Len() == 0 {
		return set, nil, ErrNoFields
	}
	return set, lease.Map(set), nil
}

// Process extracts document and appends the mapped record to the sink.
func (p *Processor) Process(ctx context.Context, document []byte) (*Result, error) {
	set, record, err := p.Extract(document)
	if err != nil {
		return nil, err
	}

	if err := p.sink.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append record: %w", err)
	}

	p.logger.Debug("record appended",
		slog.Int("fields", set.Len()),
		slog.String("destination", p.sink.Location()))

	return &Result{
		FieldCount:  set.Len(),
		Record:      record,
		Destination: p.sink.Location(),
	}, nil
}

// ProcessFile reads path and processes it.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	document, err := p.readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, document)
}

// ExtractFile reads path and extracts it without writing.
func (p *Processor) ExtractFile(path string) (lease.FormFieldSet, *lease.OutputRecord, error) {
	document, err := p.readFile(path)
	if err != nil {
		return nil, nil, err
	}
	return p.Extract(document)
}

func (p *Processor) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if p.maxFileSize > 0 && info.Size() > p.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), p.maxFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return io.ReadAll(file)
}
