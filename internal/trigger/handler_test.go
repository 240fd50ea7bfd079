package trigger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/lease-form-extractor/internal/ingest"
	"github.com/a3tai/lease-form-extractor/internal/lease"
	"github.com/a3tai/lease-form-extractor/internal/pdf/extraction"
	"github.com/a3tai/lease-form-extractor/internal/pdf/pdftest"
	"github.com/a3tai/lease-form-extractor/internal/sink"
	"github.com/a3tai/lease-form-extractor/internal/storage"
)

const (
	uploadBucket = "lease-uploads"
	outputBucket = "tenant-data-output"
	outputKey    = "tenant_data.csv"
)

func leaseDocument() []byte {
	return pdftest.FormPDF(
		pdftest.Text("Last name", "Smith"),
		pdftest.Text("First and middle names", "Jane"),
		pdftest.Text("Unit #", "4"),
		pdftest.Text("Street Number and Street Name1", "12 Main St"),
		pdftest.Text("City1", "Springfield"),
		pdftest.Text("The tenant will pay the rent of", "1500"),
	)
}

func newTestHandler(t *testing.T, store storage.ObjectStore) *Handler {
	t.Helper()
	out := sink.NewObjectSink(store, outputBucket, outputKey)
	processor := ingest.NewProcessor(extraction.NewDefaultReader(false), out, 0, nil)
	return NewHandler(store, processor, nil)
}

func uploadEvent(bucket, key string) *Event {
	return &Event{Records: []EventRecord{{
		EventName: "ObjectCreated:Put",
		S3: S3Entity{
			Bucket: S3Bucket{Name: bucket},
			Object: S3Object{Key: key},
		},
	}}}
}

func TestEventRecord_Location(t *testing.T) {
	bucket, key, err := uploadEvent("uploads", "leases/My+Lease%282%29.pdf").Records[0].Location()
	require.NoError(t, err)
	assert.Equal(t, "uploads", bucket)
	assert.Equal(t, "leases/My Lease(2).pdf", key)

	_, _, err = uploadEvent("", "a.pdf").Records[0].Location()
	assert.Error(t, err)
	_, _, err = uploadEvent("uploads", "").Records[0].Location()
	assert.Error(t, err)
	_, _, err = uploadEvent("uploads", "bad%zz").Records[0].Location()
	assert.Error(t, err)
}

func TestHandler_Handle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFilesystemStore(memfs.New())
	require.NoError(t, store.Put(ctx, uploadBucket, "leases/unit 4.pdf", leaseDocument()))
	h := newTestHandler(t, store)

	resp := h.Handle(ctx, uploadEvent(uploadBucket, "leases/unit+4.pdf"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MessageSuccess, resp.Body)

	resp = h.Handle(ctx, uploadEvent(uploadBucket, "leases/unit+4.pdf"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := store.Get(ctx, outputBucket, outputKey)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, lease.Columns, rows[0])
	assert.Equal(t, rows[1], rows[2])
	assert.Equal(t, "Smith", rows[1][1])
	assert.Equal(t, "4, 12 Main St, Springfield", rows[1][9])
	assert.Equal(t, "1500", rows[1][12])
}

func TestHandler_NoFieldsLeavesDestinationUntouched(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFilesystemStore(memfs.New())
	require.NoError(t, store.Put(ctx, uploadBucket, "plain.pdf", pdftest.PlainPDF()))
	h := newTestHandler(t, store)

	resp := h.Handle(ctx, uploadEvent(uploadBucket, "plain.pdf"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, MessageNoFields, resp.Body)

	_, err := store.Get(ctx, outputBucket, outputKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHandler_Errors(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFilesystemStore(memfs.New())
	require.NoError(t, store.Put(ctx, uploadBucket, "notes.pdf", []byte("not a pdf")))
	require.NoError(t, store.Put(ctx, uploadBucket, "broken.pdf", []byte("%PDF-1.7\ntruncated")))
	h := newTestHandler(t, store)

	tests := []struct {
		name       string
		event      *Event
		wantStatus int
	}{
		{name: "nil event", event: nil, wantStatus: http.StatusBadRequest},
		{name: "no records", event: &Event{}, wantStatus: http.StatusBadRequest},
		{name: "missing key", event: uploadEvent(uploadBucket, ""), wantStatus: http.StatusBadRequest},
		{name: "missing object", event: uploadEvent(uploadBucket, "missing.pdf"), wantStatus: http.StatusInternalServerError},
		{name: "not a pdf", event: uploadEvent(uploadBucket, "notes.pdf"), wantStatus: http.StatusBadRequest},
		{name: "unreadable pdf", event: uploadEvent(uploadBucket, "broken.pdf"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.Handle(ctx, tt.event)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Body)
		})
	}
}

type failingPutStore struct {
	storage.ObjectStore
}

func (f failingPutStore) Put(context.Context, string, string, []byte) error {
	return errors.New("access denied")
}

func TestHandler_DestinationWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFilesystemStore(memfs.New())
	require.NoError(t, store.Put(ctx, uploadBucket, "lease.pdf", leaseDocument()))

	out := sink.NewObjectSink(failingPutStore{store}, outputBucket, outputKey)
	processor := ingest.NewProcessor(extraction.NewDefaultReader(false), out, 0, nil)
	h := NewHandler(store, processor, nil)

	resp := h.Handle(ctx, uploadEvent(uploadBucket, "lease.pdf"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandler_FileTooLarge(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFilesystemStore(memfs.New())
	require.NoError(t, store.Put(ctx, uploadBucket, "lease.pdf", leaseDocument()))

	out := sink.NewObjectSink(store, outputBucket, outputKey)
	processor := ingest.NewProcessor(extraction.NewDefaultReader(false), out, 16, nil)
	h := NewHandler(store, processor, nil)

	resp := h.Handle(ctx, uploadEvent(uploadBucket, "lease.pdf"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServer_Routes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFilesystemStore(memfs.New())
	require.NoError(t, store.Put(ctx, uploadBucket, "lease.pdf", leaseDocument()))
	e := NewServer(newTestHandler(t, store))

	t.Run("health check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("upload event", func(t *testing.T) {
		body := `{"Records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"lease-uploads"},"object":{"key":"lease.pdf","size":1024}}}]}`
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, MessageSuccess, rec.Body.String())
		assert.Len(t, rec.Header().Get(HeaderInvocationID), 36)

		data, err := store.Get(ctx, outputBucket, outputKey)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), strings.Join(lease.Columns, ",")+"\n"))
	})

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(HeaderInvocationID))
	})

	t.Run("empty event", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"Records":[]}`))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, MessageNoRecord, rec.Body.String())
	})
}
