package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/a3tai/lease-form-extractor/internal/lease"
	"github.com/a3tai/lease-form-extractor/internal/storage"
)

// ObjectSink appends to a CSV object by read, extend and overwrite. The
// mutex serializes appends made through this sink only; concurrent writers
// in other processes can still lose updates.
type ObjectSink struct {
	store  storage.ObjectStore
	bucket string
	key    string
	mu     sync.Mutex
}

// NewObjectSink appends to bucket/key in store.
func NewObjectSink(store storage.ObjectStore, bucket, key string) *ObjectSink {
	return &ObjectSink{store: store, bucket: bucket, key: key}
}

// Location returns bucket/key.
func (s *ObjectSink) Location() string {
	return s.bucket + "/" + s.key
}

// Append fetches the current object, appends record and writes the object
// back. A missing object counts as empty content.
func (s *ObjectSink) Append(ctx context.Context, record *lease.OutputRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Get(ctx, s.bucket, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to read destination %s: %w", s.Location(), err)
		}
		existing = nil
	}

	row, err := encode(record, len(existing) == 0)
	if err != nil {
		return err
	}

	content := make([]byte, 0, len(existing)+len(row)+1)
	content = append(content, existing...)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		content = append(content, '\n')
	}
	content = append(content, row...)

	if err := s.store.Put(ctx, s.bucket, s.key, content); err != nil {
		return fmt.Errorf("failed to write destination %s: %w", s.Location(), err)
	}
	return nil
}
