package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FilesystemStore keeps each bucket as a top-level directory of a billy
// filesystem.
type FilesystemStore struct {
	fs billy.Filesystem
}

// NewFilesystemStore wraps fs. Use osfs for a local directory and memfs for
// tests.
func NewFilesystemStore(fs billy.Filesystem) *FilesystemStore {
	return &FilesystemStore{fs: fs}
}

// Get returns the content of bucket/key.
func (s *FilesystemStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.fs.Open(s.fs.Join(bucket, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Put replaces bucket/key with data, creating directories as needed.
func (s *FilesystemStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.fs.Join(bucket, path.Dir(key)), 0o755); err != nil {
		return err
	}
	return util.WriteFile(s.fs, s.fs.Join(bucket, key), data, 0o644)
}
