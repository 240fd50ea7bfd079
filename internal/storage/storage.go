// Package storage provides whole-object access to bucket storage backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

const (
	ModeLocal  = "local"
	ModeS3     = "s3"
	ModeMemory = "memory"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore reads and overwrites whole objects.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// Options selects and configures a backend.
type Options struct {
	Mode      string // local, s3 or memory
	LocalRoot string // root directory holding one directory per bucket (local mode)
	S3        S3Config
}

// New creates the object store selected by opts.Mode.
func New(ctx context.Context, opts Options) (ObjectStore, error) {
	switch strings.ToLower(opts.Mode) {
	case ModeS3:
		return NewS3Store(ctx, opts.S3)
	case ModeMemory:
		return NewFilesystemStore(memfs.New()), nil
	case ModeLocal, "":
		if opts.LocalRoot == "" {
			return nil, errors.New("local storage requires a root directory")
		}
		return NewFilesystemStore(osfs.New(opts.LocalRoot)), nil
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s (supported: local, s3, memory)", opts.Mode)
	}
}
