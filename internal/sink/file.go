package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/a3tai/lease-form-extractor/internal/lease"
)

// FileSink appends to a CSV file on a billy filesystem.
type FileSink struct {
	fs       billy.Filesystem
	path     string
	location string
}

// NewFileSink appends to name on fs.
func NewFileSink(fs billy.Filesystem, name string) *FileSink {
	return &FileSink{fs: fs, path: name, location: name}
}

// NewLocalFileSink appends to a file on the host filesystem. Relative paths
// resolve against the working directory.
func NewLocalFileSink(name string) (*FileSink, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	s := NewFileSink(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
	s.location = abs
	return s, nil
}

// Location returns the file path.
func (s *FileSink) Location() string {
	return s.location
}

// Append writes record as a new row, adding the header first when the file
// does not exist yet or is empty.
func (s *FileSink) Append(ctx context.Context, record *lease.OutputRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writeHeader, needsNewline := false, false
	info, err := s.fs.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		writeHeader = true
	case err != nil:
		return fmt.Errorf("failed to stat %s: %w", s.path, err)
	case info.Size() == 0:
		writeHeader = true
	default:
		last, err := s.lastByte(info.Size())
		if err != nil {
			return err
		}
		needsNewline = last != '\n'
	}

	data, err := encode(record, writeHeader)
	if err != nil {
		return err
	}
	if needsNewline {
		data = append([]byte{'\n'}, data...)
	}

	// Missing parent directories are created by the open itself.
	file, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.path, err)
	}
	return nil
}

func (s *FileSink) lastByte(size int64) (byte, error) {
	file, err := s.fs.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	if _, err := file.Seek(size-1, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to seek %s: %w", s.path, err)
	}
	buf := make([]byte, 1)
	if _, err := io.ReadFull(file, buf); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return buf[0], nil
}
