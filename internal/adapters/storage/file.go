package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	defaultFileMode = 0o644
	dirMode         = 0o750
)

// FileBackend keeps the blob in a single file and replaces it with
// write-temp-then-rename.
type FileBackend struct {
	path      string
	mode      os.FileMode
	createDir bool
}

// NewFileBackend returns a backend for path.
func NewFileBackend(path string, opts ...FileOption) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("storage: empty file path")
	}
	b := &FileBackend{
		path: filepath.Clean(path),
		mode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.createDir {
		if err := os.MkdirAll(filepath.Dir(b.path), dirMode); err != nil {
			return nil, fmt.Errorf("storage: create dir: %w", err)
		}
	}
	return b, nil
}

func (b *FileBackend) String() string { return "file://" + b.path }

// Read returns the file contents or ErrNotExist when the file is absent.
func (b *FileBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("storage: read %s: %w", b.path, err)
	}
	return data, nil
}

// Write replaces the file atomically. On any failure the temp file is
// removed and the previous contents stay in place.
func (b *FileBackend) Write(ctx context.Context, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err = tmp.Chmod(b.mode); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("storage: sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err = os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", b.path, err)
	}
	// The rename is in place; a failed directory sync only weakens durability
	// across a crash, so it is not reported as a write failure.
	syncDir(dir)
	return nil
}

// Close is a no-op; the file is opened per operation.
func (b *FileBackend) Close() error { return nil }

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
