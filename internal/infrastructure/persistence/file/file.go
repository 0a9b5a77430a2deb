// Package file implements the snapshot backend over a single JSON file, the
// storage the original deployment used. Writes go to a temp file in the same
// directory followed by an atomic rename, so a crash mid-write can never
// leave a partial document behind.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/step-hub/team-step-hub/internal/infrastructure/persistence"
)

// Backend persists the snapshot document at one file path.
type Backend struct {
	path string
}

// New creates a file backend bound to the given path. The parent directory
// must exist; the file itself may not yet.
func New(path string) (*Backend, error) {
	if path == "" {
		return nil, errors.New("file: path is required")
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("file: storage directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("file: storage path parent %q is not a directory", dir)
	}
	return &Backend{path: path}, nil
}

// Path returns the bound file path.
func (b *Backend) Path() string { return b.path }

// Load implements persistence.Backend.
func (b *Backend) Load(ctx context.Context) (*persistence.RawSnapshot, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.ErrNoSnapshot
		}
		return nil, fmt.Errorf("file: read %q: %w", b.path, err)
	}
	if len(data) == 0 {
		return nil, persistence.ErrNoSnapshot
	}
	return &persistence.RawSnapshot{Data: data}, nil
}

// Save implements persistence.Backend. The document is written to a temp
// file beside the target and swapped in with a rename, which is atomic on
// POSIX filesystems.
func (b *Backend) Save(ctx context.Context, doc *persistence.RawSnapshot) error {
	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file: create temp in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: write temp %q: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: sync temp %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: close temp %q: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: replace %q: %w", b.path, err)
	}
	return nil
}

// Close implements persistence.Backend.
func (b *Backend) Close() error { return nil }
