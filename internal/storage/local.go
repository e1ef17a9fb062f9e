package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps documents as files under a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore checks that root is an existing, writable directory.
func NewLocalStore(root string) (*LocalStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("document root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}

	probe, err := os.CreateTemp(root, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("document root %s is not writable: %w", root, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &LocalStore{root: root}, nil
}

// Path returns the file path of the document for id.
func (s *LocalStore) Path(id uint64) string {
	return filepath.Join(s.root, Name(id))
}

// Put writes through a temporary file and renames it over the target.
func (s *LocalStore) Put(ctx context.Context, id uint64, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, Name(id)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document %d: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document %d: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), s.Path(id)); err != nil {
		return fmt.Errorf("failed to move document %d into place: %w", id, err)
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, id uint64) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrDocumentNotFound
		}
		return nil, 0, fmt.Errorf("failed to open document %d: %w", id, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat document %d: %w", id, err)
	}
	return f, info.Size(), nil
}

func (s *LocalStore) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.Path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete document %d: %w", id, err)
	}
	return nil
}

func (s *LocalStore) Exists(ctx context.Context, id uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.Path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
