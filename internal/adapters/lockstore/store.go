// Package lockstore persists lockfile bytes with atomic replacement.
package lockstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// FileStore implements ports.LockStore against one file. Writes go through a
// temp file in the same directory followed by a rename, so readers never see
// a torn lockfile.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the lockfile at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Read returns the current lockfile bytes. A missing file is not an error.
func (s *FileStore) Read() ([]byte, bool, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(err, "failed to read lockfile")
	}
	return data, true, nil
}

// Write atomically replaces the lockfile bytes.
func (s *FileStore) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp lockfile")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write temp lockfile")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close temp lockfile")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to chmod temp lockfile")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to replace lockfile")
	}
	return nil
}
