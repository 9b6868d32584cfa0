// Package cache implements the metadata cache backed by a flat JSON file.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
)

// Store implements ports.MetadataCache using a flat JSON file. Entries are
// keyed by (package, version) pins whose content is immutable, so Puts for
// an existing key are idempotent and last-write-wins is harmless.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string][]byte
}

// NewStore creates a metadata cache backed by the file at the given path. A
// missing file starts the cache empty.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string][]byte),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory creates an unpersisted cache, used in tests and one-shot runs.
func NewMemory() *Store {
	return &Store{cache: make(map[string][]byte)}
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read metadata cache")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal metadata cache")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal metadata cache")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for metadata cache")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write metadata cache")
	}

	return nil
}

// Get retrieves the cached bytes for a key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.cache[key]
	return data, ok
}

// Put stores bytes under a key and persists the cache.
func (s *Store) Put(key string, data []byte) error {
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return s.save()
}
