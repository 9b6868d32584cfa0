package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// defaultIgnores are tree entries that never contribute to a path digest:
// caches and build output churn without changing the package content.
var defaultIgnores = []string{"__pycache__", "*.pyc", ".venv", "dist", "build"}

// Digester computes content digests for path-sourced packages. The digest of
// a tree covers relative file paths and file contents, so two checkouts with
// identical content digest identically regardless of their location.
type Digester struct {
	walker *Walker
}

// NewDigester creates a new Digester.
func NewDigester(walker *Walker) *Digester {
	return &Digester{walker: walker}
}

// FileDigest computes the XXHash of a file's content.
func (d *Digester) FileDigest(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to digest file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// TreeDigest computes a single digest representing the package tree rooted
// at the given directory.
func (d *Digester) TreeDigest(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat path source"), "path", root)
	}

	hasher := xxhash.New()
	if !info.IsDir() {
		if err := d.digestFile(root, root, hasher); err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", hasher.Sum64()), nil
	}

	for path := range d.walker.WalkFiles(root, defaultIgnores) {
		if err := d.digestFile(root, path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (d *Digester) digestFile(root, path string, mainHasher io.Writer) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	// Relative paths keep the digest portable across checkout locations.
	_, _ = mainHasher.Write([]byte(filepath.ToSlash(rel)))
	_, _ = mainHasher.Write([]byte{0})

	hash, err := d.FileDigest(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write digest")
	}
	return nil
}
