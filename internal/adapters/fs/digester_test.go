package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/fs"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTreeDigest_SameContentSameDigest(t *testing.T) {
	digester := fs.NewDigester(fs.NewWalker())

	a := t.TempDir()
	writeFile(t, a, "pyproject.toml", "[project]\nname = \"pkg\"\n")
	writeFile(t, a, "src/pkg/__init__.py", "VERSION = \"1.0\"\n")

	b := t.TempDir()
	writeFile(t, b, "pyproject.toml", "[project]\nname = \"pkg\"\n")
	writeFile(t, b, "src/pkg/__init__.py", "VERSION = \"1.0\"\n")

	da, err := digester.TreeDigest(a)
	require.NoError(t, err)
	db, err := digester.TreeDigest(b)
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.Len(t, da, 16)
}

func TestTreeDigest_ContentChangeChangesDigest(t *testing.T) {
	digester := fs.NewDigester(fs.NewWalker())

	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", "[project]\nname = \"pkg\"\n")

	before, err := digester.TreeDigest(root)
	require.NoError(t, err)

	writeFile(t, root, "pyproject.toml", "[project]\nname = \"pkg2\"\n")

	after, err := digester.TreeDigest(root)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestTreeDigest_IgnoresCacheDirs(t *testing.T) {
	digester := fs.NewDigester(fs.NewWalker())

	root := t.TempDir()
	writeFile(t, root, "module.py", "x = 1\n")

	before, err := digester.TreeDigest(root)
	require.NoError(t, err)

	writeFile(t, root, "__pycache__/module.cpython-312.pyc", "bytecode")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")

	after, err := digester.TreeDigest(root)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTreeDigest_MissingPathFails(t *testing.T) {
	digester := fs.NewDigester(fs.NewWalker())

	_, err := digester.TreeDigest(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}
