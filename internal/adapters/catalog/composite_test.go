package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/catalog"
	"go.trai.ch/lode/internal/adapters/fs"
	"go.trai.ch/lode/internal/adapters/git"
	"go.trai.ch/lode/internal/adapters/logger"
	"go.trai.ch/lode/internal/core/domain"
)

func newComposite(t *testing.T, handler http.Handler) (*catalog.Composite, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := catalog.NewRegistryClient(server.URL, server.Client(), nil, logger.New())
	manager := git.NewManager(t.TempDir())
	digester := fs.NewDigester(fs.NewWalker())
	return catalog.NewComposite(client, manager, digester), server.URL
}

func TestFetchPinned_PathSource(t *testing.T) {
	composite, _ := newComposite(t, http.NotFoundHandler())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lode.yaml"), []byte(`
package:
  name: local-lib
  version: "0.3.0"
dependencies:
  main:
    - requests>=2.0
`), 0o644))

	req := domain.MustParseRequirement("local-lib @ file://" + dir)
	cand, err := composite.FetchPinned(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "local-lib", cand.Name.String())
	assert.Equal(t, "0.3.0", cand.Version.String())
	assert.NotEmpty(t, cand.Pin)
	require.Len(t, cand.Dependencies, 1)

	// Content changes move the pin.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.py"), []byte("x = 1\n"), 0o644))
	changed, err := composite.FetchPinned(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, cand.Pin, changed.Pin)
}

func TestFetchPinned_PathSourceNameMismatch(t *testing.T) {
	composite, _ := newComposite(t, http.NotFoundHandler())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lode.yaml"), []byte(`
package:
  name: other-name
  version: "1.0.0"
`), 0o644))

	req := domain.MustParseRequirement("expected-name @ file://" + dir)
	_, err := composite.FetchPinned(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchPinned_URLSource(t *testing.T) {
	composite, baseURL := newComposite(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/archive-pkg.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"name": "archive-pkg", "version": "1.4.0", "dependencies": ["click>=8.0"]}`))
	}))

	req := domain.Requirement{
		Name:   domain.NormalizeName("archive-pkg"),
		Source: domain.Source{Kind: domain.SourceURL, URL: baseURL + "/archive-pkg.json"},
	}
	cand, err := composite.FetchPinned(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "1.4.0", cand.Version.String())
	assert.Len(t, cand.Pin, 16)
	require.Len(t, cand.Dependencies, 1)
	assert.Equal(t, "click", cand.Dependencies[0].Name.String())
}

func TestFetchPinned_RegistryKindRejected(t *testing.T) {
	composite, _ := newComposite(t, http.NotFoundHandler())

	req := domain.MustParseRequirement("requests>=2.0")
	_, err := composite.FetchPinned(context.Background(), req)
	assert.Error(t, err)
}

func TestComposite_FingerprintStable(t *testing.T) {
	composite, _ := newComposite(t, http.NotFoundHandler())

	assert.Equal(t, composite.Fingerprint(), composite.Fingerprint())
	assert.Len(t, composite.Fingerprint(), 16)
}
