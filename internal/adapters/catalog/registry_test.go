package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/cache"
	"go.trai.ch/lode/internal/adapters/catalog"
	"go.trai.ch/lode/internal/adapters/logger"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
)

func newClient(t *testing.T, handler http.Handler, metadataCache ports.MetadataCache) *catalog.RegistryClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	log := logger.New()
	return catalog.NewRegistryClient(server.URL, server.Client(), metadataCache, log)
}

func TestListVersions_SkipsUnparseable(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/packages/requests", r.URL.Path)
		_, _ = w.Write([]byte(`{"versions": ["2.31.0", "not-a-version", "2.32.0"]}`))
	}), nil)

	versions, err := client.ListVersions(context.Background(), domain.NormalizeName("requests"))
	require.NoError(t, err)
	require.Len(t, versions, 2)
}

func TestListVersions_UnknownPackageIsNotFound(t *testing.T) {
	client := newClient(t, http.NotFoundHandler(), nil)

	_, err := client.ListVersions(context.Background(), domain.NormalizeName("ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchMetadata_ParsesDependenciesAndExtras(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/packages/requests/2.31.0", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"name": "requests",
			"version": "2.31.0",
			"digest": "abc123",
			"dependencies": ["urllib3>=2.0,<3.0", "idna>=3.0"],
			"extras": {"socks": ["pysocks>=1.7"]}
		}`))
	}), nil)

	cand, err := client.FetchMetadata(context.Background(), domain.NormalizeName("requests"), domain.MustParseVersion("2.31.0"))
	require.NoError(t, err)

	assert.Equal(t, "abc123", cand.Digest)
	require.Len(t, cand.Dependencies, 2)
	assert.Equal(t, "urllib3", cand.Dependencies[0].Name.String())
	require.Len(t, cand.ExtraDependencies["socks"], 1)
}

func TestFetchMetadata_ServedFromCacheWithoutNetwork(t *testing.T) {
	var hits atomic.Int64
	metadataCache := cache.NewMemory()
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"name": "flask", "version": "3.0.0", "digest": "d1", "dependencies": []}`))
	}), metadataCache)

	name := domain.NormalizeName("flask")
	version := domain.MustParseVersion("3.0.0")

	_, err := client.FetchMetadata(context.Background(), name, version)
	require.NoError(t, err)
	_, err = client.FetchMetadata(context.Background(), name, version)
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"versions": ["1.0"]}`))
	}), nil)

	versions, err := client.ListVersions(context.Background(), domain.NormalizeName("flaky"))
	require.NoError(t, err)
	assert.Len(t, versions, 1)
	assert.Equal(t, int64(3), calls.Load())
}

func TestGet_ExhaustedRetriesIsNetworkError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)

	_, err := client.ListVersions(context.Background(), domain.NormalizeName("down"))
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
