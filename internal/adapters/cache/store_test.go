package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/cache"
)

func TestStore_PutGet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	store, err := cache.NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Put("requests\x002.31.0", []byte(`{"deps":[]}`)))

	data, ok := store.Get("requests\x002.31.0")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"deps":[]}`), data)

	_, ok = store.Get("requests\x009.9.9")
	assert.False(t, ok)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metadata.json")
	store, err := cache.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("flask\x003.0.0", []byte("cached")))

	reopened, err := cache.NewStore(path)
	require.NoError(t, err)

	data, ok := reopened.Get("flask\x003.0.0")
	require.True(t, ok)
	assert.Equal(t, []byte("cached"), data)
}

func TestStore_Put_IsIdempotentForSameKey(t *testing.T) {
	store := cache.NewMemory()

	require.NoError(t, store.Put("numpy\x001.26.0", []byte("first")))
	require.NoError(t, store.Put("numpy\x001.26.0", []byte("first")))

	data, ok := store.Get("numpy\x001.26.0")
	require.True(t, ok)
	assert.Equal(t, []byte("first"), data)
}

func TestNewStore_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := cache.NewStore(path)
	assert.Error(t, err)
}
