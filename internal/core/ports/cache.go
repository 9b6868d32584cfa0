package ports

// MetadataCache memoizes fetched candidate metadata across resolve calls.
//
// Puts for the same key are idempotent: content for a given (name, version)
// pin is immutable, so whichever concurrent fetch completes first wins and
// later writes are harmless.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type MetadataCache interface {
	// Get returns the cached bytes for a key, if present.
	Get(key string) ([]byte, bool)

	// Put stores bytes under a key.
	Put(key string, data []byte) error
}
