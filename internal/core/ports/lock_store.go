package ports

// LockStore reads and writes the persisted lockfile bytes.
//
//go:generate go run go.uber.org/mock/mockgen -source=lock_store.go -destination=mocks/mock_lock_store.go -package=mocks
type LockStore interface {
	// Read returns the current lockfile bytes. A missing lockfile is
	// reported as (nil, false, nil).
	Read() (data []byte, exists bool, err error)

	// Write atomically replaces the lockfile bytes.
	Write(data []byte) error
}
