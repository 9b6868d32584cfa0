package lockstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/internal/core/ports"
	"go.trai.ch/zerr"
)

const NodeID graft.ID = "adapter.lock_store"

// DefaultFilename is the lockfile name next to the workspace manifest.
const DefaultFilename = "lode.lock"

func init() {
	graft.Register(graft.Node[ports.LockStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.LockStore, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to determine working directory")
			}
			return NewFileStore(filepath.Join(cwd, DefaultFilename)), nil
		},
	})
}
