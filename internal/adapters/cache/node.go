package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/internal/core/ports"
	"go.trai.ch/zerr"
)

const NodeID graft.ID = "adapter.metadata_cache"

func init() {
	graft.Register(graft.Node[ports.MetadataCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.MetadataCache, error) {
			dir, err := os.UserCacheDir()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to locate user cache directory")
			}
			store, err := NewStore(filepath.Join(dir, "lode", "metadata.json"))
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
