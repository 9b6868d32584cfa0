package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/zerr"
)

const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Manager, error) {
			dir, err := os.UserCacheDir()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to locate user cache directory")
			}
			return NewManager(filepath.Join(dir, "lode", "git")), nil
		},
	})
}
