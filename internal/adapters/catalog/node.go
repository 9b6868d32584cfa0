package catalog

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/internal/adapters/cache"
	"go.trai.ch/lode/internal/adapters/fs"
	"go.trai.ch/lode/internal/adapters/git"
	"go.trai.ch/lode/internal/adapters/logger"
	"go.trai.ch/lode/internal/core/ports"
)

const NodeID graft.ID = "adapter.catalog"

// DefaultIndexURL is used when LODE_INDEX_URL is unset.
const DefaultIndexURL = "https://index.lode.dev"

func init() {
	graft.Register(graft.Node[ports.SourceCatalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cache.NodeID,
			git.NodeID,
			fs.DigesterNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.SourceCatalog, error) {
			metadataCache, err := graft.Dep[ports.MetadataCache](ctx)
			if err != nil {
				return nil, err
			}

			manager, err := graft.Dep[*git.Manager](ctx)
			if err != nil {
				return nil, err
			}

			digester, err := graft.Dep[*fs.Digester](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			indexURL := os.Getenv("LODE_INDEX_URL")
			if indexURL == "" {
				indexURL = DefaultIndexURL
			}

			registry := NewRegistryClient(indexURL, nil, metadataCache, log)
			return NewComposite(registry, manager, digester), nil
		},
	})
}
