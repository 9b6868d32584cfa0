package env

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/internal/core/ports"
)

const NodeID graft.ID = "adapter.env"

func init() {
	graft.Register(graft.Node[ports.EnvironmentProvider]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.EnvironmentProvider, error) {
			return New(nil), nil
		},
	})
}
