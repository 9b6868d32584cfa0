package solver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/internal/adapters/catalog"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lode/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lode/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lode/internal/core/ports"
)

// NodeID is the unique identifier for the solver Graft node.
const NodeID graft.ID = "engine.solver"

func init() {
	graft.Register(graft.Node[*Solver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			logger.NodeID,
			telemetry.RecorderNodeID,
		},
		Run: func(ctx context.Context) (*Solver, error) {
			cat, err := graft.Dep[ports.SourceCatalog](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(cat, log, recorder), nil
		},
	})
}
