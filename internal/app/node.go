package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lode/internal/adapters/env"       //nolint:depguard // Wired in app layer
	"go.trai.ch/lode/internal/adapters/lockstore" //nolint:depguard // Wired in app layer
	"go.trai.ch/lode/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lode/internal/core/ports"
	"go.trai.ch/lode/internal/engine/solver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			solver.NodeID,
			env.NodeID,
			lockstore.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			slv, err := graft.Dep[*solver.Solver](ctx)
			if err != nil {
				return nil, err
			}

			catalog, err := graft.Dep[ports.SourceCatalog](ctx)
			if err != nil {
				return nil, err
			}

			envProvider, err := graft.Dep[ports.EnvironmentProvider](ctx)
			if err != nil {
				return nil, err
			}

			lockStore, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, slv, catalog, envProvider, lockStore, log), nil
		},
	})
}
