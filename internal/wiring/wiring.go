// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lode/internal/adapters/cache"
	_ "go.trai.ch/lode/internal/adapters/catalog"
	_ "go.trai.ch/lode/internal/adapters/config"
	_ "go.trai.ch/lode/internal/adapters/env"
	_ "go.trai.ch/lode/internal/adapters/fs"
	_ "go.trai.ch/lode/internal/adapters/git"
	_ "go.trai.ch/lode/internal/adapters/lockstore"
	_ "go.trai.ch/lode/internal/adapters/logger"
	_ "go.trai.ch/lode/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/lode/internal/app"
	_ "go.trai.ch/lode/internal/engine/solver"
)
