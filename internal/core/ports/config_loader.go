package ports

import "go.trai.ch/lode/internal/core/domain"

// ConfigLoader loads the workspace configuration: member packages, their
// dependency groups and source declarations.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration rooted at the given working directory
	// and returns the validated workspace.
	Load(cwd string) (*domain.Workspace, error)
}
