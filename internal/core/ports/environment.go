package ports

import "go.trai.ch/lode/internal/core/domain"

// EnvironmentProvider supplies the target-environment snapshot markers are
// evaluated against: platform, interpreter version and friends.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentProvider interface {
	// Snapshot returns one immutable environment snapshot. A resolve
	// call takes exactly one snapshot and evaluates every marker
	// against it.
	Snapshot() (domain.Environment, error)
}
