// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/lode/internal/core/domain"
)

// SourceCatalog enumerates candidate versions for a package and fetches the
// per-candidate dependency metadata the solver needs.
//
// Implementations may be remote (index over HTTP), local (path checkouts) or
// composite. Fetches for independent packages, and even competing candidates
// of the same package, may run concurrently; content for a given (name,
// version) pin is immutable once published.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type SourceCatalog interface {
	// ListVersions returns all known versions of a registry package,
	// unordered. Returns domain.ErrNotFound for unknown packages and
	// domain.ErrNetwork when the index cannot be reached.
	ListVersions(ctx context.Context, name domain.PackageName) ([]domain.Version, error)

	// FetchMetadata returns the candidate for an exact registry version,
	// including its declared dependencies and extras.
	FetchMetadata(ctx context.Context, name domain.PackageName, version domain.Version) (*domain.CandidateVersion, error)

	// FetchPinned resolves a git/url/path-sourced requirement to its
	// single pinned candidate, carrying the content's own declared
	// version.
	FetchPinned(ctx context.Context, req domain.Requirement) (*domain.CandidateVersion, error)

	// Fingerprint identifies the catalog configuration (index URL and
	// source roots). It is stored in lockfiles so a lock resolved
	// against a different catalog reports stale.
	Fingerprint() string
}
