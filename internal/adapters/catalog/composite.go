package catalog

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lode/internal/adapters/fs"
	"go.trai.ch/lode/internal/adapters/git"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
	"go.trai.ch/zerr"
)

// Composite implements ports.SourceCatalog by dispatching on the source kind
// of each requirement. Registry search goes to the index client; git, url
// and path pins go to their dedicated handlers.
type Composite struct {
	registry *RegistryClient
	path     *pathSource
	git      *gitSource
	url      *urlSource
}

// NewComposite creates the catalog over an index client, a git manager and a
// tree digester.
func NewComposite(registry *RegistryClient, manager *git.Manager, digester *fs.Digester) *Composite {
	return &Composite{
		registry: registry,
		path:     &pathSource{digester: digester},
		git:      &gitSource{manager: manager},
		url:      &urlSource{client: registry},
	}
}

// ListVersions lists registry versions for a package.
func (c *Composite) ListVersions(ctx context.Context, name domain.PackageName) ([]domain.Version, error) {
	return c.registry.ListVersions(ctx, name)
}

// FetchMetadata fetches the candidate for one exact registry version.
func (c *Composite) FetchMetadata(ctx context.Context, name domain.PackageName, version domain.Version) (*domain.CandidateVersion, error) {
	return c.registry.FetchMetadata(ctx, name, version)
}

// FetchPinned resolves a pinned requirement to its single candidate.
func (c *Composite) FetchPinned(ctx context.Context, req domain.Requirement) (*domain.CandidateVersion, error) {
	switch req.Source.Kind {
	case domain.SourceGit:
		return c.git.fetch(ctx, req)
	case domain.SourceURL:
		return c.url.fetch(ctx, req)
	case domain.SourcePath:
		return c.path.fetch(ctx, req)
	case domain.SourceRegistry:
		return nil, zerr.With(zerr.New("registry requirement passed to FetchPinned"), "package", req.Name.String())
	default:
		return nil, zerr.With(zerr.New("unknown source kind"), "kind", req.Source.Kind.String())
	}
}

// Fingerprint identifies the catalog configuration for lockfile staleness
// checks.
func (c *Composite) Fingerprint() string {
	h := xxhash.New()
	_, _ = h.WriteString("index:")
	_, _ = h.WriteString(c.registry.Fingerprint())
	return fmt.Sprintf("%016x", h.Sum64())
}

var _ ports.SourceCatalog = (*Composite)(nil)
