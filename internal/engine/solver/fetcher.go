package solver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
)

// fetcher memoizes catalog calls and runs them on a bounded worker pool.
// The decision loop stays single-threaded: it only ever blocks on the
// completion of one memoized entry, so fetch-completion order cannot leak
// into decisions. Entries are keyed by (name, version) pins whose content is
// immutable, which makes duplicate fetches idempotent.
type fetcher struct {
	catalog   ports.SourceCatalog
	telemetry ports.Telemetry

	group *errgroup.Group

	mu       sync.Mutex
	versions map[domain.PackageName]*fetchEntry[[]domain.Version]
	meta     map[metaKey]*fetchEntry[*domain.CandidateVersion]
	pinned   map[string]*fetchEntry[*domain.CandidateVersion]
}

type metaKey struct {
	name    domain.PackageName
	version string
}

type fetchEntry[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFetcher(catalog ports.SourceCatalog, telemetry ports.Telemetry, workers int) *fetcher {
	group := &errgroup.Group{}
	group.SetLimit(workers)
	return &fetcher{
		catalog:   catalog,
		telemetry: telemetry,
		group:     group,
		versions: make(map[domain.PackageName]*fetchEntry[[]domain.Version]),
		meta:     make(map[metaKey]*fetchEntry[*domain.CandidateVersion]),
		pinned:   make(map[string]*fetchEntry[*domain.CandidateVersion]),
	}
}

// wait drains in-flight fetches. Called on every exit from a resolve so a
// cancelled call leaves no goroutines behind.
func (f *fetcher) wait() {
	_ = f.group.Wait()
}

// Versions lists the known versions of a registry package, fetching at most
// once per package.
func (f *fetcher) Versions(ctx context.Context, name domain.PackageName) ([]domain.Version, error) {
	f.mu.Lock()
	entry, ok := f.versions[name]
	if !ok {
		entry = &fetchEntry[[]domain.Version]{done: make(chan struct{})}
		f.versions[name] = entry
		f.mu.Unlock()
		f.group.Go(func() error {
			defer close(entry.done)
			_, vtx := f.telemetry.Record(ctx, "index "+name.String())
			entry.val, entry.err = f.catalog.ListVersions(ctx, name)
			vtx.Complete(entry.err)
			return nil
		})
	} else {
		f.mu.Unlock()
	}

	select {
	case <-entry.done:
		return entry.val, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Metadata fetches the candidate for one exact registry version.
func (f *fetcher) Metadata(ctx context.Context, name domain.PackageName, version domain.Version) (*domain.CandidateVersion, error) {
	key := metaKey{name: name, version: version.String()}
	f.mu.Lock()
	entry, ok := f.meta[key]
	if !ok {
		entry = &fetchEntry[*domain.CandidateVersion]{done: make(chan struct{})}
		f.meta[key] = entry
		f.mu.Unlock()
		f.group.Go(func() error {
			defer close(entry.done)
			_, vtx := f.telemetry.Record(ctx, "fetch "+name.String()+" "+version.String())
			entry.val, entry.err = f.catalog.FetchMetadata(ctx, name, version)
			vtx.Complete(entry.err)
			return nil
		})
	} else {
		f.mu.Unlock()
	}

	select {
	case <-entry.done:
		return entry.val, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pinned fetches the single candidate of a git/url/path-sourced requirement.
func (f *fetcher) Pinned(ctx context.Context, req domain.Requirement) (*domain.CandidateVersion, error) {
	key := req.Source.Kind.String() + "\x00" + req.Source.Locator()
	f.mu.Lock()
	entry, ok := f.pinned[key]
	if !ok {
		entry = &fetchEntry[*domain.CandidateVersion]{done: make(chan struct{})}
		f.pinned[key] = entry
		f.mu.Unlock()
		f.group.Go(func() error {
			defer close(entry.done)
			_, vtx := f.telemetry.Record(ctx, "pin "+req.Name.String())
			entry.val, entry.err = f.catalog.FetchPinned(ctx, req)
			vtx.Complete(entry.err)
			return nil
		})
	} else {
		f.mu.Unlock()
	}

	select {
	case <-entry.done:
		return entry.val, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PrefetchVersions kicks off version listings without waiting for them.
func (f *fetcher) PrefetchVersions(ctx context.Context, names []domain.PackageName) {
	for _, name := range names {
		f.mu.Lock()
		if _, ok := f.versions[name]; ok {
			f.mu.Unlock()
			continue
		}
		entry := &fetchEntry[[]domain.Version]{done: make(chan struct{})}
		f.versions[name] = entry
		f.mu.Unlock()
		f.group.Go(func() error {
			defer close(entry.done)
			entry.val, entry.err = f.catalog.ListVersions(ctx, name)
			return nil
		})
	}
}

// PrefetchMetadata kicks off metadata fetches for the most preferred
// candidates of a package so the decision loop rarely waits.
func (f *fetcher) PrefetchMetadata(ctx context.Context, name domain.PackageName, versions []domain.Version) {
	for _, version := range versions {
		key := metaKey{name: name, version: version.String()}
		f.mu.Lock()
		if _, ok := f.meta[key]; ok {
			f.mu.Unlock()
			continue
		}
		entry := &fetchEntry[*domain.CandidateVersion]{done: make(chan struct{})}
		f.meta[key] = entry
		f.mu.Unlock()
		f.group.Go(func() error {
			defer close(entry.done)
			entry.val, entry.err = f.catalog.FetchMetadata(ctx, name, version)
			return nil
		})
	}
}
