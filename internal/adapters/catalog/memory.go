package catalog

import (
	"context"
	"sync"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/zerr"
)

// Memory is an in-memory snapshot catalog used by tests and offline runs. It
// is populated up front and safe for concurrent reads; an optional delay
// hook runs on every fetch so tests can exercise fetch-order independence.
type Memory struct {
	mu          sync.RWMutex
	packages    map[domain.PackageName]map[string]*domain.CandidateVersion
	pinned      map[string]*domain.CandidateVersion
	failures    map[domain.PackageName]error
	fingerprint string
	delay       func()
}

// NewMemory creates an empty snapshot catalog.
func NewMemory() *Memory {
	return &Memory{
		packages:    make(map[domain.PackageName]map[string]*domain.CandidateVersion),
		pinned:      make(map[string]*domain.CandidateVersion),
		failures:    make(map[domain.PackageName]error),
		fingerprint: "memory",
	}
}

// Add registers one registry candidate. Dependency strings use requirement
// syntax and must parse.
func (m *Memory) Add(name, version string, deps ...string) *Memory {
	reqs := make([]domain.Requirement, len(deps))
	for i, d := range deps {
		reqs[i] = domain.MustParseRequirement(d)
	}
	cand := &domain.CandidateVersion{
		Name:         domain.NormalizeName(name),
		Version:      domain.MustParseVersion(version),
		Source:       domain.Source{Kind: domain.SourceRegistry},
		Digest:       "digest-" + name + "-" + version,
		Dependencies: reqs,
	}
	return m.AddCandidate(cand)
}

// AddExtra attaches extra-scoped dependencies to a previously added
// candidate.
func (m *Memory) AddExtra(name, version, extra string, deps ...string) *Memory {
	reqs := make([]domain.Requirement, len(deps))
	for i, d := range deps {
		reqs[i] = domain.MustParseRequirement(d)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cand := m.packages[domain.NormalizeName(name)][domain.MustParseVersion(version).String()]
	if cand.ExtraDependencies == nil {
		cand.ExtraDependencies = make(map[string][]domain.Requirement)
	}
	cand.ExtraDependencies[extra] = reqs
	return m
}

// AddCandidate registers a fully built candidate. Pinned-source candidates
// are additionally indexed by their source locator.
func (m *Memory) AddCandidate(cand *domain.CandidateVersion) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cand.Source.IsPinned() {
		m.pinned[cand.Source.Kind.String()+"\x00"+cand.Source.Locator()] = cand
		return m
	}
	versions, ok := m.packages[cand.Name]
	if !ok {
		versions = make(map[string]*domain.CandidateVersion)
		m.packages[cand.Name] = versions
	}
	versions[cand.Version.String()] = cand
	return m
}

// FailWith makes every lookup of the package return err.
func (m *Memory) FailWith(name string, err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[domain.NormalizeName(name)] = err
	return m
}

// SetDelay installs a hook invoked at the start of every fetch.
func (m *Memory) SetDelay(delay func()) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = delay
	return m
}

// SetFingerprint overrides the catalog fingerprint.
func (m *Memory) SetFingerprint(fp string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fingerprint = fp
	return m
}

func (m *Memory) stall() {
	m.mu.RLock()
	delay := m.delay
	m.mu.RUnlock()
	if delay != nil {
		delay()
	}
}

// ListVersions returns the snapshot's versions for a package, unordered.
func (m *Memory) ListVersions(_ context.Context, name domain.PackageName) ([]domain.Version, error) {
	m.stall()
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	versions, ok := m.packages[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "not in snapshot"), "package", name.String())
	}
	out := make([]domain.Version, 0, len(versions))
	for _, cand := range versions {
		out = append(out, cand.Version)
	}
	return out, nil
}

// FetchMetadata returns the snapshot candidate for one exact version.
func (m *Memory) FetchMetadata(_ context.Context, name domain.PackageName, version domain.Version) (*domain.CandidateVersion, error) {
	m.stall()
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	cand, ok := m.packages[name][version.String()]
	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrNotFound, "not in snapshot"), "package", name.String()), "version", version.String())
	}
	return cand, nil
}

// FetchPinned returns the snapshot candidate registered for a pinned source.
func (m *Memory) FetchPinned(_ context.Context, req domain.Requirement) (*domain.CandidateVersion, error) {
	m.stall()
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[req.Name]; ok {
		return nil, err
	}
	cand, ok := m.pinned[req.Source.Kind.String()+"\x00"+req.Source.Locator()]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "no pinned candidate in snapshot"), "locator", req.Source.Locator())
	}
	return cand, nil
}

// Fingerprint identifies the snapshot.
func (m *Memory) Fingerprint() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fingerprint
}
