// Package app implements the application layer for lode.
package app

import (
	"context"
	"fmt"
	"sort"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
	"go.trai.ch/lode/internal/engine/lockfile"
	"go.trai.ch/lode/internal/engine/solver"
	"go.trai.ch/zerr"
)

// App wires the workspace, solver and lock persistence into the user-facing
// operations.
type App struct {
	loader      ports.ConfigLoader
	solver      *solver.Solver
	catalog     ports.SourceCatalog
	envProvider ports.EnvironmentProvider
	lockStore   ports.LockStore
	logger      ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	slv *solver.Solver,
	catalog ports.SourceCatalog,
	envProvider ports.EnvironmentProvider,
	lockStore ports.LockStore,
	logger ports.Logger,
) *App {
	return &App{
		loader:      loader,
		solver:      slv,
		catalog:     catalog,
		envProvider: envProvider,
		lockStore:   lockStore,
		logger:      logger,
	}
}

// Options configure a resolve or lock operation.
type Options struct {
	Mode        solver.Mode
	Prereleases solver.PrereleasePolicy
}

// Resolve loads the workspace and computes a fresh resolution without
// touching the lockfile.
func (a *App) Resolve(ctx context.Context, cwd string, opts Options) (*domain.Resolution, error) {
	workspace, err := a.loader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workspace")
	}

	env, err := a.envProvider.Snapshot()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to snapshot environment")
	}

	roots := workspace.UnionRoots()
	resolution, err := a.solver.Resolve(ctx, roots, env, solver.Options{
		Mode:        opts.Mode,
		Prereleases: opts.Prereleases,
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("resolved workspace", "packages", resolution.Len())
	return resolution, nil
}

// Lock resolves the workspace and writes the lockfile. Nothing is written
// when resolution fails or the context is cancelled; the existing lock
// always stays intact on error.
func (a *App) Lock(ctx context.Context, cwd string, opts Options) error {
	workspace, err := a.loader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load workspace")
	}

	env, err := a.envProvider.Snapshot()
	if err != nil {
		return zerr.Wrap(err, "failed to snapshot environment")
	}

	roots := workspace.UnionRoots()
	resolution, err := a.solver.Resolve(ctx, roots, env, solver.Options{
		Mode:        opts.Mode,
		Prereleases: opts.Prereleases,
	})
	if err != nil {
		return err
	}

	data, err := lockfile.Encode(resolution, roots, a.catalog.Fingerprint(), env)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "lock cancelled before write")
	}

	if err := a.lockStore.Write(data); err != nil {
		return err
	}
	a.logger.Info("lockfile written", "packages", resolution.Len())
	return nil
}

// Check reports whether the existing lockfile still satisfies the current
// workspace, catalog and environment. A missing lock is stale, not an error.
func (a *App) Check(ctx context.Context, cwd string) (lockfile.Status, error) {
	workspace, err := a.loader.Load(cwd)
	if err != nil {
		return lockfile.Status{}, zerr.Wrap(err, "failed to load workspace")
	}

	data, exists, err := a.lockStore.Read()
	if err != nil {
		return lockfile.Status{}, err
	}
	if !exists {
		return lockfile.Status{Reason: "lockfile missing"}, nil
	}

	lock, err := lockfile.Decode(data)
	if err != nil {
		return lockfile.Status{}, err
	}

	env, err := a.envProvider.Snapshot()
	if err != nil {
		return lockfile.Status{}, zerr.Wrap(err, "failed to snapshot environment")
	}

	return lockfile.Check(lock, workspace.UnionRoots(), a.catalog.Fingerprint(), env), nil
}

// MemberLock returns the lock projection for one workspace member: the
// closure of the workspace lock reachable from that member's own roots.
func (a *App) MemberLock(ctx context.Context, cwd, member string) ([]byte, error) {
	workspace, err := a.loader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workspace")
	}

	roots, err := workspace.MemberRoots(domain.NormalizeName(member))
	if err != nil {
		return nil, err
	}

	data, exists, err := a.lockStore.Read()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, zerr.Wrap(domain.ErrStaleLock, "no lockfile to project; run lock first")
	}

	lock, err := lockfile.Decode(data)
	if err != nil {
		return nil, err
	}

	projected := lockfile.Project(lock, roots)
	return lockfile.EncodeLock(projected)
}

// Why explains why a package is present: the chain of locked packages
// linking a root requirement to it. The chain is deterministic; ties pick
// the lexically smallest dependent.
func (a *App) Why(ctx context.Context, cwd, pkg string) ([]string, error) {
	workspace, err := a.loader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workspace")
	}

	data, exists, err := a.lockStore.Read()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, zerr.Wrap(domain.ErrStaleLock, "no lockfile; run lock first")
	}

	lock, err := lockfile.Decode(data)
	if err != nil {
		return nil, err
	}

	target := domain.NormalizeName(pkg).String()
	entries := make(map[string]lockfile.LockedPackage, len(lock.Packages))
	for _, p := range lock.Packages {
		entries[p.Name] = p
	}
	if _, ok := entries[target]; !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "package not in lockfile"), "package", pkg)
	}

	// dependents[x] lists the locked packages whose dependencies name x.
	dependents := make(map[string][]string)
	for _, p := range lock.Packages {
		for _, dep := range p.Dependencies {
			req, err := domain.ParseRequirement(dep)
			if err != nil {
				continue
			}
			dependents[req.Name.String()] = append(dependents[req.Name.String()], p.Name)
		}
	}
	for _, parents := range dependents {
		sort.Strings(parents)
	}

	rootNames := make(map[string]string)
	groups := make([]string, 0, len(workspace.UnionRoots()))
	unionRoots := workspace.UnionRoots()
	for g := range unionRoots {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		for _, req := range unionRoots[g] {
			name := req.Name.String()
			if _, ok := rootNames[name]; !ok {
				rootNames[name] = g
			}
		}
	}

	// Walk upwards from the target to the nearest root requirement.
	chain := []string{target}
	seen := map[string]bool{target: true}
	current := target
	for {
		if _, isRoot := rootNames[current]; isRoot {
			break
		}
		parents := dependents[current]
		next := ""
		for _, p := range parents {
			if !seen[p] {
				next = p
				break
			}
		}
		if next == "" {
			break
		}
		seen[next] = true
		chain = append(chain, next)
		current = next
	}

	// Render root-first.
	lines := make([]string, 0, len(chain)+1)
	if group, ok := rootNames[current]; ok {
		lines = append(lines, fmt.Sprintf("group %s requires %s", group, current))
	}
	for i := len(chain) - 1; i >= 0; i-- {
		entry := entries[chain[i]]
		lines = append(lines, fmt.Sprintf("%s %s (%s)", entry.Name, entry.Version, entry.Source))
	}
	return lines, nil
}
