package lockfile

import (
	"go.trai.ch/lode/internal/core/domain"
)

// Project restricts a lock to the closure reachable from the given root
// requirements, for per-member lock views in a workspace. Header fields are
// carried over unchanged except the roots fingerprint, which is recomputed
// for the projected root set.
func Project(lock *Lock, rootGroups map[string][]domain.Requirement) *Lock {
	byName := make(map[string]*LockedPackage, len(lock.Packages))
	for i := range lock.Packages {
		byName[lock.Packages[i].Name] = &lock.Packages[i]
	}

	var queue []string
	for _, reqs := range rootGroups {
		for _, req := range reqs {
			queue = append(queue, req.Name.String())
		}
	}

	seen := make(map[string]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		entry, ok := byName[name]
		if !ok {
			continue
		}
		seen[name] = true
		for _, dep := range entry.Dependencies {
			req, err := domain.ParseRequirement(dep)
			if err != nil {
				continue
			}
			queue = append(queue, req.Name.String())
		}
	}

	out := &Lock{
		Format:      lock.Format,
		Tool:        lock.Tool,
		Roots:       RootsFingerprint(rootGroups),
		Catalog:     lock.Catalog,
		Environment: lock.Environment,
	}
	for _, p := range lock.Packages {
		if seen[p.Name] {
			out.Packages = append(out.Packages, p)
		}
	}
	return out
}
