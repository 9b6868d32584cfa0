package lockfile

import (
	"sort"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/lode/internal/build"
	"go.trai.ch/lode/internal/core/domain"
)

// FormatVersion is the lock format this build reads and writes. Readers fail
// closed on anything newer.
const FormatVersion = 1

// Lock is the decoded lockfile: header plus the flattened package entries.
type Lock struct {
	Format int `yaml:"format"`
	// Tool is the lode version that wrote the lock. Informational only;
	// freshness is decided by the fingerprints.
	Tool string `yaml:"tool"`
	// Roots fingerprints the root requirement set the lock satisfies.
	Roots string `yaml:"roots"`
	// Catalog fingerprints the catalog configuration used to resolve.
	Catalog string `yaml:"catalog"`
	// Environment fingerprints the marker-evaluation snapshot.
	Environment string `yaml:"environment"`

	Packages []LockedPackage `yaml:"packages"`
}

// LockedPackage is one resolved package in the lock. Dependencies are stored
// as canonical requirement strings so the lock round-trips without loss.
type LockedPackage struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
	// Locator is the kind-specific location, empty for registry entries.
	Locator string `yaml:"locator,omitempty"`
	// Pin is the exact content identity for non-registry sources.
	Pin    string `yaml:"pin,omitempty"`
	Digest string `yaml:"digest,omitempty"`

	Groups       []string `yaml:"groups,omitempty"`
	Extras       []string `yaml:"extras,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// Encode renders a resolution into lock bytes. Output is byte-identical for
// equal inputs: entries are sorted by name, then source kind, then version,
// and every list inside an entry is sorted.
func Encode(resolution *domain.Resolution, rootGroups map[string][]domain.Requirement, catalogFingerprint string, env domain.Environment) ([]byte, error) {
	lock := Lock{
		Format:      FormatVersion,
		Tool:        build.Version,
		Roots:       RootsFingerprint(rootGroups),
		Catalog:     catalogFingerprint,
		Environment: EnvironmentFingerprint(env),
	}

	for _, name := range resolution.Names() {
		entry := resolution.Get(name)
		cand := entry.Candidate

		deps := make([]string, 0, len(cand.Dependencies))
		for _, dep := range cand.DependenciesFor(entry.Extras) {
			deps = append(deps, dep.String())
		}
		sort.Strings(deps)

		lock.Packages = append(lock.Packages, LockedPackage{
			Name:         name.String(),
			Version:      cand.Version.String(),
			Source:       cand.Source.Kind.String(),
			Locator:      cand.Source.Locator(),
			Pin:          cand.Pin,
			Digest:       cand.Digest,
			Groups:       entry.Groups,
			Extras:       entry.Extras,
			Dependencies: deps,
		})
	}

	sort.SliceStable(lock.Packages, func(i, j int) bool {
		a, b := lock.Packages[i], lock.Packages[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Version < b.Version
	})

	data, err := yaml.Marshal(&lock)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode lockfile")
	}
	return data, nil
}

// EncodeLock renders an already-assembled Lock, used for projections.
func EncodeLock(lock *Lock) ([]byte, error) {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode lockfile")
	}
	return data, nil
}

// Decode parses lock bytes, failing closed: a newer format version is
// ErrUnsupportedFormat, anything structurally broken is ErrFormat. Decode
// never guesses at fields it does not understand.
func Decode(data []byte) (*Lock, error) {
	var lock Lock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, zerr.Wrap(domain.ErrFormat, err.Error())
	}

	if lock.Format == 0 {
		return nil, zerr.Wrap(domain.ErrFormat, "lockfile missing format version")
	}
	if lock.Format > FormatVersion {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrUnsupportedFormat, "lockfile written by a newer tool"),
			"format", lock.Format), "supported", FormatVersion)
	}

	for _, p := range lock.Packages {
		if p.Name == "" || p.Version == "" {
			return nil, zerr.Wrap(domain.ErrFormat, "lockfile entry missing name or version")
		}
		if _, ok := domain.ParseSourceKind(p.Source); !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrFormat, "lockfile entry has unknown source kind"), "source", p.Source)
		}
		if _, err := domain.ParseVersion(p.Version); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrFormat, "lockfile entry has invalid version"), "package", p.Name)
		}
		for _, dep := range p.Dependencies {
			if _, err := domain.ParseRequirement(dep); err != nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrFormat, "lockfile entry has invalid dependency"), "package", p.Name)
			}
		}
	}

	return &lock, nil
}

// Status reports whether a decoded lock still matches the current inputs.
type Status struct {
	Fresh bool
	// Reason names the first mismatch for stale locks.
	Reason string
}

// Check compares a decoded lock against the current root set and catalog.
func Check(lock *Lock, rootGroups map[string][]domain.Requirement, catalogFingerprint string, env domain.Environment) Status {
	if roots := RootsFingerprint(rootGroups); lock.Roots != roots {
		return Status{Reason: "root requirements changed"}
	}
	if lock.Catalog != catalogFingerprint {
		return Status{Reason: "catalog configuration changed"}
	}
	if envFP := EnvironmentFingerprint(env); lock.Environment != envFP {
		return Status{Reason: "target environment changed"}
	}
	return Status{Fresh: true}
}
