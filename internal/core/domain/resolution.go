package domain

import (
	"slices"
	"sort"
	"strings"
)

// RequirementEdge records one requirement together with where it came from:
// a root group (Group set, From zero) or a chosen candidate (From set).
type RequirementEdge struct {
	// Group is the root group name for root edges, "" for edges
	// discovered from a candidate's metadata.
	Group string
	// From is the package whose candidate declared the requirement.
	From PackageName
	// FromVersion is the version of that candidate.
	FromVersion Version
	// Requirement is the constraint itself.
	Requirement Requirement
}

// IsRoot reports whether the edge originates from a root group rather than
// a chosen candidate.
func (e RequirementEdge) IsRoot() bool {
	return e.From.IsZero()
}

// Describe renders the edge for explanation chains.
func (e RequirementEdge) Describe() string {
	if e.IsRoot() {
		return "group " + e.Group + " requires " + e.Requirement.String()
	}
	return e.From.String() + " " + e.FromVersion.String() + " requires " + e.Requirement.String()
}

// ResolvedPackage is one package's entry in a Resolution: the chosen
// candidate, which groups pulled it in and the requirement edges that
// justified the choice.
type ResolvedPackage struct {
	Candidate CandidateVersion
	// Groups is the sorted set of root group names this package is
	// reachable from.
	Groups []string
	// Via are the requirement edges targeting this package, in the order
	// the solver committed them.
	Via []RequirementEdge
	// Extras is the sorted set of extras activated on this package.
	Extras []string
}

// Resolution is the committed package-name to candidate mapping for one
// resolve pass. It is immutable once produced.
type Resolution struct {
	packages map[PackageName]*ResolvedPackage
}

// NewResolution creates a Resolution over the given package map. The map is
// owned by the Resolution afterwards.
func NewResolution(packages map[PackageName]*ResolvedPackage) *Resolution {
	return &Resolution{packages: packages}
}

// Get returns the entry for a package, or nil.
func (r *Resolution) Get(name PackageName) *ResolvedPackage {
	return r.packages[name]
}

// Len returns the number of resolved packages.
func (r *Resolution) Len() int {
	return len(r.packages)
}

// Names returns all package names sorted by their normalized spelling, the
// iteration order for anything user-visible or persisted.
func (r *Resolution) Names() []PackageName {
	names := make([]PackageName, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i].String() < names[j].String()
	})
	return names
}

// Subset returns a new Resolution restricted to the closure reachable from
// the given root requirements. Marker-dropped edges do not contribute to
// reachability; the active extras recorded on each entry do.
func (r *Resolution) Subset(roots []Requirement) *Resolution {
	out := make(map[PackageName]*ResolvedPackage)
	var queue []PackageName
	for _, root := range roots {
		if _, ok := r.packages[root.Name]; ok {
			queue = append(queue, root.Name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, seen := out[name]; seen {
			continue
		}
		entry, ok := r.packages[name]
		if !ok {
			continue
		}
		out[name] = entry
		for _, dep := range entry.Candidate.DependenciesFor(entry.Extras) {
			if _, ok := r.packages[dep.Name]; ok {
				queue = append(queue, dep.Name)
			}
		}
	}
	return NewResolution(out)
}

// Why returns the requirement edges that justify the presence of a package,
// or nil if the package is not part of the resolution.
func (r *Resolution) Why(name PackageName) []RequirementEdge {
	entry, ok := r.packages[name]
	if !ok {
		return nil
	}
	return slices.Clone(entry.Via)
}

// PathToRoot walks provenance edges from a package back to a root group and
// returns the chain, innermost edge first. Used to render conflict
// explanations.
func (r *Resolution) PathToRoot(name PackageName) []RequirementEdge {
	var chain []RequirementEdge
	seen := map[PackageName]bool{}
	for {
		entry, ok := r.packages[name]
		if !ok || len(entry.Via) == 0 || seen[name] {
			return chain
		}
		seen[name] = true
		edge := entry.Via[0]
		chain = append(chain, edge)
		if edge.IsRoot() {
			return chain
		}
		name = edge.From
	}
}

// mergeSortedSet inserts value into a sorted string set.
func mergeSortedSet(set []string, value string) []string {
	i, found := slices.BinarySearch(set, value)
	if found {
		return set
	}
	return slices.Insert(set, i, value)
}

// GroupList formats the sorted group set of a resolved package.
func (p *ResolvedPackage) GroupList() string {
	return strings.Join(p.Groups, ", ")
}
