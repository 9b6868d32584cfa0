package domain

import (
	"sort"

	"go.trai.ch/zerr"
)

// WorkspaceMember is one package inside a workspace: its own declared
// version, its dependency groups and the directory it lives in.
type WorkspaceMember struct {
	Name    PackageName
	Path    string
	Version Version
	// Groups maps a group name ("main", "dev", ...) to the member's
	// declared requirements for that group.
	Groups map[string][]Requirement
}

// Workspace is the validated member set with intra-workspace dependency
// edges. Members are stored in an index-based node array; edges reference
// indexes, not pointers.
type Workspace struct {
	members []WorkspaceMember
	index   map[PackageName]int
	// edges[i] lists the member indexes that member i depends on.
	edges [][]int
}

// NewWorkspace validates the member set and detects dependency cycles among
// members. A cycle is a fatal configuration error reported with the full
// cycle path.
func NewWorkspace(members []WorkspaceMember) (*Workspace, error) {
	ws := &Workspace{
		members: members,
		index:   make(map[PackageName]int, len(members)),
		edges:   make([][]int, len(members)),
	}
	for i, m := range members {
		if _, exists := ws.index[m.Name]; exists {
			return nil, zerr.With(zerr.Wrap(ErrDuplicateMember, "member declared twice"), "member", m.Name.String())
		}
		ws.index[m.Name] = i
	}
	for i, m := range members {
		seen := map[int]bool{}
		for _, reqs := range m.Groups {
			for _, req := range reqs {
				j, ok := ws.index[req.Name]
				if !ok || j == i || seen[j] {
					continue
				}
				seen[j] = true
				ws.edges[i] = append(ws.edges[i], j)
			}
		}
		sort.Ints(ws.edges[i])
	}
	if err := ws.checkAcyclic(); err != nil {
		return nil, err
	}
	return ws, nil
}

// checkAcyclic runs a depth-first traversal with a recursion-stack visited
// set. The first member revisited while still on the active stack yields the
// cycle error naming the full path.
func (ws *Workspace) checkAcyclic() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, len(ws.members))
	var path []int

	var visit func(i int) error
	visit = func(i int) error {
		state[i] = visiting
		path = append(path, i)

		for _, j := range ws.edges[i] {
			if state[j] == visiting {
				return ws.cycleError(path, j)
			}
			if state[j] == unvisited {
				if err := visit(j); err != nil {
					return err
				}
			}
		}

		state[i] = done
		path = path[:len(path)-1]
		return nil
	}

	for i := range ws.members {
		if state[i] == unvisited {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleError renders the cycle path "a -> b -> a" starting at the revisited
// member.
func (ws *Workspace) cycleError(path []int, start int) error {
	cycle := ""
	printing := false
	for _, i := range path {
		if i == start {
			printing = true
		}
		if printing {
			cycle += ws.members[i].Name.String() + " -> "
		}
	}
	cycle += ws.members[start].Name.String()
	return zerr.Wrap(ErrCycle, cycle)
}

// Members returns the members in declaration order.
func (ws *Workspace) Members() []WorkspaceMember {
	return ws.members
}

// Member returns the named member.
func (ws *Workspace) Member(name PackageName) (WorkspaceMember, error) {
	i, ok := ws.index[name]
	if !ok {
		return WorkspaceMember{}, zerr.With(zerr.Wrap(ErrMemberNotFound, "no such member"), "member", name.String())
	}
	return ws.members[i], nil
}

// IsMember reports whether the name refers to a workspace member.
func (ws *Workspace) IsMember(name PackageName) bool {
	_, ok := ws.index[name]
	return ok
}

// UnionRoots merges every member's requirement groups into one root set for
// the solver. A reference from one member to a sibling becomes a
// path-sourced requirement pinned to the sibling's currently declared
// version, so external transitive versions are consistent workspace-wide.
// The sibling's own range (if any) is preserved: a range the sibling's
// current version cannot satisfy surfaces as a normal conflict rather than
// being silently dropped.
func (ws *Workspace) UnionRoots() map[string][]Requirement {
	union := make(map[string][]Requirement)
	for _, m := range ws.members {
		groupNames := make([]string, 0, len(m.Groups))
		for g := range m.Groups {
			groupNames = append(groupNames, g)
		}
		sort.Strings(groupNames)
		for _, g := range groupNames {
			for _, req := range m.Groups[g] {
				union[g] = append(union[g], ws.rewriteSibling(req))
			}
		}
	}
	return union
}

// MemberRoots returns one member's own requirements with sibling references
// rewritten, for member-scoped operations.
func (ws *Workspace) MemberRoots(name PackageName) (map[string][]Requirement, error) {
	m, err := ws.Member(name)
	if err != nil {
		return nil, err
	}
	roots := make(map[string][]Requirement, len(m.Groups))
	for g, reqs := range m.Groups {
		out := make([]Requirement, len(reqs))
		for i, req := range reqs {
			out[i] = ws.rewriteSibling(req)
		}
		roots[g] = out
	}
	return roots, nil
}

// rewriteSibling pins a requirement on a sibling member to the sibling's
// path and current version. Non-sibling requirements pass through.
func (ws *Workspace) rewriteSibling(req Requirement) Requirement {
	i, ok := ws.index[req.Name]
	if !ok {
		return req
	}
	sibling := ws.members[i]
	req.Source = Source{Kind: SourcePath, Path: sibling.Path}
	req.Specifier = Specifier{Clauses: []SpecifierClause{
		{Op: OpEqual, Version: sibling.Version},
	}}
	return req
}

// ProjectMemberSubset extracts the closure of a resolution reachable from
// one member's own roots, for member-scoped lock or install operations.
func (ws *Workspace) ProjectMemberSubset(resolution *Resolution, name PackageName) (*Resolution, error) {
	roots, err := ws.MemberRoots(name)
	if err != nil {
		return nil, err
	}
	var all []Requirement
	for _, reqs := range roots {
		all = append(all, reqs...)
	}
	return resolution.Subset(all), nil
}
