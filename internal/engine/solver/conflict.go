package solver

import (
	"strings"

	"go.trai.ch/lode/internal/core/domain"
)

// Unsatisfiable reports that no consistent version assignment exists for a
// package. It carries the minimal conflicting requirement chain: one
// provenance path per clashing requirement, each leading from a root group
// to the contested package.
//
// The chain is minimal in the sense that dropping any one path makes the
// remainder satisfiable.
type Unsatisfiable struct {
	// Package is the contested package name.
	Package domain.PackageName
	// Paths holds one requirement-edge path per clashing constraint,
	// innermost edge (the one targeting Package) first.
	Paths [][]domain.RequirementEdge
}

// Error renders a human-readable explanation chain. Internal solver state
// never leaks here; only requirement edges and their provenance do.
func (u *Unsatisfiable) Error() string {
	var b strings.Builder
	b.WriteString("no version of ")
	b.WriteString(u.Package.String())
	b.WriteString(" satisfies all requirements")
	for _, path := range u.Paths {
		b.WriteString("\n  ")
		for i, edge := range path {
			if i > 0 {
				b.WriteString(", because ")
			}
			b.WriteString(edge.Describe())
		}
	}
	return b.String()
}

// Unwrap ties the error into the domain taxonomy so callers can match
// errors.Is(err, domain.ErrUnsatisfiable).
func (u *Unsatisfiable) Unwrap() error {
	return domain.ErrUnsatisfiable
}

// Edges returns the innermost edge of every path: the constraints that
// clash directly on the contested package.
func (u *Unsatisfiable) Edges() []domain.RequirementEdge {
	edges := make([]domain.RequirementEdge, 0, len(u.Paths))
	for _, path := range u.Paths {
		if len(path) > 0 {
			edges = append(edges, path[0])
		}
	}
	return edges
}
