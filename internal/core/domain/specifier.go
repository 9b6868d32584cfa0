package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// SpecifierOp is a version comparison operator.
type SpecifierOp string

const (
	OpEqual        SpecifierOp = "=="
	OpNotEqual     SpecifierOp = "!="
	OpGreaterEqual SpecifierOp = ">="
	OpLessEqual    SpecifierOp = "<="
	OpGreater      SpecifierOp = ">"
	OpLess         SpecifierOp = "<"
	OpCompatible   SpecifierOp = "~="
)

// specifierOps lists operators longest-first so two-character operators win
// during parsing.
var specifierOps = []SpecifierOp{
	OpCompatible, OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess,
}

// SpecifierClause is a single (operator, version) constraint.
type SpecifierClause struct {
	Op      SpecifierOp
	Version Version
}

// Match reports whether the clause accepts v.
func (c SpecifierClause) Match(v Version) bool {
	cmp := v.Compare(c.Version)
	switch c.Op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpCompatible:
		// ~=X.Y.Z means >=X.Y.Z with the same X.Y prefix.
		if cmp < 0 {
			return false
		}
		return compareRelease(v.Release[:min(len(v.Release), len(c.Version.TruncatedRelease()))], c.Version.TruncatedRelease()) == 0
	default:
		return false
	}
}

// String renders the clause in canonical form.
func (c SpecifierClause) String() string {
	return string(c.Op) + c.Version.String()
}

// Specifier is a conjunction of clauses. The zero value matches every
// version.
type Specifier struct {
	Clauses []SpecifierClause
}

// ParseSpecifier parses a comma-separated clause list such as ">=1.0,<2.0".
// An empty string yields the match-all specifier.
func ParseSpecifier(s string) (Specifier, error) {
	var spec Specifier
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	if s == "" {
		return spec, nil
	}
	for raw := range strings.SplitSeq(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return Specifier{}, zerr.With(zerr.Wrap(ErrParse, "invalid specifier"), "specifier", s)
		}
		clause, err := parseClause(raw)
		if err != nil {
			return Specifier{}, err
		}
		spec.Clauses = append(spec.Clauses, clause)
	}
	return spec, nil
}

func parseClause(raw string) (SpecifierClause, error) {
	for _, op := range specifierOps {
		if strings.HasPrefix(raw, string(op)) {
			v, err := ParseVersion(strings.TrimSpace(raw[len(op):]))
			if err != nil {
				return SpecifierClause{}, zerr.With(zerr.Wrap(ErrParse, "invalid specifier clause"), "clause", raw)
			}
			return SpecifierClause{Op: op, Version: v}, nil
		}
	}
	return SpecifierClause{}, zerr.With(zerr.Wrap(ErrParse, "invalid specifier clause"), "clause", raw)
}

// Contains reports whether v satisfies every clause.
func (s Specifier) Contains(v Version) bool {
	for _, c := range s.Clauses {
		if !c.Match(v) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the specifier has no clauses.
func (s Specifier) IsEmpty() bool {
	return len(s.Clauses) == 0
}

// InvitesPrerelease reports whether any clause explicitly names a
// pre-release version. Such a requirement opts its package into pre-release
// candidates.
func (s Specifier) InvitesPrerelease() bool {
	for _, c := range s.Clauses {
		if c.Version.IsPrerelease() {
			return true
		}
	}
	return false
}

// Pinned returns the exact version required by an == clause, if the
// specifier contains one.
func (s Specifier) Pinned() (Version, bool) {
	for _, c := range s.Clauses {
		if c.Op == OpEqual {
			return c.Version, true
		}
	}
	return Version{}, false
}

// String renders the conjunction in declaration order.
func (s Specifier) String() string {
	parts := make([]string, len(s.Clauses))
	for i, c := range s.Clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
