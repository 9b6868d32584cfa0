package domain

import (
	"strings"
	"unique"
)

// PackageName is a normalized, interned package identifier.
// Two differently spelled references to the same package (e.g. "My_Pkg" and
// "my.pkg") normalize to the same PackageName. Interning keeps comparisons
// cheap for names that appear on many requirement edges.
type PackageName struct {
	h unique.Handle[string]
}

// NormalizeName canonicalizes a raw package name and interns it: lowercase,
// with runs of '-', '_' and '.' collapsed to a single '-'.
func NormalizeName(raw string) PackageName {
	return PackageName{h: unique.Make(normalizeName(raw))}
}

func normalizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case '-', '_', '.':
			sep = true
		default:
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewPackageName creates a PackageName from a raw spelling.
func NewPackageName(raw string) PackageName {
	return NormalizeName(raw)
}

// String returns the normalized name.
func (n PackageName) String() string {
	var zero unique.Handle[string]
	if n.h == zero {
		return ""
	}
	return n.h.Value()
}

// IsZero reports whether the name is the zero value.
func (n PackageName) IsZero() bool {
	var zero unique.Handle[string]
	return n.h == zero
}

// MarshalText implements encoding.TextMarshaler.
func (n PackageName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The incoming text is normalized, so hand-edited files round-trip to the
// same identity as programmatic ones.
func (n *PackageName) UnmarshalText(text []byte) error {
	n.h = unique.Make(normalizeName(string(text)))
	return nil
}
