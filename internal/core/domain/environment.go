package domain

import (
	"maps"
	"sort"
	"strings"
)

// Environment is one immutable snapshot of the target environment used for
// marker evaluation. A resolve call evaluates every marker against the same
// snapshot, so evaluation is pure and repeatable.
type Environment struct {
	attrs  map[string]string
	extras map[string]struct{}
}

// NewEnvironment creates a snapshot from attribute key/value pairs such as
// "os_name", "sys_platform" or "python_version".
func NewEnvironment(attrs map[string]string) Environment {
	return Environment{attrs: maps.Clone(attrs)}
}

// WithExtras returns a copy of the environment with the given extras active.
// The "extra" marker variable matches any active extra.
func (e Environment) WithExtras(extras []string) Environment {
	out := Environment{attrs: e.attrs, extras: make(map[string]struct{}, len(extras))}
	maps.Copy(out.extras, e.extras)
	for _, x := range extras {
		out.extras[strings.ToLower(x)] = struct{}{}
	}
	return out
}

// Attr returns the value of an environment attribute, or "" if unset.
func (e Environment) Attr(name string) string {
	return e.attrs[name]
}

// HasExtra reports whether the named extra is active in this snapshot.
func (e Environment) HasExtra(name string) bool {
	_, ok := e.extras[strings.ToLower(name)]
	return ok
}

// AttrNames returns the attribute keys in sorted order. Used when
// fingerprinting an environment.
func (e Environment) AttrNames() []string {
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
