// Package lockfile encodes resolutions into the persisted lock format and
// checks existing locks for freshness.
package lockfile

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/lode/internal/core/domain"
)

// RootsFingerprint digests the root requirement set. Group names and each
// group's canonical requirement strings are visited in sorted order, so the
// fingerprint is independent of declaration order while still moving when
// any requirement, extra, marker or source changes.
func RootsFingerprint(rootGroups map[string][]domain.Requirement) string {
	groups := make([]string, 0, len(rootGroups))
	for g := range rootGroups {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	h := xxhash.New()
	for _, g := range groups {
		_, _ = h.WriteString(g)
		_, _ = h.Write([]byte{0})

		reqs := make([]string, 0, len(rootGroups[g]))
		for _, req := range rootGroups[g] {
			reqs = append(reqs, req.String())
		}
		sort.Strings(reqs)
		for _, s := range reqs {
			_, _ = h.WriteString(s)
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// EnvironmentFingerprint digests the marker-evaluation snapshot a lock was
// produced against.
func EnvironmentFingerprint(env domain.Environment) string {
	h := xxhash.New()
	for _, name := range env.AttrNames() {
		_, _ = h.WriteString(name)
		_, _ = h.Write([]byte{'='})
		_, _ = h.WriteString(env.Attr(name))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
