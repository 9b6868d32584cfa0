package domain

// CandidateVersion is one concrete instance a requirement can be satisfied
// by: a registry version or a pinned git/url/path checkout, together with
// the dependency metadata declared by that exact content.
type CandidateVersion struct {
	Name    PackageName
	Version Version

	// Source records where the candidate came from. Registry candidates
	// have an empty locator.
	Source Source

	// Pin is the exact content identity for non-registry sources: a git
	// commit hash, url content digest or path directory digest. Empty
	// for registry candidates, whose identity is the version itself.
	Pin string

	// Digest is the content digest recorded into the lockfile.
	Digest string

	// Dependencies are the candidate's declared requirements,
	// independent of any environment.
	Dependencies []Requirement

	// ExtraDependencies maps an extra name to the additional requirements
	// that extra activates.
	ExtraDependencies map[string][]Requirement
}

// DependenciesFor returns the declared dependencies plus those of every
// named extra. Unknown extras contribute nothing; the solver reports them
// separately.
func (c *CandidateVersion) DependenciesFor(extras []string) []Requirement {
	deps := make([]Requirement, 0, len(c.Dependencies))
	deps = append(deps, c.Dependencies...)
	for _, extra := range extras {
		deps = append(deps, c.ExtraDependencies[extra]...)
	}
	return deps
}

// PinnedIdentity returns the string that identifies the candidate's exact
// content: the pin for pinned sources, the version otherwise.
func (c *CandidateVersion) PinnedIdentity() string {
	if c.Pin != "" {
		return c.Pin
	}
	return c.Version.String()
}
