// Package solver implements conflict-driven dependency resolution.
package solver

import (
	"context"
	"errors"
	"slices"
	"sort"

	"go.trai.ch/zerr"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
)

// Mode selects which satisfying version the solver prefers.
type Mode int

const (
	// ModeHighest prefers the newest satisfying version everywhere.
	ModeHighest Mode = iota
	// ModeLowestDirect pins directly declared root requirements to their
	// lowest satisfying version while transitive requirements still
	// prefer the highest. Useful for testing lower bounds.
	ModeLowestDirect
)

// PrereleasePolicy controls which packages may resolve to pre-release
// versions. Independent of the policy, a direct root requirement that names
// a pre-release version opts its package in.
type PrereleasePolicy struct {
	AllowAll bool
	Allow    map[domain.PackageName]bool
}

// Allows reports whether the policy opts the package into pre-releases.
func (p PrereleasePolicy) Allows(name domain.PackageName) bool {
	return p.AllowAll || p.Allow[name]
}

const (
	defaultMaxAttempts  = 32
	defaultFetchWorkers = 8
	prefetchDepth       = 3
)

// Options configure one resolve call.
type Options struct {
	Mode        Mode
	Prereleases PrereleasePolicy
	// MaxAttempts bounds how often the solver may revisit one package
	// before giving up with an unsatisfiability report.
	MaxAttempts int
	// FetchWorkers bounds concurrent metadata fetches.
	FetchWorkers int
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.FetchWorkers <= 0 {
		o.FetchWorkers = defaultFetchWorkers
	}
	return o
}

// Solver computes version assignments against a source catalog. A Solver is
// stateless across calls: every Resolve owns a fresh solve context, so
// independent resolves may run concurrently on one Solver.
type Solver struct {
	catalog   ports.SourceCatalog
	logger    ports.Logger
	telemetry ports.Telemetry
}

// New creates a Solver.
func New(catalog ports.SourceCatalog, logger ports.Logger, telemetry ports.Telemetry) *Solver {
	return &Solver{catalog: catalog, logger: logger, telemetry: telemetry}
}

// Resolve computes one consistent version assignment for the given root
// requirement groups, or an explained failure.
//
// Requirements whose markers evaluate false under env are dropped before
// they can constrain the solve. The final assignment is independent of
// fetch-completion order; cancellation discards all partial state.
func (s *Solver) Resolve(ctx context.Context, rootGroups map[string][]domain.Requirement, env domain.Environment, opts Options) (*domain.Resolution, error) {
	sc := &solveContext{
		solver:      s,
		env:         env,
		opts:        opts.withDefaults(),
		fetch:       newFetcher(s.catalog, s.telemetry, opts.withDefaults().FetchWorkers),
		constraints: make(map[domain.PackageName][]domain.RequirementEdge),
		extras:      make(map[domain.PackageName][]string),
		direct:      make(map[domain.PackageName]bool),
		rootPre:     make(map[domain.PackageName]bool),
		decided:     make(map[domain.PackageName]*decision),
		bans:        make(map[domain.PackageName][]*ban),
		attempts:    make(map[domain.PackageName]int),
		rootGroups:  make(map[string][]domain.Requirement),
	}
	defer sc.fetch.wait()

	sc.seedRoots(ctx, rootGroups)

	for {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "resolve cancelled")
		}
		name, ok := sc.nextUndecided()
		if !ok {
			break
		}
		if err := sc.decide(ctx, name); err != nil {
			return nil, err
		}
	}

	return sc.buildResolution(), nil
}

// decision is one committed candidate choice on the decision stack.
type decision struct {
	name      domain.PackageName
	candidate *domain.CandidateVersion
	// pinLocator records the locator of the requirement that pinned this
	// decision, if any. The candidate's own source may carry a resolved
	// form (a git ref rewritten to its commit), so later pinned edges are
	// checked against the requirement-level locator instead.
	pinLocator string
	// applied lists the extras whose dependency lists have already been
	// expanded onto the frontier.
	applied []string
}

// ban rejects one version of a package. A guarded ban holds only while the
// guard package is still decided at the guarded version; an unguarded ban is
// permanent for the remainder of the solve.
type ban struct {
	version string
	guards  map[domain.PackageName]string
	// causePkg and cause retain the clash that produced the ban, for
	// explanation chains.
	causePkg domain.PackageName
	cause    []domain.RequirementEdge
}

// solveContext is the explicit per-call search state: constraint frontier,
// decision stack and conflict log. Nothing here is shared across calls.
type solveContext struct {
	solver *Solver
	env    domain.Environment
	opts   Options
	fetch  *fetcher

	// constraints holds, per package, the requirement edges contributed
	// by root groups and currently decided candidates.
	constraints map[domain.PackageName][]domain.RequirementEdge
	// extras holds the sorted active extras per package.
	extras map[domain.PackageName][]string
	// direct marks packages named by root requirements.
	direct map[domain.PackageName]bool
	// rootPre marks packages whose direct root requirement names a
	// pre-release version.
	rootPre map[domain.PackageName]bool

	decisions []*decision
	decided   map[domain.PackageName]*decision

	bans     map[domain.PackageName][]*ban
	attempts map[domain.PackageName]int

	// rootGroups keeps the marker-filtered root set for group
	// reachability and fingerprinting by the caller.
	rootGroups map[string][]domain.Requirement
}

// seedRoots applies marker filtering to the root groups and loads the
// surviving requirements as root edges. Group names are walked in sorted
// order so seeding is deterministic.
func (sc *solveContext) seedRoots(ctx context.Context, rootGroups map[string][]domain.Requirement) {
	groupNames := make([]string, 0, len(rootGroups))
	for g := range rootGroups {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)

	var prefetch []domain.PackageName
	for _, g := range groupNames {
		for _, req := range rootGroups[g] {
			if !req.Marker.Eval(sc.env) {
				continue
			}
			sc.rootGroups[g] = append(sc.rootGroups[g], req)
			sc.direct[req.Name] = true
			if req.Specifier.InvitesPrerelease() {
				sc.rootPre[req.Name] = true
			}
			sc.addEdge(domain.RequirementEdge{Group: g, Requirement: req})
			if req.Source.IsRegistry() {
				prefetch = append(prefetch, req.Name)
			}
		}
	}
	sc.fetch.PrefetchVersions(ctx, prefetch)
}

// nextUndecided picks the lexically smallest constrained package without a
// decision. Lexical order keeps the search deterministic regardless of
// fetch-completion order.
func (sc *solveContext) nextUndecided() (domain.PackageName, bool) {
	var best domain.PackageName
	found := false
	for name := range sc.constraints {
		if _, ok := sc.decided[name]; ok {
			continue
		}
		if !found || name.String() < best.String() {
			best = name
			found = true
		}
	}
	return best, found
}

// decide chooses and commits a candidate for one package, backtracking on
// conflicts. It returns an error only for fatal failures: catalog errors on
// committed candidates, cancellation or unsatisfiability.
func (sc *solveContext) decide(ctx context.Context, name domain.PackageName) error {
	if sc.attempts[name] > sc.opts.MaxAttempts {
		return sc.unsatisfiable(name, slices.Clone(sc.constraints[name]))
	}
	edges := slices.Clone(sc.constraints[name])

	if pinned := pinnedEdges(edges); len(pinned) > 0 {
		return sc.decidePinned(ctx, name, edges, pinned)
	}
	return sc.decideRegistry(ctx, name, edges)
}

func pinnedEdges(edges []domain.RequirementEdge) []domain.RequirementEdge {
	var out []domain.RequirementEdge
	for _, e := range edges {
		if e.Requirement.Source.IsPinned() {
			out = append(out, e)
		}
	}
	return out
}

// decidePinned commits the single candidate of a path/git/url source. Path
// sources take precedence over other pinned kinds for the same name; two
// pinned sources with different locations are a hard conflict.
func (sc *solveContext) decidePinned(ctx context.Context, name domain.PackageName, edges, pinned []domain.RequirementEdge) error {
	winner := pinned[0]
	for _, e := range pinned[1:] {
		if e.Requirement.Source.Kind == domain.SourcePath && winner.Requirement.Source.Kind != domain.SourcePath {
			winner = e
		}
	}
	for _, e := range pinned {
		if e.Requirement.Source.Kind == winner.Requirement.Source.Kind &&
			e.Requirement.Source.Locator() != winner.Requirement.Source.Locator() {
			return sc.unsatisfiable(name, []domain.RequirementEdge{winner, e})
		}
	}

	cand, err := sc.fetch.Pinned(ctx, winner.Requirement)
	if err != nil {
		// A pinned source has no alternatives; its failure is fatal.
		return zerr.With(zerr.Wrap(err, "failed to fetch pinned source"), "package", name.String())
	}

	for _, e := range edges {
		if e.Requirement.Specifier.IsEmpty() || e.Requirement.Specifier.Contains(cand.Version) {
			continue
		}
		// The pin cannot move. If the clashing range came from a
		// decided package, that package must move instead.
		if from, ok := sc.decided[e.From]; ok {
			return sc.backtrackFrom(e.From, from, name, []domain.RequirementEdge{e, winner})
		}
		return sc.unsatisfiable(name, []domain.RequirementEdge{e, winner})
	}

	sc.push(&decision{
		name:       name,
		candidate:  cand,
		pinLocator: winner.Requirement.Source.Locator(),
	})
	return nil
}

// decideRegistry runs version search for a registry package.
func (sc *solveContext) decideRegistry(ctx context.Context, name domain.PackageName, edges []domain.RequirementEdge) error {
	versions, err := sc.fetch.Versions(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return sc.unsatisfiable(name, sc.constraints[name])
		}
		return zerr.With(zerr.Wrap(err, "failed to list versions"), "package", name.String())
	}

	ordered := sc.orderCandidates(name, versions)
	feasible := sc.filterFeasible(name, ordered, edges)

	if len(feasible) > 0 {
		sc.fetch.PrefetchMetadata(ctx, name, feasible[:min(len(feasible), prefetchDepth)])
	}

	for _, version := range feasible {
		if b := sc.activeBan(name, version); b != nil {
			continue
		}
		cand, err := sc.fetch.Metadata(ctx, name, version)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A tentative candidate that vanished is not
				// fatal; try the next alternative.
				sc.solver.logger.Warn("candidate metadata missing", "package", name.String(), "version", version.String())
				continue
			}
			return zerr.With(zerr.Wrap(err, "failed to fetch metadata"), "package", name.String())
		}
		sc.commit(name, cand)
		return nil
	}

	return sc.exhausted(name, versions, edges)
}

// orderCandidates sorts versions by preference for the given package under
// the active mode. Ties between equal versions break on their rendered form
// so ordering is total.
func (sc *solveContext) orderCandidates(name domain.PackageName, versions []domain.Version) []domain.Version {
	ordered := slices.Clone(versions)
	ascending := sc.opts.Mode == ModeLowestDirect && sc.direct[name]
	sort.SliceStable(ordered, func(i, j int) bool {
		c := ordered[i].Compare(ordered[j])
		if c == 0 {
			return ordered[i].String() < ordered[j].String()
		}
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return ordered
}

// filterFeasible drops versions excluded by current constraints or by the
// pre-release policy.
func (sc *solveContext) filterFeasible(name domain.PackageName, ordered []domain.Version, edges []domain.RequirementEdge) []domain.Version {
	allowPre := sc.opts.Prereleases.Allows(name) || sc.rootPre[name]
	var out []domain.Version
	for _, v := range ordered {
		if v.IsPrerelease() && !allowPre {
			continue
		}
		ok := true
		for _, e := range edges {
			if !e.Requirement.Specifier.Contains(v) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// commit pushes a decision and expands the candidate's dependency edges onto
// the frontier.
func (sc *solveContext) commit(name domain.PackageName, cand *domain.CandidateVersion) {
	sc.push(&decision{name: name, candidate: cand})
}

func (sc *solveContext) push(d *decision) {
	name, cand := d.name, d.candidate
	sc.decisions = append(sc.decisions, d)
	sc.decided[name] = d
	sc.solver.logger.Debug("decided", "package", name.String(), "version", cand.Version.String())
	sc.expandExtras(d)
}

// expandExtras applies the candidate's base dependencies plus those of any
// active extras that have not been expanded yet. Expansion stops as soon as
// a triggered backtrack pops the decision itself: a popped decision must not
// keep contributing edges.
func (sc *solveContext) expandExtras(d *decision) {
	parentEnv := sc.env.WithExtras(sc.extras[d.name])

	apply := func(reqs []domain.Requirement) bool {
		for _, dep := range reqs {
			if dep.Name == d.name {
				continue
			}
			if !dep.Marker.Eval(parentEnv) {
				continue
			}
			sc.addEdge(domain.RequirementEdge{
				From:        d.name,
				FromVersion: d.candidate.Version,
				Requirement: dep,
			})
			if sc.decided[d.name] != d {
				return false
			}
		}
		return true
	}

	if d.applied == nil {
		d.applied = []string{}
		if !apply(d.candidate.Dependencies) {
			return
		}
	}
	for _, extra := range sc.extras[d.name] {
		if slices.Contains(d.applied, extra) {
			continue
		}
		d.applied = append(d.applied, extra)
		if !apply(d.candidate.ExtraDependencies[extra]) {
			return
		}
	}
}

// addEdge records a requirement edge. When the edge activates extras or
// targets an already-decided package it may trigger incremental expansion or
// a backtrack, which the main loop picks up through the constraint state.
func (sc *solveContext) addEdge(e domain.RequirementEdge) {
	q := e.Requirement.Name
	sc.constraints[q] = append(sc.constraints[q], e)

	if len(e.Requirement.Extras) > 0 {
		changed := false
		for _, extra := range e.Requirement.Extras {
			before := len(sc.extras[q])
			sc.extras[q] = mergeSorted(sc.extras[q], extra)
			changed = changed || len(sc.extras[q]) != before
		}
		if d, ok := sc.decided[q]; ok && changed {
			// Extras never create a distinct package identity;
			// they only add scoped dependency edges to the same
			// chosen candidate.
			sc.expandExtras(d)
		}
	}

	d, ok := sc.decided[q]
	if !ok {
		return
	}
	violated := !e.Requirement.Specifier.IsEmpty() && !e.Requirement.Specifier.Contains(d.candidate.Version)
	repinned := false
	if e.Requirement.Source.IsPinned() {
		// A pinned edge against a registry decision is a kind clash; a
		// pinned edge against a pin of the same kind clashes when it
		// names a different location.
		repinned = d.candidate.Source.Kind != e.Requirement.Source.Kind ||
			e.Requirement.Source.Locator() != d.pinLocator
	}
	if violated || repinned {
		sc.conflict(q, e)
	}
}

// conflict handles a fresh edge that invalidates an existing decision. The
// most recent implicated choice is the edge's contributor (the top of the
// decision stack); it is undone and its version banned while q keeps its
// current one.
func (sc *solveContext) conflict(q domain.PackageName, e domain.RequirementEdge) {
	qd := sc.decided[q]
	cause := []domain.RequirementEdge{e}
	if first := sc.firstEdge(q); first != nil {
		cause = append(cause, *first)
	}

	if e.IsRoot() || sc.decided[e.From] == nil {
		// No decision to undo on the contributing side: q itself
		// must move.
		sc.popFrom(sc.decisionIndex(q))
		sc.banVersion(q, qd.candidate.Version.String(), nil, q, cause)
		sc.attempts[q]++
		return
	}

	from := e.From
	fd := sc.decided[from]
	sc.popFrom(sc.decisionIndex(from))
	sc.banVersion(from, fd.candidate.Version.String(), map[domain.PackageName]string{
		q: qd.candidate.Version.String(),
	}, q, cause)
	sc.attempts[from]++
}

// backtrackFrom undoes the decision for `from` because its edge clashes with
// an immovable pin on `pinnedPkg`.
func (sc *solveContext) backtrackFrom(from domain.PackageName, fd *decision, pinnedPkg domain.PackageName, cause []domain.RequirementEdge) error {
	if sc.attempts[from] >= sc.opts.MaxAttempts {
		return sc.unsatisfiable(pinnedPkg, cause)
	}
	sc.popFrom(sc.decisionIndex(from))
	sc.banVersion(from, fd.candidate.Version.String(), nil, pinnedPkg, cause)
	sc.attempts[from]++
	return nil
}

// exhausted handles a package with no viable candidate left. If a decided
// contributor is implicated, it is undone and its version banned; otherwise
// the solve fails with the minimal conflicting chain.
func (sc *solveContext) exhausted(name domain.PackageName, versions []domain.Version, edges []domain.RequirementEdge) error {
	if sc.attempts[name] >= sc.opts.MaxAttempts {
		return sc.unsatisfiable(name, sc.clashingEdges(name, versions, edges))
	}
	sc.attempts[name]++

	// Most recent decided contributor of any constraining edge, or any
	// guard of a ban that rejected an otherwise feasible version.
	implicated := -1
	for _, e := range edges {
		if e.IsRoot() {
			continue
		}
		if idx := sc.decisionIndex(e.From); idx > implicated {
			implicated = idx
		}
	}
	for _, b := range sc.bans[name] {
		for guard := range b.guards {
			if idx := sc.decisionIndex(guard); idx > implicated {
				implicated = idx
			}
		}
	}

	if implicated >= 0 {
		d := sc.decisions[implicated]
		cause := sc.clashingEdges(name, versions, edges)

		// The implicated version is only known bad in combination with
		// the earlier contributors that stay on the stack. Guarding the
		// ban on them keeps solvable assignments reachable; the ban
		// becomes permanent only when the clash involves roots alone.
		guards := make(map[domain.PackageName]string)
		for _, e := range edges {
			if e.IsRoot() || e.From == d.name {
				continue
			}
			if idx := sc.decisionIndex(e.From); idx >= 0 && idx < implicated {
				guards[e.From] = sc.decisions[idx].candidate.Version.String()
			}
		}
		for _, b := range sc.bans[name] {
			for guard := range b.guards {
				if guard == d.name {
					continue
				}
				if idx := sc.decisionIndex(guard); idx >= 0 && idx < implicated {
					guards[guard] = sc.decisions[idx].candidate.Version.String()
				}
			}
		}
		if len(guards) == 0 {
			guards = nil
		}

		sc.popFrom(implicated)
		sc.banVersion(d.name, d.candidate.Version.String(), guards, name, cause)
		sc.attempts[d.name]++
		return nil
	}

	// Only root constraints remain. If feasible versions existed but were
	// banned, the recorded ban cause explains the true clash.
	if cause := sc.latestBanCause(name, versions, edges); cause != nil {
		return sc.unsatisfiable(cause.causePkg, cause.cause)
	}
	return sc.unsatisfiable(name, sc.clashingEdges(name, versions, edges))
}

// clashingEdges reduces the constraining edges to an irreducible clashing
// subset: no common satisfying version remains, and dropping any single edge
// from the subset would admit one.
func (sc *solveContext) clashingEdges(name domain.PackageName, versions []domain.Version, edges []domain.RequirementEdge) []domain.RequirementEdge {
	if len(edges) == 0 {
		return nil
	}
	accepts := func(e domain.RequirementEdge, v domain.Version) bool {
		return e.Requirement.Specifier.IsEmpty() || e.Requirement.Specifier.Contains(v)
	}
	anyAccepted := func(es []domain.RequirementEdge) bool {
		for _, v := range versions {
			ok := true
			for _, e := range es {
				if !accepts(e, v) {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
		return false
	}

	if anyAccepted(edges) {
		// Not a specifier clash (bans or policy rejected the common
		// versions); the full set is the best explanation available.
		return edges
	}

	subset := slices.Clone(edges)
	for i := 0; i < len(subset) && len(subset) > 1; {
		trial := append(slices.Clone(subset[:i]), subset[i+1:]...)
		if !anyAccepted(trial) {
			subset = trial
		} else {
			i++
		}
	}
	return subset
}

// latestBanCause returns the cause of the most recent ban that rejected a
// version all current edges would have accepted, if any.
func (sc *solveContext) latestBanCause(name domain.PackageName, versions []domain.Version, edges []domain.RequirementEdge) *ban {
	bans := sc.bans[name]
	for i := len(bans) - 1; i >= 0; i-- {
		b := bans[i]
		for _, v := range versions {
			if v.String() != b.version {
				continue
			}
			ok := true
			for _, e := range edges {
				if !e.Requirement.Specifier.IsEmpty() && !e.Requirement.Specifier.Contains(v) {
					ok = false
					break
				}
			}
			if ok && len(b.cause) > 0 {
				return b
			}
		}
	}
	return nil
}

// unsatisfiable builds the terminal conflict error, expanding each clashing
// edge into its provenance path back to a root group.
func (sc *solveContext) unsatisfiable(name domain.PackageName, edges []domain.RequirementEdge) error {
	u := &Unsatisfiable{Package: name}
	for _, e := range edges {
		u.Paths = append(u.Paths, sc.pathToRoot(e))
	}
	sc.solver.logger.Error(u)
	return u
}

// pathToRoot expands one edge into the chain of edges linking it to a root
// group, innermost first.
func (sc *solveContext) pathToRoot(e domain.RequirementEdge) []domain.RequirementEdge {
	path := []domain.RequirementEdge{e}
	seen := map[domain.PackageName]bool{}
	for !e.IsRoot() {
		if seen[e.From] {
			break
		}
		seen[e.From] = true
		first := sc.firstEdge(e.From)
		if first == nil {
			break
		}
		e = *first
		path = append(path, e)
	}
	return path
}

// firstEdge returns the earliest recorded constraint edge for a package.
func (sc *solveContext) firstEdge(name domain.PackageName) *domain.RequirementEdge {
	edges := sc.constraints[name]
	if len(edges) == 0 {
		return nil
	}
	return &edges[0]
}

// decisionIndex returns the stack index of a package's decision, or -1.
func (sc *solveContext) decisionIndex(name domain.PackageName) int {
	for i, d := range sc.decisions {
		if d.name == name {
			return i
		}
	}
	return -1
}

// popFrom undoes every decision at stack index i and later, removing the
// edges and extras those decisions contributed.
func (sc *solveContext) popFrom(i int) {
	if i < 0 {
		return
	}
	popped := sc.decisions[i:]
	sc.decisions = sc.decisions[:i]
	removed := make(map[domain.PackageName]bool, len(popped))
	for _, d := range popped {
		delete(sc.decided, d.name)
		removed[d.name] = true
	}

	for name, edges := range sc.constraints {
		kept := edges[:0]
		for _, e := range edges {
			if !e.IsRoot() && removed[e.From] {
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(sc.constraints, name)
			delete(sc.extras, name)
			continue
		}
		sc.constraints[name] = kept
	}

	// Recompute active extras from the surviving edges.
	for name := range sc.extras {
		var active []string
		for _, e := range sc.constraints[name] {
			for _, x := range e.Requirement.Extras {
				active = mergeSorted(active, x)
			}
		}
		sc.extras[name] = active
	}
}

// banVersion records a rejected version with its clash cause.
func (sc *solveContext) banVersion(name domain.PackageName, version string, guards map[domain.PackageName]string, causePkg domain.PackageName, cause []domain.RequirementEdge) {
	sc.bans[name] = append(sc.bans[name], &ban{
		version:  version,
		guards:   guards,
		causePkg: causePkg,
		cause:    cause,
	})
	sc.solver.logger.Debug("banned candidate", "package", name.String(), "version", version)
}

// activeBan returns the ban rejecting a version, if one currently applies.
func (sc *solveContext) activeBan(name domain.PackageName, v domain.Version) *ban {
	rendered := v.String()
	for _, b := range sc.bans[name] {
		if b.version != rendered {
			continue
		}
		active := true
		for guard, guardVersion := range b.guards {
			d, ok := sc.decided[guard]
			if !ok || d.candidate.Version.String() != guardVersion {
				active = false
				break
			}
		}
		if active {
			return b
		}
	}
	return nil
}

// buildResolution assembles the immutable result: chosen candidates, their
// provenance edges, active extras and per-group reachability.
func (sc *solveContext) buildResolution() *domain.Resolution {
	packages := make(map[domain.PackageName]*domain.ResolvedPackage, len(sc.decided))
	for name, d := range sc.decided {
		packages[name] = &domain.ResolvedPackage{
			Candidate: *d.candidate,
			Via:       slices.Clone(sc.constraints[name]),
			Extras:    slices.Clone(sc.extras[name]),
		}
	}

	groupNames := make([]string, 0, len(sc.rootGroups))
	for g := range sc.rootGroups {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)

	for _, g := range groupNames {
		var queue []domain.PackageName
		for _, req := range sc.rootGroups[g] {
			queue = append(queue, req.Name)
		}
		seen := map[domain.PackageName]bool{}
		for len(queue) > 0 {
			name := queue[0]
			queue = queue[1:]
			if seen[name] {
				continue
			}
			seen[name] = true
			entry, ok := packages[name]
			if !ok {
				continue
			}
			entry.Groups = mergeSorted(entry.Groups, g)
			parentEnv := sc.env.WithExtras(entry.Extras)
			for _, dep := range entry.Candidate.DependenciesFor(entry.Extras) {
				if dep.Marker.Eval(parentEnv) {
					queue = append(queue, dep.Name)
				}
			}
		}
	}

	return domain.NewResolution(packages)
}

func mergeSorted(set []string, value string) []string {
	i, found := slices.BinarySearch(set, value)
	if found {
		return set
	}
	return slices.Insert(set, i, value)
}
