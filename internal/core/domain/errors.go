package domain

import "go.trai.ch/zerr"

var (
	// ErrParse is returned for malformed requirement, version or marker
	// syntax. The offending text is attached as metadata.
	ErrParse = zerr.New("parse error")

	// ErrUnsatisfiable is returned when no consistent version assignment
	// exists. It carries the minimal conflicting requirement chain.
	ErrUnsatisfiable = zerr.New("unsatisfiable requirements")

	// ErrCycle is returned when workspace members depend on each other in
	// a cycle.
	ErrCycle = zerr.New("workspace dependency cycle")

	// ErrNotFound is returned by a catalog when a package or version does
	// not exist.
	ErrNotFound = zerr.New("package not found")

	// ErrNetwork is returned by a catalog when the index cannot be
	// reached after retries.
	ErrNetwork = zerr.New("network error")

	// ErrFormat is returned when a lockfile cannot be decoded.
	ErrFormat = zerr.New("malformed lockfile")

	// ErrUnsupportedFormat is returned when a lockfile declares a format
	// version newer than this build understands. Decoding fails closed.
	ErrUnsupportedFormat = zerr.New("unsupported lockfile format")

	// ErrStaleLock signals that the lockfile no longer matches the
	// current requirements or catalog. Callers decide whether to
	// re-resolve.
	ErrStaleLock = zerr.New("lockfile is stale")

	// ErrDuplicateMember is returned when two workspace members declare
	// the same normalized name.
	ErrDuplicateMember = zerr.New("duplicate workspace member")

	// ErrMemberNotFound is returned when a named workspace member does
	// not exist.
	ErrMemberNotFound = zerr.New("workspace member not found")
)
