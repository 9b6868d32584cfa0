package domain

import "strings"

// SourceKind enumerates where a requirement's candidates come from. It is a
// closed set: every consumer (catalog dispatch, lock encoding) switches over
// it exhaustively.
type SourceKind int

const (
	// SourceRegistry resolves against the package index.
	SourceRegistry SourceKind = iota
	// SourceGit pins to a commit of a git repository.
	SourceGit
	// SourceURL pins to the content behind a URL.
	SourceURL
	// SourcePath pins to a local directory, including sibling workspace
	// members.
	SourcePath
)

// String returns the stable identifier for the kind, used in lockfiles and
// for sort order among entries of the same name.
func (k SourceKind) String() string {
	switch k {
	case SourceRegistry:
		return "registry"
	case SourceGit:
		return "git"
	case SourceURL:
		return "url"
	case SourcePath:
		return "path"
	default:
		return "unknown"
	}
}

// ParseSourceKind is the inverse of SourceKind.String.
func ParseSourceKind(s string) (SourceKind, bool) {
	switch s {
	case "registry":
		return SourceRegistry, true
	case "git":
		return SourceGit, true
	case "url":
		return SourceURL, true
	case "path":
		return SourcePath, true
	default:
		return SourceRegistry, false
	}
}

// Source is the tagged locator variant for a requirement.
// Only the fields for the active Kind are meaningful.
type Source struct {
	Kind SourceKind

	// URL is the repository or artifact URL for git and url sources.
	URL string
	// Ref is the requested git ref (branch, tag or commit). May be empty
	// for the remote default branch.
	Ref string
	// Subdir is an optional subdirectory within a git source.
	Subdir string
	// Path is the local directory for path sources. Workspace sibling
	// references are rewritten to path sources by the workspace graph.
	Path string
}

// IsRegistry reports whether candidates are searched on the index. All other
// kinds pin to exactly one candidate.
func (s Source) IsRegistry() bool {
	return s.Kind == SourceRegistry
}

// IsPinned reports whether the source fixes the candidate up front, skipping
// version search.
func (s Source) IsPinned() bool {
	return s.Kind != SourceRegistry
}

// Locator returns the kind-specific location string used in lockfiles and
// error messages.
func (s Source) Locator() string {
	switch s.Kind {
	case SourceRegistry:
		return ""
	case SourceGit:
		loc := s.URL
		if s.Ref != "" {
			loc += "@" + s.Ref
		}
		if s.Subdir != "" {
			loc += "#subdir=" + s.Subdir
		}
		return loc
	case SourceURL:
		return s.URL
	case SourcePath:
		return s.Path
	default:
		return ""
	}
}

// parseDirectReference interprets the target of a "name @ <ref>" requirement.
func parseDirectReference(ref string) Source {
	switch {
	case strings.HasPrefix(ref, "git+"):
		src := Source{Kind: SourceGit, URL: strings.TrimPrefix(ref, "git+")}
		if i := strings.Index(src.URL, "#subdir="); i >= 0 {
			src.Subdir = src.URL[i+len("#subdir="):]
			src.URL = src.URL[:i]
		}
		// A trailing @ref names the revision. The ref '@' sits after the
		// last path separator, which keeps user@host forms intact.
		if i := strings.LastIndexByte(src.URL, '@'); i > strings.LastIndexByte(src.URL, '/') {
			src.Ref = src.URL[i+1:]
			src.URL = src.URL[:i]
		}
		return src
	case strings.HasPrefix(ref, "file://"):
		return Source{Kind: SourcePath, Path: strings.TrimPrefix(ref, "file://")}
	default:
		return Source{Kind: SourceURL, URL: ref}
	}
}
