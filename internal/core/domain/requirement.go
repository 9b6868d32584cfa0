package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Requirement is one named constraint a dependency must satisfy: a version
// range, an optional extras set, an optional environment marker and a source
// locator. Requirements are created fresh for each resolve pass and never
// outlive it.
type Requirement struct {
	Name      PackageName
	Extras    []string // sorted, lowercase
	Specifier Specifier
	Marker    Marker
	Source    Source
}

// ParseRequirement parses one requirement string, e.g.
//
//	"pkga>=1.0,<2.0"
//	"server[tls,redis]~=2.1; sys_platform != 'win32'"
//	"tool @ git+https://example.org/tool.git@v3#subdir=core"
//	"local @ file:///srv/vendored/local"
//
// Malformed input returns ErrParse identifying the offending text.
func ParseRequirement(s string) (Requirement, error) {
	var req Requirement
	text := strings.TrimSpace(s)
	if text == "" {
		return req, zerr.With(zerr.Wrap(ErrParse, "invalid requirement"), "requirement", s)
	}

	// Marker after ';'.
	if i := strings.IndexByte(text, ';'); i >= 0 {
		marker, err := ParseMarker(text[i+1:])
		if err != nil {
			return req, zerr.With(err, "requirement", s)
		}
		req.Marker = marker
		text = strings.TrimSpace(text[:i])
	}

	// Direct reference after '@'.
	var directRef string
	if i := strings.Index(text, "@"); i >= 0 {
		directRef = strings.TrimSpace(text[i+1:])
		text = strings.TrimSpace(text[:i])
		if directRef == "" {
			return req, zerr.With(zerr.Wrap(ErrParse, "invalid requirement"), "requirement", s)
		}
	}

	// Name and optional extras.
	nameEnd := len(text)
	for j, c := range text {
		if !isIdentByte(byte(c)) && c != '-' {
			nameEnd = j
			break
		}
	}
	name := text[:nameEnd]
	if name == "" {
		return req, zerr.With(zerr.Wrap(ErrParse, "invalid requirement"), "requirement", s)
	}
	req.Name = NewPackageName(name)
	rest := strings.TrimSpace(text[nameEnd:])

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return req, zerr.With(zerr.Wrap(ErrParse, "invalid requirement"), "requirement", s)
		}
		for extra := range strings.SplitSeq(rest[1:end], ",") {
			extra = strings.ToLower(strings.TrimSpace(extra))
			if extra == "" {
				return req, zerr.With(zerr.Wrap(ErrParse, "invalid requirement"), "requirement", s)
			}
			req.Extras = append(req.Extras, extra)
		}
		slices.Sort(req.Extras)
		req.Extras = slices.Compact(req.Extras)
		rest = strings.TrimSpace(rest[end+1:])
	}

	if directRef != "" {
		if rest != "" {
			// A direct reference carries its own pin; a version
			// range on top is rejected rather than ignored.
			return req, zerr.With(zerr.Wrap(ErrParse, "invalid requirement"), "requirement", s)
		}
		req.Source = parseDirectReference(directRef)
		return req, nil
	}

	spec, err := ParseSpecifier(rest)
	if err != nil {
		return req, zerr.With(err, "requirement", s)
	}
	req.Specifier = spec
	return req, nil
}

// MustParseRequirement is ParseRequirement that panics on error. Test helper.
func MustParseRequirement(s string) Requirement {
	r, err := ParseRequirement(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String renders the requirement canonically: normalized name, sorted
// extras, specifier clauses in declaration order, then source and marker.
// Canonical strings feed the root fingerprint, so the rendering must be
// stable.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name.String())
	if len(r.Extras) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteByte(']')
	}
	if !r.Specifier.IsEmpty() {
		b.WriteString(r.Specifier.String())
	}
	if r.Source.IsPinned() {
		b.WriteString(" @ ")
		b.WriteString(r.Source.Kind.String())
		b.WriteByte('+')
		b.WriteString(r.Source.Locator())
	}
	if !r.Marker.IsAlways() {
		b.WriteString("; ")
		b.WriteString(r.Marker.String())
	}
	return b.String()
}
