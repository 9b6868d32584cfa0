package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// preLabels maps the accepted pre-release spellings to their canonical form.
var preLabels = map[string]string{
	"a":       "a",
	"alpha":   "a",
	"b":       "b",
	"beta":    "b",
	"c":       "rc",
	"rc":      "rc",
	"pre":     "rc",
	"preview": "rc",
}

// preRank orders the canonical pre-release labels.
var preRank = map[string]int{"a": 0, "b": 1, "rc": 2}

// Version is a totally ordered package version: an optional epoch, dotted
// numeric release segments and optional pre/post/dev qualifiers.
//
// Ordering follows the usual packaging rules: within one release number,
// dev releases sort first, then pre-releases (a < b < rc), then the final
// release, then post releases. Comparison is total and transitive.
type Version struct {
	Epoch   int
	Release []int

	// PreLabel is "" when the version has no pre-release qualifier,
	// otherwise one of "a", "b", "rc".
	PreLabel string
	PreN     int

	// Post is -1 when absent.
	Post int
	// Dev is -1 when absent.
	Dev int
}

// ParseVersion parses a version string such as "1.2.3", "2!1.0rc1" or
// "1.0.post2.dev3". It returns ErrParse for malformed input.
func ParseVersion(s string) (Version, error) {
	v := Version{Post: -1, Dev: -1}
	rest := strings.ToLower(strings.TrimSpace(s))
	rest = strings.TrimPrefix(rest, "v")
	if rest == "" {
		return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
	}

	if i := strings.IndexByte(rest, '!'); i >= 0 {
		epoch, err := strconv.Atoi(rest[:i])
		if err != nil || epoch < 0 {
			return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
		}
		v.Epoch = epoch
		rest = rest[i+1:]
	}

	// Release segments: leading digits split by dots.
	seg := 0
	hasDigit := false
	for seg < len(rest) {
		c := rest[seg]
		if c >= '0' && c <= '9' {
			hasDigit = true
			seg++
			continue
		}
		if c == '.' && hasDigit && seg+1 < len(rest) && rest[seg+1] >= '0' && rest[seg+1] <= '9' {
			seg++
			continue
		}
		break
	}
	if !hasDigit {
		return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
	}
	for part := range strings.SplitSeq(rest[:seg], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
		}
		v.Release = append(v.Release, n)
	}
	rest = rest[seg:]

	// Qualifiers: [.-_]?(pre|post|dev) separated freely.
	for rest != "" {
		rest = strings.TrimLeft(rest, ".-_")
		label, n, tail, ok := splitQualifier(rest)
		if !ok {
			return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
		}
		switch label {
		case "post", "rev", "r":
			if v.Post >= 0 {
				return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
			}
			v.Post = n
		case "dev":
			if v.Dev >= 0 {
				return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
			}
			v.Dev = n
		default:
			canonical, known := preLabels[label]
			if !known || v.PreLabel != "" {
				return v, zerr.With(zerr.Wrap(ErrParse, "invalid version"), "version", s)
			}
			v.PreLabel = canonical
			v.PreN = n
		}
		rest = tail
	}

	return v, nil
}

// MustParseVersion is ParseVersion that panics on error. Test helper.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// splitQualifier consumes one alphabetic label plus an optional number from
// the front of s.
func splitQualifier(s string) (label string, n int, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}
	if i == 0 {
		return "", 0, "", false
	}
	label = s[:i]
	s = s[i:]
	s = strings.TrimLeft(s, ".-_")
	j := 0
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j > 0 {
		parsed, err := strconv.Atoi(s[:j])
		if err != nil {
			return "", 0, "", false
		}
		n = parsed
	}
	return label, n, s[j:], true
}

// IsPrerelease reports whether the version carries a pre-release or dev
// qualifier. Such versions are skipped by the solver unless explicitly
// allowed.
func (v Version) IsPrerelease() bool {
	return v.PreLabel != "" || v.Dev >= 0
}

// Compare returns a negative value if v sorts before o, zero if they are
// equal and a positive value otherwise.
func (v Version) Compare(o Version) int {
	if c := v.Epoch - o.Epoch; c != 0 {
		return c
	}
	if c := compareRelease(v.Release, o.Release); c != 0 {
		return c
	}
	if c := slices.Compare(v.preKey(), o.preKey()); c != 0 {
		return c
	}
	if c := slices.Compare(v.postKey(), o.postKey()); c != 0 {
		return c
	}
	return slices.Compare(v.devKey(), o.devKey())
}

// Equal reports version equality under Compare semantics.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// compareRelease compares dotted release segments, padding the shorter side
// with zeros so 1.0 == 1.0.0.
func compareRelease(a, b []int) int {
	n := max(len(a), len(b))
	for i := range n {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

func (v Version) preKey() []int {
	if v.PreLabel != "" {
		return []int{0, preRank[v.PreLabel], v.PreN}
	}
	if v.Dev >= 0 && v.Post < 0 {
		// A bare dev release sorts before every pre-release of the
		// same release number.
		return []int{-1}
	}
	return []int{1}
}

func (v Version) postKey() []int {
	if v.Post < 0 {
		return []int{0}
	}
	return []int{1, v.Post}
}

func (v Version) devKey() []int {
	if v.Dev < 0 {
		return []int{1}
	}
	return []int{0, v.Dev}
}

// String renders the canonical form of the version.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch > 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	for i, seg := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(seg))
	}
	if v.PreLabel != "" {
		fmt.Fprintf(&b, "%s%d", v.PreLabel, v.PreN)
	}
	if v.Post >= 0 {
		fmt.Fprintf(&b, ".post%d", v.Post)
	}
	if v.Dev >= 0 {
		fmt.Fprintf(&b, ".dev%d", v.Dev)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// TruncatedRelease returns a copy of the release segments with the last one
// dropped. Used for compatible-release (~=) matching.
func (v Version) TruncatedRelease() []int {
	if len(v.Release) <= 1 {
		return v.Release
	}
	return v.Release[:len(v.Release)-1]
}
