// Package recipe contains the pure logic for reading declaration text:
// version parsing/ordering and the field scanner that snapshots a
// declaration's specs. Nothing in this package performs I/O.
package recipe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoneVersion is the sentinel meaning "remove the version override".
const NoneVersion = "0"

// Version is an ordered, comparable version value parsed from declaration
// text or from a source URL.
type Version struct {
	raw    string
	tokens []token
}

type token struct {
	num     int
	alpha   string
	numeric bool
}

// ParseVersion parses a dotted version string into a comparable value.
// An empty string is rejected; everything else parses (unrecognized text
// compares lexically segment by segment).
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}
	return Version{raw: s, tokens: tokenize(s)}, nil
}

// MustVersion is ParseVersion for known-good literals in tests and tables.
func MustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the original version text.
func (v Version) String() string { return v.raw }

// IsZero reports whether the version is the unparsed zero value.
func (v Version) IsZero() bool { return v.raw == "" }

// IsNone reports whether the version is the remove-override sentinel.
func (v Version) IsNone() bool { return v.raw == NoneVersion }

// Compare returns -1, 0 or 1 as v is ordered before, equal to, or after o.
// Numeric segments compare numerically and a version with fewer numeric
// segments acts as if padded with zeros (1.2 == 1.2.0). Trailing text
// segments split two ways: pre-release markers (alpha, beta, rc, pre, dev)
// sort below the bare version (1.2.3-rc1 < 1.2.3) while any other letter
// suffix sorts above it (1.2.3a > 1.2.3).
func (v Version) Compare(o Version) int {
	a, b := v.tokens, o.tokens
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		at, aok := tokenAt(a, i)
		bt, bok := tokenAt(b, i)
		switch {
		case aok && bok:
			if c := at.compare(bt); c != 0 {
				return c
			}
		case aok:
			if c := at.compareAbsent(); c != 0 {
				return c
			}
		case bok:
			if c := bt.compareAbsent(); c != 0 {
				return -c
			}
		}
	}
	return 0
}

func (t token) compare(o token) int {
	switch {
	case t.numeric && o.numeric:
		switch {
		case t.num < o.num:
			return -1
		case t.num > o.num:
			return 1
		}
		return 0
	case t.numeric:
		return 1
	case o.numeric:
		return -1
	case t.prerelease() != o.prerelease():
		if t.prerelease() {
			return -1
		}
		return 1
	default:
		return strings.Compare(t.alpha, o.alpha)
	}
}

// compareAbsent orders a trailing token against a shorter version with no
// token at this position.
func (t token) compareAbsent() int {
	switch {
	case t.numeric && t.num == 0:
		return 0
	case t.numeric && t.num > 0:
		return 1
	case t.prerelease():
		return -1
	default:
		return 1
	}
}

func (t token) prerelease() bool {
	switch t.alpha {
	case "alpha", "beta", "rc", "pre", "dev":
		return true
	}
	return false
}

func tokenAt(ts []token, i int) (token, bool) {
	if i < len(ts) {
		return ts[i], true
	}
	return token{}, false
}

func tokenize(s string) []token {
	var out []token
	for _, seg := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	}) {
		// Split mixed segments like "3a" or "rc1" into runs.
		run := ""
		runNumeric := false
		flush := func() {
			if run == "" {
				return
			}
			if runNumeric {
				n, _ := strconv.Atoi(run)
				out = append(out, token{num: n, numeric: true})
			} else {
				out = append(out, token{alpha: strings.ToLower(run)})
			}
			run = ""
		}
		for _, r := range seg {
			isDigit := r >= '0' && r <= '9'
			if run != "" && isDigit != runNumeric {
				flush()
			}
			runNumeric = isDigit
			run += string(r)
		}
		flush()
	}
	return out
}

// Truncate returns the version reduced to its first n numeric segments,
// e.g. Truncate(1) of "3.5.2" is "3" and Truncate(2) is "3.5". When the
// version has fewer numeric segments than requested, all of them are kept.
func (v Version) Truncate(n int) string {
	var segs []string
	for _, t := range v.tokens {
		if !t.numeric || len(segs) == n {
			break
		}
		segs = append(segs, strconv.Itoa(t.num))
	}
	return strings.Join(segs, ".")
}

// NumericSegments returns how many leading numeric segments the version has.
func (v Version) NumericSegments() int {
	n := 0
	for _, t := range v.tokens {
		if !t.numeric {
			break
		}
		n++
	}
	return n
}

var (
	// versionish matches a dotted version, optionally v-prefixed, with an
	// optional trailing pre-release marker (beta1, rc2, ...).
	urlVersionRe = regexp.MustCompile(`v?(\d+(?:\.\d+)+(?:[-._][A-Za-z]+\d*)*)`)
	// bareNumberRe is the last-resort single-number match.
	bareNumberRe = regexp.MustCompile(`(\d+)`)

	archiveExtensions = []string{
		".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".tbz2", ".txz",
		".zip", ".gz", ".bz2", ".xz", ".git",
	}
)

// VersionFromURL derives a version from a source URL or VCS tag by
// scanning the trailing path segment after stripping archive extensions.
// Returns the zero Version when nothing version-shaped is present.
func VersionFromURL(url string) Version {
	base := url
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	for stripped := true; stripped; {
		stripped = false
		for _, ext := range archiveExtensions {
			if strings.HasSuffix(base, ext) {
				base = strings.TrimSuffix(base, ext)
				stripped = true
			}
		}
	}
	if m := urlVersionRe.FindStringSubmatch(base); m != nil {
		v, _ := ParseVersion(m[1])
		return v
	}
	if m := bareNumberRe.FindStringSubmatch(base); m != nil {
		v, _ := ParseVersion(m[1])
		return v
	}
	return Version{}
}
