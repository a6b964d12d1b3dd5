package recipe

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/recipebump/internal/models"
)

func compile(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }

// lineRe anchors a field expression to a full (possibly indented) line.
func lineRe(body string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + body + `[ \t]*$`)
}

// Declaration grammar subset recognized by the scanner. A declaration is a
// `recipe "<name>" do ... end` block whose body carries one field per line:
//
//	url "https://host/pkg-1.2.3.tar.gz"
//	url "https://host/pkg.git", tag: "v1.2.3", revision: "<sha>"
//	mirror "https://mirror/pkg-1.2.3.tar.gz"
//	sha256 "<hex>"
//	version "1.2.3"
//	revision 2
//
// plus an optional nested `devel do ... end` block with its own url/sha256/
// version fields. The scanner is deliberately line-oriented: the mutation
// engine rewrites this text with ordered pattern rules, not an AST.
var (
	headerRe       = lineRe(`recipe[ \t]+"([^"]+)"[ \t]+do`)
	urlRe          = lineRe(`url[ \t]+"([^"]+)"(.*)`)
	mirrorRe       = lineRe(`mirror[ \t]+"([^"]+)"`)
	sha256Re       = lineRe(`sha256[ \t]+"([0-9a-fA-F]+)"`)
	versionLineRe  = lineRe(`version[ \t]+"([^"]+)"`)
	revisionNumRe  = lineRe(`revision[ \t]+(\d+)[ \t]*`)
	tagOptRe       = compile(`tag:[ \t]*"([^"]+)"`)
	revisionOptRe  = compile(`revision:[ \t]*"([^"]+)"`)
	develOpenerRe  = compile(`(?m)^([ \t]+)devel do[ \t]*$`)
	develBlockFmtA = `(?ms)^%sdevel do[ \t]*\n(.*?\n)%send[ \t]*$`
)

// ParseDeclaration scans declaration text into a field snapshot. The path's
// base name (minus extension) is the fallback declaration name when the
// header is absent.
func ParseDeclaration(path, text string) (*models.Declaration, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := headerRe.FindStringSubmatch(text); m != nil {
		name = m[1]
	}

	stableText, develText := SplitDevel(text)

	decl := &models.Declaration{Name: name, Path: path}

	stable, err := parseSpec(models.SpecStable, stableText)
	if err != nil {
		return nil, fmt.Errorf("stable spec: %w", err)
	}
	decl.Stable = stable

	if develText != "" {
		devel, err := parseSpec(models.SpecDevel, develText)
		if err != nil {
			return nil, fmt.Errorf("devel spec: %w", err)
		}
		decl.Devel = devel
	}

	if decl.Stable == nil && decl.Devel == nil {
		return nil, fmt.Errorf("declaration %s has no url field", name)
	}
	return decl, nil
}

// SplitDevel separates declaration text into the stable region (full text
// with any devel block blanked out) and the devel block body. The devel
// body is empty when no block exists.
func SplitDevel(text string) (stable, devel string) {
	m := develOpenerRe.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	indent := m[1]
	blockRe := compile(fmt.Sprintf(develBlockFmtA, indent, indent))
	loc := blockRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, ""
	}
	devel = text[loc[2]:loc[3]]
	stable = text[:loc[0]] + text[loc[1]:]
	return stable, devel
}

func parseSpec(kind models.SpecKind, text string) (*models.Spec, error) {
	um := urlRe.FindStringSubmatch(text)
	if um == nil {
		if kind == models.SpecDevel {
			return nil, fmt.Errorf("devel block has no url field")
		}
		return nil, nil
	}

	spec := &models.Spec{Kind: kind, URL: um[1]}
	rest := um[2]
	if m := tagOptRe.FindStringSubmatch(rest); m != nil {
		spec.Tag = m[1]
	}
	if m := revisionOptRe.FindStringSubmatch(rest); m != nil {
		spec.Revision = m[1]
	}
	if m := sha256Re.FindStringSubmatch(text); m != nil {
		spec.Sha256 = strings.ToLower(m[1])
	}
	for _, m := range mirrorRe.FindAllStringSubmatch(text, -1) {
		spec.Mirrors = append(spec.Mirrors, m[1])
	}
	if m := versionLineRe.FindStringSubmatch(text); m != nil {
		spec.VersionOverride = m[1]
	}
	if m := revisionNumRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("revision counter %q: %w", m[1], err)
		}
		spec.PackageRevision = n
	}

	if spec.Tag != "" && spec.Sha256 != "" {
		return nil, fmt.Errorf("spec declares both a tag and a sha256")
	}

	v := specVersion(spec)
	if v.IsZero() {
		return nil, fmt.Errorf("cannot derive a version for %s spec", kind)
	}
	spec.Version = v.String()
	return spec, nil
}

func specVersion(spec *models.Spec) Version {
	if spec.VersionOverride != "" {
		v, err := ParseVersion(spec.VersionOverride)
		if err == nil {
			return v
		}
	}
	if spec.Tag != "" {
		return VersionFromURL(spec.Tag)
	}
	return VersionFromURL(spec.URL)
}

// DeriveVersion re-derives the semantic version of the given spec kind
// from declaration text. The safety check runs this over the patched text
// with exactly the parsing logic used pre-patch.
func DeriveVersion(text string, kind models.SpecKind) (Version, error) {
	stableText, develText := SplitDevel(text)
	region := stableText
	if kind == models.SpecDevel {
		if develText == "" {
			return Version{}, fmt.Errorf("no devel block in declaration text")
		}
		region = develText
	}
	spec, err := parseSpec(kind, region)
	if err != nil {
		return Version{}, err
	}
	if spec == nil {
		return Version{}, fmt.Errorf("no %s spec in declaration text", kind)
	}
	return ParseVersion(spec.Version)
}
