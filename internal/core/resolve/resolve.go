// Package resolve decides which fields of a declaration must change for a
// requested bump and validates that the requested update mode matches the
// declaration's existing source style. The two styles (URL+hash and
// tag+revision) are mutually exclusive and never convertible.
package resolve

import (
	"context"
	"strings"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/models"
)

// Fetcher resolves a download URL to a verified content hash. Implemented
// by the fetch adapter; faked in tests.
type Fetcher interface {
	// FetchHash downloads the resource and returns its sha256 digest.
	// Archive-like URLs are additionally checked for well-formedness:
	// an archive with no internal entries is a fetch error, not a hash.
	FetchHash(ctx context.Context, url string) (string, error)
}

// Request carries the caller-supplied overrides for one bump.
type Request struct {
	URL      string
	Sha256   string
	Tag      string
	Revision string
	Mirror   string
}

// Decision is the resolver's immutable outcome: the authoritative new field
// values for the rest of the pipeline.
type Decision struct {
	Style models.SourceStyle

	// url-hash style
	URL    string
	Sha256 string
	Mirror string

	// tag-revision style
	Tag      string
	Revision string
}

// Resolve determines the new field values for bumping spec with the given
// request. URL-style specs without an explicit hash trigger a fetch to
// compute one.
func Resolve(ctx context.Context, spec *models.Spec, req Request, fetcher Fetcher) (Decision, error) {
	switch spec.Style() {
	case models.StyleTagRevision:
		if req.URL != "" || req.Sha256 != "" {
			return Decision{}, bumperr.New(bumperr.KindUsage,
				"declaration uses a tag and revision; a URL or sha256 cannot be specified")
		}
		if req.Tag == "" || req.Revision == "" {
			return Decision{}, bumperr.New(bumperr.KindUsage,
				"declaration uses a tag and revision; both --tag and --revision must be specified")
		}
		return Decision{Style: models.StyleTagRevision, Tag: req.Tag, Revision: req.Revision}, nil

	default:
		if req.Tag != "" || req.Revision != "" {
			return Decision{}, bumperr.New(bumperr.KindUsage,
				"declaration uses a URL and sha256; a tag or revision cannot be specified")
		}
		if req.URL == "" {
			return Decision{}, bumperr.New(bumperr.KindUsage,
				"declaration uses a URL and sha256; --url must be specified")
		}

		d := Decision{Style: models.StyleURLHash, URL: req.URL, Sha256: strings.ToLower(req.Sha256)}
		if d.Sha256 == "" {
			digest, err := fetcher.FetchHash(ctx, req.URL)
			if err != nil {
				return Decision{}, bumperr.Wrap(bumperr.KindResolution, "failed to resolve new source", err)
			}
			d.Sha256 = strings.ToLower(digest)
		}

		d.Mirror = req.Mirror
		if d.Mirror == "" && spec.Kind != models.SpecDevel {
			d.Mirror = AutoMirror(req.URL)
		}
		return d, nil
	}
}

// Well-known mirror hosts. A bump of a URL under one of these prefixes
// auto-derives a mirror by substitution when no explicit mirror was given.
var mirrorHosts = []struct {
	prefix      string
	replacement string
}{
	{"https://ftp.gnu.org/gnu/", "https://ftpmirror.gnu.org/"},
	{"https://download.savannah.gnu.org/releases/", "https://download-mirror.savannah.gnu.org/releases/"},
}

// AutoMirror derives a mirror URL for well-known hosts, or returns "" when
// the URL has no known mirror pattern.
func AutoMirror(url string) string {
	for _, h := range mirrorHosts {
		if strings.HasPrefix(url, h.prefix) {
			return h.replacement + strings.TrimPrefix(url, h.prefix)
		}
	}
	return ""
}
