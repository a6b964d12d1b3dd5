package secondary

import "context"

// Fetcher resolves a download URL to a verified content hash.
type Fetcher interface {
	// FetchHash downloads the resource at url and returns its sha256
	// digest. Archive-like URLs are validated for well-formedness first:
	// an archive with no internal entries is an error, never a silently
	// accepted hash.
	FetchHash(ctx context.Context, url string) (string, error)
}
