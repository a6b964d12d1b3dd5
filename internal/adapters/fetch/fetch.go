// Package fetch downloads candidate source artifacts and computes their
// content hash. Archive-like URLs are validated for well-formedness before
// a hash is accepted: a resource that unpacks to nothing is an error, not
// a usable checksum.
package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// downloadTimeout bounds one artifact download.
const downloadTimeout = 5 * time.Minute

// Client implements secondary.Fetcher over HTTP.
type Client struct {
	http *http.Client
}

// NewClient creates a fetch client with a bounded-timeout HTTP client.
func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: downloadTimeout}}
}

// FetchHash downloads url to a temporary file, hashing the stream as it
// arrives, then validates archive well-formedness before returning the
// sha256 digest.
func (c *Client) FetchHash(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: server returned %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "recipebump-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body); err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	if err := validateArchive(tmp.Name(), url); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// validateArchive checks archive-like downloads for at least one internal
// entry. Non-archive URLs pass through untouched.
func validateArchive(path, url string) error {
	switch {
	case hasSuffix(url, ".tar.gz", ".tgz"):
		return validateTar(path, "gzip")
	case hasSuffix(url, ".tar.bz2", ".tbz2"):
		return validateTar(path, "bzip2")
	case hasSuffix(url, ".tar.xz", ".txz"):
		return validateTar(path, "xz")
	case hasSuffix(url, ".zip"):
		return validateZip(path)
	case hasSuffix(url, ".gz"):
		return validateGzip(path)
	default:
		return nil
	}
}

func validateTar(path, compression string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening download: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader
	switch compression {
	case "gzip":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("%s is not a valid archive: %w", path, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case "xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("%s is not a valid archive: %w", path, err)
		}
		r = xr
	default:
		r = bzip2.NewReader(f)
	}

	tr := tar.NewReader(r)
	if _, err := tr.Next(); err != nil {
		return fmt.Errorf("%s is not a valid archive: no entries", path)
	}
	return nil
}

func validateZip(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%s is not a valid archive: %w", path, err)
	}
	defer func() { _ = zr.Close() }()

	if len(zr.File) == 0 {
		return fmt.Errorf("%s is not a valid archive: no entries", path)
	}
	return nil
}

func validateGzip(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening download: %w", err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s is not a valid archive: %w", path, err)
	}
	defer func() { _ = gz.Close() }()

	// A valid gzip stream must decompress to something.
	n, err := io.CopyN(io.Discard, gz, 1)
	if err != nil && n == 0 {
		return fmt.Errorf("%s is not a valid archive: empty stream", path)
	}
	return nil
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
