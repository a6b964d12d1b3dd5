package cli

import (
	"regexp"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/ports/primary"
)

var sha256Re = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// validateBumpRequest rejects flag combinations that cannot form a valid
// bump before the pipeline runs. Spec-style conflicts (a --url against a
// tag-style declaration and the like) are the resolver's job; this layer
// only checks what is knowable from the flags alone.
func validateBumpRequest(req *primary.BumpRequest) error {
	if req.DryRun && req.WriteOnly {
		return bumperr.New(bumperr.KindUsage, "--dry-run and --write are mutually exclusive")
	}
	if req.URL != "" && req.Tag != "" {
		return bumperr.New(bumperr.KindUsage, "--url and --tag are mutually exclusive")
	}
	if req.Sha256 != "" && req.URL == "" {
		return bumperr.New(bumperr.KindUsage, "--sha256 requires --url")
	}
	if req.Revision != "" && req.Tag == "" {
		return bumperr.New(bumperr.KindUsage, "--revision requires --tag")
	}
	if req.Sha256 != "" && !sha256Re.MatchString(req.Sha256) {
		return bumperr.Newf(bumperr.KindUsage, "%q is not a sha256 digest", req.Sha256)
	}
	return nil
}
