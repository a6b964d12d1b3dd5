// Package primary defines the primary ports (driving interfaces) for the
// bump pipeline.
package primary

import (
	"context"

	"github.com/example/recipebump/internal/core/guard"
	"github.com/example/recipebump/internal/models"
)

// BumpRequest carries everything one bump invocation needs. Every value is
// threaded explicitly; the pipeline reads no ambient process state.
type BumpRequest struct {
	// Target is the declaration name or path.
	Target string
	// Devel selects the development spec instead of stable.
	Devel bool

	// DryRun previews the rewritten text without touching the file.
	DryRun bool
	// WriteOnly applies the patch to disk but skips all VCS and host
	// actions.
	WriteOnly bool

	// Explicit overrides; unset fields are resolved automatically.
	URL      string
	Sha256   string
	Tag      string
	Revision string
	Mirror   string
	// Version forces the version override; "0" removes an existing one.
	Version string
	// Message overrides the generated commit/proposal message.
	Message string

	SkipAudit   bool
	StrictAudit bool
	SkipFork    bool
	Browse      bool

	Force bool
	Quiet bool
}

// BumpResponse reports what the pipeline did.
type BumpResponse struct {
	Name       string
	Kind       models.SpecKind
	OldVersion string
	NewVersion string

	// Preview holds the patched text in dry-run mode.
	Preview string
	// Notes lists encoding fixes surfaced while patching.
	Notes []string

	AliasRename *models.AliasRename
	Duplicates  []guard.Proposal

	Branch      string
	ProposalURL string
}

// BumpService drives one declaration bump from resolution through proposal
// creation.
type BumpService interface {
	Bump(ctx context.Context, req BumpRequest) (*BumpResponse, error)
}
