package secondary

import (
	"context"

	"github.com/example/recipebump/internal/core/guard"
	"github.com/example/recipebump/internal/models"
)

// Fork describes a repository fork on the code host.
type Fork struct {
	CloneURL string
	SSHURL   string
	Owner    string
}

// ProposalSpec is the request body for creating a change proposal.
type ProposalSpec struct {
	Title string
	Head  string // "owner:branch"
	Base  string
	Body  string
}

// HostClient is the code-host API surface. Implementations classify
// failures into bumperr kinds: authentication failures, rate-limit
// rejections and generic API errors are distinguishable with errors.As.
type HostClient interface {
	// CreateFork forks repo ("owner/name") into the authenticated user's
	// account. Fork creation is asynchronous on most hosts; use ForkExists
	// to poll for readiness.
	CreateFork(ctx context.Context, repo string) (*Fork, error)

	// ForkExists reports whether the authenticated user's fork of repo is
	// visible yet.
	ForkExists(ctx context.Context, repo string) (bool, error)

	// SearchOpenProposals returns open proposals in repo whose title
	// mentions name. Results are raw; whole-word filtering is the guard's
	// job.
	SearchOpenProposals(ctx context.Context, repo, name string) ([]guard.Proposal, error)

	// CreateProposal opens a change proposal against repo.
	CreateProposal(ctx context.Context, repo string, spec ProposalSpec) (*models.Proposal, error)
}
