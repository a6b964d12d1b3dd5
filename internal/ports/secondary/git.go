package secondary

import "context"

// GitClient wraps the local version-control primitives the pipeline needs.
// Arguments are always explicit (remote name, branch name, file list);
// failures surface verbatim and are fatal to the pipeline.
type GitClient interface {
	CurrentBranch(ctx context.Context, repoPath string) (string, error)
	CreateAndCheckoutBranch(ctx context.Context, repoPath, branch string) error
	Checkout(ctx context.Context, repoPath, branch string) error
	Commit(ctx context.Context, repoPath, message string, files ...string) error
	Push(ctx context.Context, repoPath, remote, branch string) error
	AddRemote(ctx context.Context, repoPath, name, url string) error
	HasRemote(ctx context.Context, repoPath, name string) (bool, error)
}
