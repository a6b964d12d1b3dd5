// Package gitcmd provides the git subprocess adapter for the bump
// pipeline's version-control steps.
package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client implements secondary.GitClient by shelling out to git.
type Client struct{}

// NewClient creates a new git client.
func NewClient() *Client {
	return &Client{}
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := c.runOutput(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CreateAndCheckoutBranch creates branch from the current HEAD and checks
// it out.
func (c *Client) CreateAndCheckoutBranch(ctx context.Context, repoPath, branch string) error {
	return c.run(ctx, repoPath, "checkout", "-b", branch)
}

// Checkout switches to an existing branch.
func (c *Client) Checkout(ctx context.Context, repoPath, branch string) error {
	return c.run(ctx, repoPath, "checkout", branch)
}

// Commit stages the given files and commits them with message.
func (c *Client) Commit(ctx context.Context, repoPath, message string, files ...string) error {
	args := append([]string{"add", "--"}, files...)
	if err := c.run(ctx, repoPath, args...); err != nil {
		return err
	}
	return c.run(ctx, repoPath, "commit", "-m", message)
}

// Push pushes branch to the named remote.
func (c *Client) Push(ctx context.Context, repoPath, remote, branch string) error {
	return c.run(ctx, repoPath, "push", "--set-upstream", remote, branch)
}

// AddRemote registers a new remote.
func (c *Client) AddRemote(ctx context.Context, repoPath, name, url string) error {
	return c.run(ctx, repoPath, "remote", "add", name, url)
}

// HasRemote reports whether a remote with the given name exists.
func (c *Client) HasRemote(ctx context.Context, repoPath, name string) (bool, error) {
	out, err := c.runOutput(ctx, repoPath, "remote")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// run executes a git command and returns an error if it fails.
func (c *Client) run(ctx context.Context, repoPath string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// runOutput executes a git command and returns its stdout.
func (c *Client) runOutput(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
