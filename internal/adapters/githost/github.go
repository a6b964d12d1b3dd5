// Package githost implements the code-host port against the GitHub API.
package githost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/core/guard"
	"github.com/example/recipebump/internal/models"
	"github.com/example/recipebump/internal/ports/secondary"
)

// Client implements secondary.HostClient for GitHub.
type Client struct {
	gh    *github.Client
	login string
}

// NewClient creates an authenticated GitHub client. The token is required
// for fork and proposal creation; search works unauthenticated but is
// heavily rate-limited.
func NewClient(ctx context.Context, token string) *Client {
	var hc *http.Client
	if token != "" {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &Client{gh: github.NewClient(hc)}
}

// Login returns the authenticated user's login, fetching it on first use.
func (c *Client) Login(ctx context.Context) (string, error) {
	if c.login != "" {
		return c.login, nil
	}
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", classify("failed to identify the authenticated user", err)
	}
	c.login = user.GetLogin()
	return c.login, nil
}

// CreateFork forks repo into the authenticated user's account. GitHub
// creates forks asynchronously, so an accepted-but-pending response is a
// success here; callers poll ForkExists for readiness.
func (c *Client) CreateFork(ctx context.Context, repo string) (*secondary.Fork, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	forked, _, err := c.gh.Repositories.CreateFork(ctx, owner, name, nil)
	var accepted *github.AcceptedError
	if err != nil && !errors.As(err, &accepted) {
		return nil, classify(fmt.Sprintf("failed to fork %s", repo), err)
	}

	login, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	fork := &secondary.Fork{Owner: login}
	if forked != nil {
		fork.CloneURL = forked.GetCloneURL()
		fork.SSHURL = forked.GetSSHURL()
	}
	if fork.CloneURL == "" {
		fork.CloneURL = fmt.Sprintf("https://github.com/%s/%s.git", login, name)
		fork.SSHURL = fmt.Sprintf("git@github.com:%s/%s.git", login, name)
	}
	return fork, nil
}

// ForkExists reports whether the authenticated user's fork of repo is
// visible yet.
func (c *Client) ForkExists(ctx context.Context, repo string) (bool, error) {
	_, name, err := splitRepo(repo)
	if err != nil {
		return false, err
	}
	login, err := c.Login(ctx)
	if err != nil {
		return false, err
	}

	_, resp, err := c.gh.Repositories.Get(ctx, login, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, classify(fmt.Sprintf("failed to check fork of %s", repo), err)
	}
	return true, nil
}

// SearchOpenProposals returns the open pull requests in repo whose title
// mentions name. Results are unfiltered; whole-word matching is done by
// the duplicate guard.
func (c *Client) SearchOpenProposals(ctx context.Context, repo, name string) ([]guard.Proposal, error) {
	query := fmt.Sprintf("repo:%s is:pr is:open in:title %q", repo, name)
	result, _, err := c.gh.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, classify("failed to search open proposals", err)
	}

	var proposals []guard.Proposal
	for _, issue := range result.Issues {
		if issue.PullRequestLinks == nil {
			continue
		}
		proposals = append(proposals, guard.Proposal{
			Title: issue.GetTitle(),
			URL:   issue.GetHTMLURL(),
		})
	}
	return proposals, nil
}

// CreateProposal opens a pull request against repo.
func (c *Client) CreateProposal(ctx context.Context, repo string, spec secondary.ProposalSpec) (*models.Proposal, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, owner, name, &github.NewPullRequest{
		Title: github.String(spec.Title),
		Head:  github.String(spec.Head),
		Base:  github.String(spec.Base),
		Body:  github.String(spec.Body),
	})
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to create proposal against %s", repo), err)
	}
	return &models.Proposal{Title: pr.GetTitle(), URL: pr.GetHTMLURL()}, nil
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", bumperr.Newf(bumperr.KindUsage, "invalid repository %q, expected owner/name", repo)
	}
	return parts[0], parts[1], nil
}

// classify maps GitHub API failures onto pipeline error kinds: rate-limit
// rejections, authentication failures, and everything else.
func classify(msg string, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return bumperr.Wrap(bumperr.KindRateLimit, msg, err)
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return bumperr.Wrap(bumperr.KindHostAuth, msg, err)
		}
	}
	return bumperr.Wrap(bumperr.KindHostAPI, msg, err)
}
