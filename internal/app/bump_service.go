// Package app contains the application layer: the bump pipeline service
// that drives the pure core stages and the secondary adapters.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/example/recipebump/internal/bumperr"
	"github.com/example/recipebump/internal/config"
	"github.com/example/recipebump/internal/core/alias"
	"github.com/example/recipebump/internal/core/guard"
	"github.com/example/recipebump/internal/core/mutate"
	"github.com/example/recipebump/internal/core/recipe"
	"github.com/example/recipebump/internal/core/resolve"
	"github.com/example/recipebump/internal/models"
	"github.com/example/recipebump/internal/ports/primary"
	"github.com/example/recipebump/internal/ports/secondary"
)

// StoreFactory opens the declaration store for a resolved path.
type StoreFactory func(path string) secondary.RecipeStore

// BumpServiceImpl implements the BumpService interface.
type BumpServiceImpl struct {
	cfg     *config.Config
	stores  StoreFactory
	fetcher secondary.Fetcher
	git     secondary.GitClient
	host    secondary.HostClient
	auditor secondary.Auditor
	log     *log.Logger

	forkWait forkWaitPolicy
}

// NewBumpService creates a BumpService with injected dependencies.
func NewBumpService(
	cfg *config.Config,
	stores StoreFactory,
	fetcher secondary.Fetcher,
	git secondary.GitClient,
	host secondary.HostClient,
	auditor secondary.Auditor,
	logger *log.Logger,
) *BumpServiceImpl {
	return &BumpServiceImpl{
		cfg:      cfg,
		stores:   stores,
		fetcher:  fetcher,
		git:      git,
		host:     host,
		auditor:  auditor,
		log:      logger,
		forkWait: defaultForkWaitPolicy,
	}
}

// Bump runs the full pipeline for one declaration: resolve the new source,
// build and apply the mutation plan, validate the result, sync the alias,
// then hand off to audit, git and the code host. The pre-mutation text is
// captured once before the first write; any fatal failure after that write
// triggers exactly one restorative write of the backup.
func (s *BumpServiceImpl) Bump(ctx context.Context, req primary.BumpRequest) (*primary.BumpResponse, error) {
	if req.DryRun && req.WriteOnly {
		return nil, bumperr.New(bumperr.KindUsage, "--dry-run and --write are mutually exclusive")
	}

	path, err := s.resolveTarget(req.Target)
	if err != nil {
		return nil, err
	}
	store := s.stores(path)

	text, err := store.Read(ctx)
	if err != nil {
		return nil, err
	}

	decl, err := recipe.ParseDeclaration(path, text)
	if err != nil {
		return nil, err
	}

	kind := models.SpecStable
	if req.Devel {
		kind = models.SpecDevel
	}
	spec := decl.Spec(kind)
	if spec == nil {
		return nil, bumperr.Newf(bumperr.KindUsage, "%s has no %s spec", decl.Name, kind)
	}

	oldVersion, err := recipe.ParseVersion(spec.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to parse old version: %w", err)
	}

	resp := &primary.BumpResponse{
		Name:       decl.Name,
		Kind:       kind,
		OldVersion: oldVersion.String(),
	}

	// Duplicate pre-flight runs only when a proposal would be opened.
	if !req.DryRun && !req.WriteOnly {
		dups, err := s.duplicateCheck(ctx, decl.Name, req.Force, req.Quiet)
		if err != nil {
			return nil, err
		}
		resp.Duplicates = dups
	}

	s.log.Debug("resolving new source", "declaration", decl.Name, "spec", kind)
	decision, err := resolve.Resolve(ctx, spec, resolve.Request{
		URL:      req.URL,
		Sha256:   req.Sha256,
		Tag:      req.Tag,
		Revision: req.Revision,
		Mirror:   req.Mirror,
	}, s.fetcher)
	if err != nil {
		return nil, err
	}

	plan, err := mutate.Build(mutate.Input{
		Spec:          spec,
		Decision:      decision,
		ForcedVersion: req.Version,
	})
	if err != nil {
		return nil, err
	}
	for _, rule := range plan.Rules() {
		s.log.Debug("planned", "rule", rule.String())
	}

	result, err := mutate.Apply(text, plan)
	if err != nil {
		return nil, err
	}
	resp.Notes = result.Notes

	newVersion, err := mutate.CheckUpgrade(result.Text, kind, oldVersion)
	if err != nil {
		return nil, err
	}
	resp.NewVersion = newVersion.String()

	aliases, err := store.Aliases(ctx)
	if err != nil {
		return nil, err
	}
	resp.AliasRename = alias.Rename(aliases, newVersion)

	if req.DryRun {
		resp.Preview = result.Text
		return resp, nil
	}

	// First write. From here on the captured backup is the only rollback
	// source; it restores byte-identical pre-mutation content.
	backup := text
	if err := store.AtomicWrite(ctx, result.Text); err != nil {
		return nil, err
	}
	rollback := func(cause error) error {
		if restoreErr := store.AtomicWrite(ctx, backup); restoreErr != nil {
			return fmt.Errorf("%w (restoring the original declaration also failed: %v)", cause, restoreErr)
		}
		return cause
	}

	if !req.SkipAudit {
		s.log.Debug("auditing", "path", path)
		if err := s.auditor.Audit(ctx, path, req.StrictAudit); err != nil {
			return nil, rollback(err)
		}
	}

	if req.WriteOnly {
		return resp, nil
	}

	if err := s.openProposal(ctx, req, resp, path); err != nil {
		return nil, rollback(err)
	}
	return resp, nil
}

// duplicateCheck queries the host for open proposals naming the
// declaration and applies the (force, quiet) policy matrix. A rate-limited
// search degrades to "no duplicates": duplicate detection is best-effort,
// not safety-critical.
func (s *BumpServiceImpl) duplicateCheck(ctx context.Context, name string, force, quiet bool) ([]guard.Proposal, error) {
	results, err := s.host.SearchOpenProposals(ctx, s.cfg.UpstreamRepo, name)
	if err != nil {
		if bumperr.IsKind(err, bumperr.KindRateLimit) {
			s.log.Warn("skipping duplicate check, search is rate-limited", "err", err)
			return nil, nil
		}
		return nil, err
	}

	decision := guard.Evaluate(force, quiet, guard.MatchOpenProposals(name, results))
	if decision.Aborts() {
		return nil, bumperr.New(bumperr.KindDuplicate, decision.ErrorMessage(name))
	}
	if decision.Action == guard.ProceedWarn {
		return decision.Duplicates, nil
	}
	return nil, nil
}

// openProposal drives the git and code-host glue: branch, commit, push,
// then the pull request.
func (s *BumpServiceImpl) openProposal(ctx context.Context, req primary.BumpRequest, resp *primary.BumpResponse, path string) error {
	repoPath := s.cfg.RepoPath
	branch := bumpBranchName(resp.Name, resp.NewVersion)
	resp.Branch = branch

	message := req.Message
	if message == "" {
		message = fmt.Sprintf("%s %s", resp.Name, resp.NewVersion)
		if resp.Kind == models.SpecDevel {
			message += " (devel)"
		}
	}

	remote := "origin"
	head := branch
	if !req.SkipFork {
		fork, err := s.ensureFork(ctx)
		if err != nil {
			return err
		}
		remote = fork.Owner
		head = fork.Owner + ":" + branch

		hasRemote, err := s.git.HasRemote(ctx, repoPath, remote)
		if err != nil {
			return err
		}
		if !hasRemote {
			if err := s.git.AddRemote(ctx, repoPath, remote, fork.CloneURL); err != nil {
				return err
			}
		}
	}

	startBranch, err := s.git.CurrentBranch(ctx, repoPath)
	if err != nil {
		return err
	}
	if err := s.git.CreateAndCheckoutBranch(ctx, repoPath, branch); err != nil {
		return err
	}
	rel, err := filepath.Rel(repoPath, path)
	if err != nil {
		rel = path
	}
	if err := s.git.Commit(ctx, repoPath, message, rel); err != nil {
		return err
	}
	if err := s.git.Push(ctx, repoPath, remote, branch); err != nil {
		return err
	}
	// The bump branch is pushed; leave the checkout where it started. A
	// checkout failure is not worth failing the bump over.
	if err := s.git.Checkout(ctx, repoPath, startBranch); err != nil {
		s.log.Warn("could not restore starting branch", "branch", startBranch, "err", err)
	}

	proposal, err := s.host.CreateProposal(ctx, s.cfg.UpstreamRepo, secondary.ProposalSpec{
		Title: message,
		Head:  head,
		Base:  s.cfg.BaseBranch,
		Body:  proposalBody(resp),
	})
	if err != nil {
		return err
	}
	resp.ProposalURL = proposal.URL
	return nil
}

// ensureFork makes sure the authenticated user's fork exists and is
// visible, creating it and polling for readiness when necessary.
func (s *BumpServiceImpl) ensureFork(ctx context.Context) (*secondary.Fork, error) {
	repo := s.cfg.UpstreamRepo

	exists, err := s.host.ForkExists(ctx, repo)
	if err != nil {
		return nil, err
	}
	fork, err := s.host.CreateFork(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.log.Debug("waiting for fork to become visible", "repo", repo)
		if err := s.waitForFork(ctx, repo); err != nil {
			return nil, err
		}
	}
	return fork, nil
}

func proposalBody(resp *primary.BumpResponse) string {
	body := fmt.Sprintf("Created with `recipebump bump`.\n\nBumps %s from %s to %s.",
		resp.Name, resp.OldVersion, resp.NewVersion)
	if resp.AliasRename != nil {
		body += fmt.Sprintf("\n\nAlias rename: %s -> %s.", resp.AliasRename.Old, resp.AliasRename.New)
	}
	return body
}

// resolveTarget maps a declaration name or path to a filesystem location.
func (s *BumpServiceImpl) resolveTarget(target string) (string, error) {
	if target == "" {
		return "", bumperr.New(bumperr.KindUsage, "a declaration name or path is required")
	}
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	path := filepath.Join(s.cfg.RepoPath, "Recipes", target+".rcp")
	if _, err := os.Stat(path); err != nil {
		return "", bumperr.Newf(bumperr.KindUsage, "no declaration named %q (looked at %s)", target, path)
	}
	return path, nil
}
