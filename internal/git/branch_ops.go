package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// ValidateBranchName checks name against git's ref-format rules for a branch.
// It returns an InvalidBranchNameError describing the first rule broken.
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return bserrors.NewInvalidBranchNameError(name, "branch name must not be empty")
	case name == "HEAD":
		return bserrors.NewInvalidBranchNameError(name, "HEAD is not a valid branch name")
	case strings.HasPrefix(name, "-"):
		return bserrors.NewInvalidBranchNameError(name, "branch name must not start with '-'")
	}
	if err := plumbing.NewBranchReferenceName(name).Validate(); err != nil {
		return bserrors.NewInvalidBranchNameError(name, "not a valid git ref name")
	}
	return nil
}

// Branch creates a local branch at opts.StartPoint (HEAD by default),
// optionally recording an upstream and checking it out.
func (c *Client) Branch(ctx context.Context, dir string, opts BranchOptions) error {
	if err := ValidateBranchName(opts.Name); err != nil {
		return err
	}
	repo, runner, err := c.open(dir)
	if err != nil {
		return err
	}

	exists, err := repo.BranchExists(opts.Name)
	if err != nil {
		return bserrors.Plumbing("branch", err)
	}
	if exists {
		return bserrors.NewBranchAlreadyExistsError(opts.Name)
	}

	startPoint := opts.StartPoint
	if startPoint == "" {
		startPoint = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(startPoint))
	if err != nil {
		return bserrors.Plumbing("branch", fmt.Errorf("failed to resolve %s: %w", startPoint, err))
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(opts.Name), *hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		return bserrors.Plumbing("branch", fmt.Errorf("failed to create branch %s: %w", opts.Name, err))
	}

	if opts.Upstream != "" {
		remote, upstreamBranch, ok := strings.Cut(opts.Upstream, "/")
		if !ok {
			return bserrors.NewInvalidBranchNameError(opts.Upstream, "upstream must be <remote>/<branch>")
		}
		err := repo.CreateBranch(&config.Branch{
			Name:   opts.Name,
			Remote: remote,
			Merge:  plumbing.NewBranchReferenceName(upstreamBranch),
		})
		if err != nil {
			repo.discardBranch(opts.Name, false)
			return bserrors.Plumbing("branch", fmt.Errorf("failed to set upstream of %s: %w", opts.Name, err))
		}
	}

	if opts.Checkout {
		if _, err := runner.Run(ctx, "checkout", "--end-of-options", opts.Name); err != nil {
			repo.discardBranch(opts.Name, opts.Upstream != "")
			return bserrors.Plumbing("branch", fmt.Errorf("failed to checkout branch %s: %w", opts.Name, err))
		}
	}
	return nil
}

// discardBranch removes a branch written by a failed Branch call so a retry starts clean
func (r *Repository) discardBranch(name string, withConfig bool) {
	_ = r.Storer.RemoveReference(plumbing.NewBranchReferenceName(name))
	if withConfig {
		_ = r.DeleteBranch(name)
	}
}
