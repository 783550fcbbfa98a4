package git

import (
	"context"
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Client implements Plumbing with go-git, falling back to the git CLI for
// checkout, merge, status and config where go-git support is incomplete.
type Client struct{}

// NewClient creates a new Client
func NewClient() *Client {
	return &Client{}
}

var _ Plumbing = (*Client)(nil)

// open opens dir and returns a CLI runner rooted at the working copy
func (c *Client) open(dir string) (*Repository, *CommandRunner, error) {
	repo, err := OpenRepository(dir)
	if err != nil {
		return nil, nil, err
	}
	return repo, NewCommandRunner(dir), nil
}

// Clone clones url into dir
func (c *Client) Clone(ctx context.Context, url, dir string, auth *Auth) error {
	_, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL:  url,
		Auth: auth.method(url),
	})
	if err != nil {
		return bserrors.Plumbing("clone", fmt.Errorf("failed to clone %s: %w", url, err))
	}
	return nil
}

// Checkout checks out an existing ref
func (c *Client) Checkout(ctx context.Context, dir, ref string) error {
	_, runner, err := c.open(dir)
	if err != nil {
		return err
	}
	if _, err := runner.Run(ctx, "checkout", "--end-of-options", ref); err != nil {
		return bserrors.Plumbing("checkout", fmt.Errorf("failed to checkout branch %s: %w", ref, err))
	}
	return nil
}

// CurrentBranch returns the checked out branch, or "" when HEAD is detached
func (c *Client) CurrentBranch(_ context.Context, dir string) (string, error) {
	repo, _, err := c.open(dir)
	if err != nil {
		return "", err
	}
	branch, err := repo.GetCurrentBranch()
	if err != nil {
		return "", bserrors.Plumbing("current branch", err)
	}
	return branch, nil
}

// ListBranches returns local branches, or the tracking branches of remote
func (c *Client) ListBranches(_ context.Context, dir, remote string) ([]string, error) {
	repo, _, err := c.open(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	if remote == "" {
		names, err = repo.LocalBranchNames()
	} else {
		names, err = repo.RemoteBranchNames(remote)
	}
	if err != nil {
		return nil, bserrors.Plumbing("list branches", err)
	}
	return names, nil
}
