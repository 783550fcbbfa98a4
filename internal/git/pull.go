package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Fetch fetches a single branch into refs/remotes/<remote>/<ref>
func (c *Client) Fetch(ctx context.Context, dir string, opts FetchOptions) error {
	repo, _, err := c.open(dir)
	if err != nil {
		return err
	}

	refSpec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", opts.Ref, opts.Remote, opts.Ref))
	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: opts.Remote,
		RemoteURL:  opts.URL,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       opts.Auth.method(opts.URL),
	})
	if err == nil || errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}

	var noMatch gogit.NoMatchingRefSpecError
	if errors.As(err, &noMatch) {
		return bserrors.NewBranchNotFoundError(opts.Remote + "/" + opts.Ref)
	}
	return bserrors.Plumbing("fetch", fmt.Errorf("failed to fetch %s from %s: %w", opts.Ref, opts.Remote, err))
}

// Merge merges opts.Theirs into opts.Ours, checking out Ours first if needed.
// Uses the git CLI because go-git only supports fast-forward merges.
// On conflicts the merge is aborted, leaving the working tree as it was,
// and a MergeConflictError listing the conflicting files is returned.
func (c *Client) Merge(ctx context.Context, dir string, opts MergeOptions) error {
	repo, runner, err := c.open(dir)
	if err != nil {
		return err
	}

	current, err := repo.GetCurrentBranch()
	if err != nil {
		return bserrors.Plumbing("merge", err)
	}
	if opts.Ours != "" && opts.Ours != current {
		if _, err := runner.Run(ctx, "checkout", opts.Ours); err != nil {
			return bserrors.Plumbing("merge", fmt.Errorf("failed to checkout branch %s: %w", opts.Ours, err))
		}
	}

	args := []string{"merge", "--no-edit"}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, opts.Theirs)

	_, err = runner.Run(ctx, args...)
	if err == nil {
		return nil
	}

	var cmdErr *bserrors.GitCommandError
	if errors.As(err, &cmdErr) && isConflictOutput(cmdErr.Output()) {
		files, _ := runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
		_, _ = runner.Run(ctx, "merge", "--abort")
		return bserrors.NewMergeConflictError(opts.Ours, opts.Theirs, files)
	}
	return bserrors.Plumbing("merge", fmt.Errorf("failed to merge %s into %s: %w", opts.Theirs, opts.Ours, err))
}

func isConflictOutput(output string) bool {
	return strings.Contains(output, "CONFLICT") || strings.Contains(output, "Automatic merge failed")
}
