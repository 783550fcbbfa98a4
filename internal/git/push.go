package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Push pushes opts.Ref ("src:dst") to the remote.
// Without Force, non-fast-forward updates are rejected by the transport.
func (c *Client) Push(ctx context.Context, dir string, opts PushOptions) error {
	repo, _, err := c.open(dir)
	if err != nil {
		return err
	}

	spec, err := opts.refSpec()
	if err != nil {
		return bserrors.NewInvalidBranchNameError(opts.Ref, err.Error())
	}

	err = repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: opts.Remote,
		RemoteURL:  opts.URL,
		RefSpecs:   []config.RefSpec{config.RefSpec(spec)},
		Auth:       opts.Auth.method(opts.URL),
		Force:      opts.Force,
	})
	if err == nil || errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}
	if errors.Is(err, gogit.ErrNonFastForwardUpdate) {
		return bserrors.Plumbing("push", fmt.Errorf("push of %s rejected, remote has diverged: %w", opts.Ref, err))
	}
	return bserrors.Plumbing("push", fmt.Errorf("failed to push %s: %w", opts.Ref, err))
}
