package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// ListRemoteBranches lists the branch heads advertised by the remote at url (ls-remote)
func (c *Client) ListRemoteBranches(ctx context.Context, url string, auth *Auth) ([]string, error) {
	remote := gogit.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})

	refs, err := remote.ListContext(ctx, &gogit.ListOptions{Auth: auth.method(url)})
	if err != nil {
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return []string{}, nil
		}
		return nil, bserrors.Plumbing("list remote", fmt.Errorf("failed to list %s: %w", url, err))
	}

	names := []string{}
	for _, ref := range refs {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
	}
	sort.Strings(names)
	return names, nil
}
