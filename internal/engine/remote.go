package engine

import (
	"context"
	"fmt"
	"strings"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// ListRemoteBranches lists the branches the live remote advertises, not the
// possibly stale remote-tracking refs
func (s *Synchronizer) ListRemoteBranches(ctx context.Context, path string) ([]string, error) {
	cfg, err := s.settings(path)
	if err != nil {
		return nil, err
	}
	url, err := s.requireRemoteURL(ctx, path, cfg.Remote)
	if err != nil {
		return nil, err
	}

	s.sink.Emit("Listing branches on %s", cfg.Remote)
	names, err := s.git.ListRemoteBranches(ctx, url, s.auth(ctx))
	if err != nil {
		return nil, bserrors.Plumbing("list remote", err)
	}
	return names, nil
}

// Clone clones url into path
func (s *Synchronizer) Clone(ctx context.Context, url, path string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: clone url must not be empty", bserrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: clone destination must not be empty", bserrors.ErrInvalidArgument)
	}

	s.sink.Emit("Cloning %s into %s", url, path)
	if err := s.git.Clone(ctx, url, path, s.auth(ctx)); err != nil {
		return bserrors.Plumbing("clone", err)
	}
	s.sink.Emit("Cloned %s", url)
	return nil
}
