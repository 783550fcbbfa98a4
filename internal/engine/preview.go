package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"branchsync.dev/branchsync/internal/config"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
)

// EnsurePreviewBranch makes sure the preview branch exists and is checked out.
//
// An existing preview branch is checked out, the local one winning over the
// remote one. Otherwise the first base branch that can be checked out is
// forked into preview, which is then pushed when the repository has a remote
// and a token is available. Only a missing base branch is fatal; a failed
// push is returned as PublishWarning. Safe to call repeatedly.
func (s *Synchronizer) EnsurePreviewBranch(ctx context.Context, path string) (PreviewResolution, error) {
	cfg, err := s.settings(path)
	if err != nil {
		return PreviewResolution{}, err
	}
	preview := cfg.PreviewBranch

	s.sink.Emit("Looking for branch %s", preview)
	snap, err := s.snapshot(ctx, path, cfg.Remote)
	if err != nil {
		return PreviewResolution{}, err
	}

	if snap.has(preview) {
		source, err := s.checkout(ctx, path, cfg, snap, preview)
		if err != nil {
			return PreviewResolution{}, err
		}
		s.sink.Emit("Using existing %s branch %s", source, preview)
		return PreviewResolution{Branch: preview, Created: false, CheckedOut: true, Source: source}, nil
	}

	base, err := s.checkoutBase(ctx, path, cfg, snap)
	if err != nil {
		return PreviewResolution{}, err
	}

	s.warnIfDirty(ctx, path)

	if err := s.createBranch(ctx, path, cfg, preview); err != nil {
		return PreviewResolution{}, err
	}
	result := PreviewResolution{Branch: preview, Created: true, CheckedOut: true, BaseBranch: base}

	published, err := s.publish(ctx, path, cfg, preview)
	if err != nil {
		s.log.Warn("Failed to publish %s: %v", preview, err)
		s.sink.Emit("Warning: could not push %s to %s: %v", preview, cfg.Remote, err)
		result.PublishWarning = err
	}
	result.Published = published

	s.sink.Emit("Created %s from %s", preview, base)
	return result, nil
}

// checkoutBase checks out the first base branch candidate that works
func (s *Synchronizer) checkoutBase(ctx context.Context, path string, cfg config.Config, snap snapshot) (string, error) {
	var failure error
	for _, candidate := range cfg.BaseBranches {
		s.sink.Emit("Checking out base branch %s", candidate)
		if _, err := s.checkout(ctx, path, cfg, snap, candidate); err != nil {
			s.log.Debug("Base branch %s unavailable: %v", candidate, err)
			if !errors.Is(err, bserrors.ErrBranchNotFound) {
				failure = err
			}
			continue
		}
		return candidate, nil
	}
	return "", bserrors.NewNoBaseBranchError(cfg.BaseBranches, failure)
}

// warnIfDirty narrates uncommitted changes. It never blocks the caller.
func (s *Synchronizer) warnIfDirty(ctx context.Context, path string) {
	status, err := s.git.Status(ctx, path)
	if err != nil {
		s.log.Debug("Could not read status of %s: %v", path, err)
		return
	}
	if status.Clean() {
		return
	}
	s.log.Warn("%d uncommitted change(s) in %s", len(status.Files), path)
	s.sink.Emit("Warning: %d uncommitted change(s) will be carried onto the new branch", len(status.Files))
}

// publish pushes branch to the remote of the same name.
// Returns false without error when there is no remote or no token.
func (s *Synchronizer) publish(ctx context.Context, path string, cfg config.Config, branch string) (bool, error) {
	url, err := s.remoteURL(ctx, path, cfg.Remote)
	if err != nil {
		return false, err
	}
	if url == "" {
		s.sink.Emit("No remote configured, skipping publish")
		return false, nil
	}
	auth := s.auth(ctx)
	if auth == nil {
		s.sink.Emit("No credentials available, skipping publish")
		return false, nil
	}

	s.sink.Emit("Pushing %s to %s", branch, cfg.Remote)
	err = s.git.Push(ctx, path, git.PushOptions{
		Remote: cfg.Remote,
		URL:    url,
		Ref:    branch + ":" + branch,
		Auth:   auth,
	})
	if err != nil {
		return false, bserrors.Plumbing("push", err)
	}
	return true, nil
}

// PullFromPreview fetches the remote preview branch and merges it into the current branch
func (s *Synchronizer) PullFromPreview(ctx context.Context, path string) error {
	cfg, err := s.settings(path)
	if err != nil {
		return err
	}
	url, err := s.requireRemoteURL(ctx, path, cfg.Remote)
	if err != nil {
		return err
	}
	current, err := s.requireCurrentBranch(ctx, path)
	if err != nil {
		return err
	}
	preview := cfg.PreviewBranch

	s.sink.Emit("Fetching %s/%s", cfg.Remote, preview)
	err = s.git.Fetch(ctx, path, git.FetchOptions{
		Remote: cfg.Remote,
		URL:    url,
		Ref:    preview,
		Auth:   s.auth(ctx),
	})
	if err != nil {
		return bserrors.Plumbing("fetch", err)
	}

	theirs := cfg.Remote + "/" + preview
	upToDate, err := s.git.IsAncestor(ctx, path, theirs, current)
	if err != nil {
		return bserrors.Plumbing("merge base", err)
	}
	if upToDate {
		s.sink.Emit("%s is already up to date with %s", current, theirs)
		return nil
	}

	s.sink.Emit("Merging %s into %s", theirs, current)
	err = s.git.Merge(ctx, path, git.MergeOptions{
		Ours:    current,
		Theirs:  theirs,
		Message: fmt.Sprintf("Merge %s into %s", preview, current),
	})
	if err != nil {
		return bserrors.Plumbing("merge", err)
	}

	s.sink.Emit("Merged %s into %s", theirs, current)
	return nil
}

// PushToBranch pushes the current branch to target on the remote.
// Non-fast-forward updates are rejected, never forced.
func (s *Synchronizer) PushToBranch(ctx context.Context, path, target string) error {
	if strings.TrimSpace(target) == "" {
		return bserrors.NewInvalidBranchNameError(target, "target branch must not be empty")
	}
	cfg, err := s.settings(path)
	if err != nil {
		return err
	}
	url, err := s.requireRemoteURL(ctx, path, cfg.Remote)
	if err != nil {
		return err
	}
	current, err := s.requireCurrentBranch(ctx, path)
	if err != nil {
		return err
	}

	s.sink.Emit("Pushing %s to %s/%s", current, cfg.Remote, target)
	err = s.git.Push(ctx, path, git.PushOptions{
		Remote: cfg.Remote,
		URL:    url,
		Ref:    current + ":" + target,
		Auth:   s.auth(ctx),
		Force:  false,
	})
	if err != nil {
		return bserrors.Plumbing("push", err)
	}

	s.sink.Emit("Pushed %s to %s/%s", current, cfg.Remote, target)
	return nil
}

// requireCurrentBranch fails when HEAD is detached
func (s *Synchronizer) requireCurrentBranch(ctx context.Context, path string) (string, error) {
	current, err := s.CurrentBranch(ctx, path)
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", fmt.Errorf("%w: HEAD is detached, check out a branch first", bserrors.ErrInvalidArgument)
	}
	return current, nil
}
