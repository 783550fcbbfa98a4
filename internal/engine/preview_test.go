package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/internal/credentials"
	"branchsync.dev/branchsync/internal/engine"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
)

func TestEnsurePreviewBranch(t *testing.T) {
	ctx := context.Background()

	t.Run("existing local preview is checked out", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main", "preview"}
		fake.remote = []string{"main", "preview"}
		fake.current = "main"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.Equal(t, engine.PreviewResolution{Branch: "preview", Created: false, CheckedOut: true, Source: engine.ProvenanceLocal}, result)
		require.Equal(t, "preview", fake.current)
		require.False(t, fake.called("branch"))
		require.False(t, fake.called("push"))
	})

	t.Run("existing remote preview gets a tracking branch", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main"}
		fake.remote = []string{"main", "preview"}
		fake.current = "main"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.Equal(t, engine.PreviewResolution{Branch: "preview", Created: false, CheckedOut: true, Source: engine.ProvenanceRemote}, result)
		require.Equal(t, []git.BranchOptions{{Name: "preview", StartPoint: "origin/preview", Upstream: "origin/preview", Checkout: true}}, fake.branches)
		require.False(t, fake.called("push"))
	})

	t.Run("no base branch", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"develop", "stage"}
		fake.current = "develop"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		_, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrNoBaseBranchFound)

		var noBase *bserrors.NoBaseBranchError
		require.ErrorAs(t, err, &noBase)
		require.Equal(t, []string{"main", "master"}, noBase.Candidates)
		require.NoError(t, noBase.Err)
		require.False(t, fake.called("branch"))
		require.Equal(t, "develop", fake.current)
	})

	t.Run("no base branch keeps the checkout failure", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"main", "develop"}
		fake.current = "develop"
		fake.failOn["checkout"] = errors.New("your local changes would be overwritten by checkout")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		_, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrNoBaseBranchFound)
		require.ErrorIs(t, err, bserrors.ErrPlumbing)
		require.Contains(t, err.Error(), "would be overwritten")

		var noBase *bserrors.NoBaseBranchError
		require.ErrorAs(t, err, &noBase)
		require.Error(t, noBase.Err)
		require.False(t, fake.called("branch"))
	})

	t.Run("creates from main without remote", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"main", "feature"}
		fake.current = "feature"
		sync, recorder := newSynchronizer(t, fake, credentials.Static("token"))

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.Equal(t, engine.PreviewResolution{Branch: "preview", Created: true, CheckedOut: true, BaseBranch: "main"}, result)
		require.True(t, result.PublishSkipped())
		require.Equal(t, "preview", fake.current)
		require.Equal(t, []git.BranchOptions{{Name: "preview", Checkout: true}}, fake.branches)
		require.False(t, fake.called("push"))
		require.Contains(t, recorder.Lines(), "No remote configured, skipping publish")
	})

	t.Run("falls back to master", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"master"}
		fake.current = "master"
		sync, _ := newSynchronizer(t, fake, credentials.None)

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.Equal(t, "master", result.BaseBranch)
		require.True(t, result.Created)
	})

	t.Run("base branch from remote only", func(t *testing.T) {
		fake := newFakeGit()
		fake.remote = []string{"main"}
		sync, _ := newSynchronizer(t, fake, credentials.None)

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.Equal(t, "main", result.BaseBranch)
		require.Equal(t, "main", fake.branches[0].Name)
		require.Equal(t, "origin/main", fake.branches[0].Upstream)
		require.Equal(t, "preview", fake.branches[1].Name)
	})

	t.Run("skips publish without token", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main"}
		fake.current = "main"
		sync, recorder := newSynchronizer(t, fake, credentials.None)

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.True(t, result.Created)
		require.False(t, result.Published)
		require.NoError(t, result.PublishWarning)
		require.False(t, fake.called("push"))
		require.Contains(t, recorder.Lines(), "No credentials available, skipping publish")
	})

	t.Run("publishes with remote and token", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main"}
		fake.current = "main"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.True(t, result.Published)
		require.Equal(t, []git.PushOptions{{
			Remote: "origin",
			URL:    "https://github.com/acme/site.git",
			Ref:    "preview:preview",
			Auth:   &git.Auth{Username: "token", Password: "x-oauth-basic"},
		}}, fake.pushes)
	})

	t.Run("publish failure is a warning", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main"}
		fake.current = "main"
		fake.failOn["push"] = errors.New("403 forbidden")
		sync, recorder := newSynchronizer(t, fake, credentials.Static("token"))

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.True(t, result.Created)
		require.True(t, result.CheckedOut)
		require.False(t, result.Published)
		require.ErrorIs(t, result.PublishWarning, bserrors.ErrPlumbing)
		require.Equal(t, "preview", fake.current)

		warned := false
		for _, line := range recorder.Lines() {
			if strings.HasPrefix(line, "Warning: could not push preview") {
				warned = true
			}
		}
		require.True(t, warned)
	})

	t.Run("dirty tree warns but does not block", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"main"}
		fake.current = "main"
		fake.dirty = []string{"index.html", "app.js"}
		sync, recorder := newSynchronizer(t, fake, credentials.None)

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.True(t, result.Created)
		require.Contains(t, recorder.Lines(), "Warning: 2 uncommitted change(s) will be carried onto the new branch")
	})

	t.Run("status failure does not block", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"main"}
		fake.failOn["status"] = errors.New("index locked")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		result, err := sync.EnsurePreviewBranch(ctx, repoPath(t))
		require.NoError(t, err)
		require.True(t, result.Created)
	})

	t.Run("idempotent", func(t *testing.T) {
		fake := newFakeGit()
		fake.local = []string{"main"}
		fake.current = "main"
		sync, _ := newSynchronizer(t, fake, credentials.None)
		path := repoPath(t)

		first, err := sync.EnsurePreviewBranch(ctx, path)
		require.NoError(t, err)
		require.True(t, first.Created)

		second, err := sync.EnsurePreviewBranch(ctx, path)
		require.NoError(t, err)
		require.False(t, second.Created)
		require.Equal(t, engine.ProvenanceLocal, second.Source)
		require.Len(t, fake.branches, 1)
	})
}

func TestPullFromPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and merges into current branch", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main", "feature"}
		fake.current = "feature"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		require.NoError(t, sync.PullFromPreview(ctx, repoPath(t)))
		require.Equal(t, []git.FetchOptions{{
			Remote: "origin",
			URL:    "https://github.com/acme/site.git",
			Ref:    "preview",
			Auth:   git.TokenAuth("token"),
		}}, fake.fetches)
		require.Equal(t, []git.MergeOptions{{
			Ours:    "feature",
			Theirs:  "origin/preview",
			Message: "Merge preview into feature",
		}}, fake.merges)
	})

	t.Run("fetches anonymously without token", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.current = "main"
		sync, _ := newSynchronizer(t, fake, credentials.None)

		require.NoError(t, sync.PullFromPreview(ctx, repoPath(t)))
		require.Nil(t, fake.fetches[0].Auth)
	})

	t.Run("requires remote", func(t *testing.T) {
		fake := newFakeGit()
		fake.current = "main"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		err := sync.PullFromPreview(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrRemoteNotConfigured)
		require.False(t, fake.called("fetch"))
		require.False(t, fake.called("merge"))
	})

	t.Run("merge conflict propagates", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.current = "main"
		fake.failOn["merge"] = bserrors.NewMergeConflictError("main", "origin/preview", []string{"index.html"})
		sync, _ := newSynchronizer(t, fake, credentials.None)

		err := sync.PullFromPreview(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrMergeConflict)
		var conflict *bserrors.MergeConflictError
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, []string{"index.html"}, conflict.Files)
	})

	t.Run("missing remote preview", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.current = "main"
		fake.failOn["fetch"] = bserrors.NewBranchNotFoundError("origin/preview")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		err := sync.PullFromPreview(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrBranchNotFound)
		require.False(t, fake.called("merge"))
	})

	t.Run("detached head", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		err := sync.PullFromPreview(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrInvalidArgument)
		require.False(t, fake.called("fetch"))
	})

	t.Run("already up to date skips the merge", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.current = "main"
		fake.ancestors["origin/preview..main"] = true
		sync, recorder := newSynchronizer(t, fake, credentials.None)

		require.NoError(t, sync.PullFromPreview(ctx, repoPath(t)))
		require.True(t, fake.called("fetch"))
		require.False(t, fake.called("merge"))
		require.Contains(t, recorder.Lines(), "main is already up to date with origin/preview")
	})

	t.Run("ancestry failure is a plumbing error", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.current = "main"
		fake.failOn["isancestor"] = errors.New("object not found")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		err := sync.PullFromPreview(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrPlumbing)
		require.False(t, fake.called("merge"))
	})
}

func TestPushToBranch(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes current branch to target", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.local = []string{"main", "preview"}
		fake.current = "preview"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		require.NoError(t, sync.PushToBranch(ctx, repoPath(t), "main"))
		require.Equal(t, []git.PushOptions{{
			Remote: "origin",
			URL:    "https://github.com/acme/site.git",
			Ref:    "preview:main",
			Auth:   git.TokenAuth("token"),
			Force:  false,
		}}, fake.pushes)
	})

	t.Run("requires remote and never pushes without one", func(t *testing.T) {
		fake := newFakeGit()
		fake.current = "preview"
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		err := sync.PushToBranch(ctx, repoPath(t), "main")
		require.ErrorIs(t, err, bserrors.ErrRemoteNotConfigured)
		require.False(t, fake.called("push"))
	})

	t.Run("rejected push surfaces as plumbing error", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.current = "preview"
		fake.failOn["push"] = errors.New("non-fast-forward update")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		err := sync.PushToBranch(ctx, repoPath(t), "main")
		require.ErrorIs(t, err, bserrors.ErrPlumbing)
		require.Contains(t, err.Error(), "non-fast-forward update")
	})

	t.Run("empty target", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		sync, _ := newSynchronizer(t, fake, credentials.None)

		err := sync.PushToBranch(ctx, repoPath(t), "")
		require.ErrorIs(t, err, bserrors.ErrInvalidArgument)
		require.Empty(t, fake.calls)
	})
}

func TestListRemoteBranchesAndClone(t *testing.T) {
	ctx := context.Background()

	t.Run("lists live remote branches", func(t *testing.T) {
		fake := newFakeGit().withRemote("https://github.com/acme/site.git")
		fake.remote = []string{"main", "preview"}
		sync, _ := newSynchronizer(t, fake, credentials.Static("token"))

		names, err := sync.ListRemoteBranches(ctx, repoPath(t))
		require.NoError(t, err)
		require.Equal(t, []string{"main", "preview"}, names)
		require.Equal(t, git.TokenAuth("token"), fake.auths[0])
	})

	t.Run("remote required", func(t *testing.T) {
		fake := newFakeGit()
		sync, _ := newSynchronizer(t, fake, credentials.None)

		_, err := sync.ListRemoteBranches(ctx, repoPath(t))
		require.ErrorIs(t, err, bserrors.ErrRemoteNotConfigured)
		require.False(t, fake.called("lsremote"))
	})

	t.Run("clone uses current token", func(t *testing.T) {
		fake := newFakeGit()
		token := "first"
		provider := credentials.ProviderFunc(func(context.Context) (string, bool) { return token, true })
		sync, _ := newSynchronizer(t, fake, provider)

		require.NoError(t, sync.Clone(ctx, "https://github.com/acme/site.git", "/work/site"))
		token = "rotated"
		require.NoError(t, sync.Clone(ctx, "https://github.com/acme/blog.git", "/work/blog"))

		require.Equal(t, []string{"https://github.com/acme/site.git -> /work/site", "https://github.com/acme/blog.git -> /work/blog"}, fake.clones)
		require.Equal(t, "first", fake.auths[0].Username)
		require.Equal(t, "rotated", fake.auths[1].Username)
	})

	t.Run("clone validates arguments", func(t *testing.T) {
		fake := newFakeGit()
		sync, _ := newSynchronizer(t, fake, credentials.None)

		require.ErrorIs(t, sync.Clone(ctx, "", "/work/site"), bserrors.ErrInvalidArgument)
		require.ErrorIs(t, sync.Clone(ctx, "https://github.com/acme/site.git", " "), bserrors.ErrInvalidArgument)
		require.Empty(t, fake.calls)
	})
}
