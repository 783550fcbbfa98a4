package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/internal/credentials"
	"branchsync.dev/branchsync/internal/engine"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/testhelpers"
)

// newRealSynchronizer drives real repositories. The token never reaches
// local-path remotes but lets publish steps run.
func newRealSynchronizer(t *testing.T) *engine.Synchronizer {
	t.Helper()
	sync, err := engine.NewSynchronizer(engine.Deps{
		Git:         git.NewClient(),
		Credentials: credentials.Static("test-token"),
	})
	require.NoError(t, err)
	return sync
}

func TestPreviewLifecycle(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	sync := newRealSynchronizer(t)

	result, err := sync.EnsurePreviewBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, engine.PreviewResolution{Branch: "preview", Created: true, CheckedOut: true, BaseBranch: "main", Published: true}, result)

	names, err := sync.ListRemoteBranches(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, []string{"main", "preview"}, names)

	// A second working copy picks up the published branch through tracking
	other := scene.Clone(t, scene.RemotePath(), "other")
	otherResult, err := sync.EnsurePreviewBranch(ctx, other.Dir)
	require.NoError(t, err)
	require.Equal(t, engine.ProvenanceRemote, otherResult.Source)
	require.False(t, otherResult.Created)
	require.Equal(t, "origin", other.GetConfig("branch.preview.remote"))

	// Work lands on preview in the second copy and is pulled into main of the first
	require.NoError(t, other.CreateChangeAndCommit("preview work", "preview"))
	require.NoError(t, sync.PushToBranch(ctx, other.Dir, "preview"))

	require.NoError(t, sync.CheckoutBranch(ctx, scene.Dir, "main"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("main work", "main"))
	require.NoError(t, sync.PullFromPreview(ctx, scene.Dir))

	msg, err := scene.Repo.HeadCommitMessage()
	require.NoError(t, err)
	require.Equal(t, "Merge preview into main", msg)
	require.True(t, scene.Repo.IsAncestor("origin/preview", "main"))

	listing, err := sync.ListBranches(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, []string{"main", "preview"}, listing.Branches)
	require.Equal(t, "main", listing.CurrentBranch)
}

func TestEnsurePreviewWithoutRemote(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	sync := newRealSynchronizer(t)

	result, err := sync.EnsurePreviewBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, engine.PreviewResolution{Branch: "preview", Created: true, CheckedOut: true, BaseBranch: "main"}, result)

	current, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, "preview", current)

	again, err := sync.EnsurePreviewBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, engine.PreviewResolution{Branch: "preview", Created: false, CheckedOut: true, Source: engine.ProvenanceLocal}, again)
}

func TestEnsurePreviewWithoutBase(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.RenameBranch("main", "develop"))

	_, err := newRealSynchronizer(t).EnsurePreviewBranch(context.Background(), scene.Dir)
	require.ErrorIs(t, err, bserrors.ErrNoBaseBranchFound)
}

func TestCheckoutRemoteOnlyBranch(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	other := scene.Clone(t, scene.RemotePath(), "other")
	require.NoError(t, other.CreateAndCheckoutBranch("feature"))
	require.NoError(t, other.CreateChangeAndCommit("feature work", "feature"))
	require.NoError(t, other.PushBranch("origin", "feature"))
	require.NoError(t, scene.Repo.Fetch("origin"))
	sync := newRealSynchronizer(t)

	require.NoError(t, sync.CheckoutBranch(ctx, scene.Dir, "feature"))

	current, err := sync.CurrentBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, "feature", current)
	require.Equal(t, "refs/heads/feature", scene.Repo.GetConfig("branch.feature.merge"))

	err = sync.CreateBranch(ctx, scene.Dir, "feature")
	require.ErrorIs(t, err, bserrors.ErrBranchAlreadyExists)
}

func TestRepositoryInfoAndClone(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	sync := newRealSynchronizer(t)

	dest := filepath.Join(scene.Root, "cloned")
	require.NoError(t, sync.Clone(ctx, scene.RemotePath(), dest))

	repo, err := sync.RepositoryInfo(ctx, dest)
	require.NoError(t, err)
	require.Equal(t, scene.RemotePath(), repo.RemoteURL)
	require.Equal(t, "main", repo.CurrentBranch)
	require.Equal(t, []string{"main"}, repo.Branches)

	_, err = sync.RepositoryInfo(ctx, t.TempDir())
	require.ErrorIs(t, err, bserrors.ErrRepositoryNotFound)
}

func TestPushToBranchRejectsDivergedRemote(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	other := scene.Clone(t, scene.RemotePath(), "other")
	require.NoError(t, other.CreateChangeAndCommit("remote work", "remote"))
	require.NoError(t, other.PushBranch("origin", "main"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("local work", "local"))

	err := newRealSynchronizer(t).PushToBranch(ctx, scene.Dir, "main")
	require.ErrorIs(t, err, bserrors.ErrPlumbing)
}

func TestCreateBranchRejectsRefFormatViolations(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	sync := newRealSynchronizer(t)

	for _, name := range []string{"-x", "a..b", "foo.lock", "HEAD"} {
		err := sync.CreateBranch(ctx, scene.Dir, name)
		require.ErrorIs(t, err, bserrors.ErrInvalidArgument, name)
	}
	testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})

	current, err := sync.CurrentBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, "main", current)

	require.NoError(t, sync.CreateBranch(ctx, scene.Dir, "x"))
	current, err = sync.CurrentBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, "x", current)
}

func TestPullFromPreviewIntoUnbornBranch(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	sync := newRealSynchronizer(t)

	_, err := sync.EnsurePreviewBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.NoError(t, scene.Repo.RunGitCommand("checkout", "--orphan", "fresh"))
	require.NoError(t, scene.Repo.RunGitCommand("rm", "-rf", "--quiet", "."))

	require.NoError(t, sync.PullFromPreview(ctx, scene.Dir))

	current, err := sync.CurrentBranch(ctx, scene.Dir)
	require.NoError(t, err)
	require.Equal(t, "fresh", current)
	require.True(t, scene.Repo.IsAncestor("origin/preview", "fresh"))
}
