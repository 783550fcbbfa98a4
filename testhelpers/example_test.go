package testhelpers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/testhelpers"
)

// TestExampleUsage demonstrates the basic pattern for using scenes.
func TestExampleUsage(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	branches, err := scene.Repo.RunGitCommandAndGetOutput("branch", "--list")
	require.NoError(t, err)
	require.Contains(t, branches, "main")
	testhelpers.ExpectCommits(t, scene.Repo, "main", []string{"1"})
}

// TestRemoteScene checks the remote setup publishes main to a sibling bare repository.
func TestRemoteScene(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)

	require.DirExists(t, scene.RemotePath())
	require.Equal(t, scene.RemotePath(), scene.Repo.GetConfig("remote.origin.url"))

	clone := scene.Clone(t, scene.RemotePath(), "clone")
	head := testhelpers.Must(clone.GetRevision("HEAD"))
	require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("main")), head)
}

// TestExpectBranches demonstrates the branch assertion helper.
func TestExpectBranches(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("bugfix"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	testhelpers.ExpectBranches(t, scene.Repo, []string{"main", "feature", "bugfix"})
}

// TestBinaryEnvIsolatesState checks user state and tokens are replaced.
func TestBinaryEnvIsolatesState(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "leaked")
	home := t.TempDir()

	env := testhelpers.BinaryEnv(home)
	require.NotContains(t, env, "GITHUB_TOKEN=leaked")
	require.Contains(t, env, "HOME="+home)
	require.Contains(t, env, "BRANCHSYNC_PROJECTS_FILE="+home+"/projects.json")
}
