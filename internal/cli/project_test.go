package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/testhelpers"
)

func TestProjectCommands(t *testing.T) {
	s := newScenario(t, testhelpers.RemoteSceneSetup)

	out, err := s.RunCliAndGetOutput("project", "add", "Marketing Site", ".", "--remote", s.Scene.RemotePath())
	require.NoError(t, err, out)
	require.Contains(t, out, "Added project marketing-site")

	out, err = s.RunCliIn(".", "project", "list")
	require.NoError(t, err, out)
	require.Contains(t, out, "marketing-site")
	require.Contains(t, out, s.Scene.Dir)

	// --project works from any directory
	_, err = s.RunCliIn(".", "--project", "marketing-site", "create", "feature")
	require.NoError(t, err)
	s.ExpectBranch("feature")

	out, err = s.RunCliIn(".", "-p", "marketing-site", "branches")
	require.NoError(t, err, out)
	require.Contains(t, out, "* feature")

	_, err = s.RunCliIn(".", "-p", "marketing-site", "preview", "ensure")
	require.NoError(t, err)
	s.ExpectBranch("preview")

	out, err = s.RunCliIn(".", "-p", "unknown", "current")
	require.Error(t, err)
	require.Contains(t, out, "project unknown not found")

	_, err = s.RunCliIn(".", "project", "remove", "marketing-site")
	require.NoError(t, err)

	out, err = s.RunCliIn(".", "-p", "marketing-site", "current")
	require.Error(t, err)
	require.Contains(t, out, "project marketing-site not found")
}

func TestCloneCommands(t *testing.T) {
	t.Run("clone into a named directory", func(t *testing.T) {
		t.Parallel()
		s := newScenario(t, testhelpers.RemoteSceneSetup)

		out, err := s.RunCliIn(".", "clone", s.Scene.RemotePath(), "copy")
		require.NoError(t, err, out)
		require.DirExists(t, filepath.Join(s.Scene.Root, "copy", ".git"))
		require.FileExists(t, filepath.Join(s.Scene.Root, "copy", "1_test.txt"))
	})

	t.Run("clone a registered project", func(t *testing.T) {
		t.Parallel()
		s := newScenario(t, testhelpers.RemoteSceneSetup)
		dest := filepath.Join(s.Scene.Root, "checkout")

		out, err := s.RunCliIn(".", "project", "add", "mirror", dest, "--remote", s.Scene.RemotePath())
		require.NoError(t, err, out)

		out, err = s.RunCliIn(".", "project", "clone", "mirror")
		require.NoError(t, err, out)
		require.DirExists(t, filepath.Join(dest, ".git"))

		out, err = s.RunCliIn(".", "project", "clone", "mirror")
		require.Error(t, err)
		require.Contains(t, out, "already exists")
	})

	t.Run("clone of a missing remote fails", func(t *testing.T) {
		t.Parallel()
		s := newScenario(t, nil)

		out, err := s.RunCliIn(".", "clone", filepath.Join(s.Scene.Root, "missing.git"), "copy")
		require.Error(t, err)
		require.NotEmpty(t, out)
		_, statErr := os.Stat(filepath.Join(s.Scene.Root, "copy", ".git"))
		require.True(t, os.IsNotExist(statErr))
	})
}

func TestInfoCommand(t *testing.T) {
	t.Run("local remote", func(t *testing.T) {
		t.Parallel()
		s := newScenario(t, testhelpers.RemoteSceneSetup).RunGit("branch", "feature")

		out, err := s.RunCliAndGetOutput("info")
		require.NoError(t, err, out)
		require.Contains(t, out, "Remote:")
		require.Contains(t, out, s.Scene.RemotePath())
		require.Contains(t, out, "Current branch:")
		require.Contains(t, out, "main")
		require.NotContains(t, out, "GitHub:")
	})

	t.Run("github remote", func(t *testing.T) {
		t.Parallel()
		config := testhelpers.NewMockGitHubServerConfig()
		config.AddRepo("acme", "site", "main")
		server := testhelpers.NewMockGitHubServer(t, config)

		s := newScenario(t, testhelpers.BasicSceneSetup).
			RunGit("remote", "add", "origin", "https://github.com/acme/site.git").
			WithEnv("GITHUB_TOKEN=test-token", "BRANCHSYNC_GITHUB_API_URL="+server.URL)

		out, err := s.RunCliAndGetOutput("info")
		require.NoError(t, err, out)
		require.Contains(t, out, "GitHub:")
		require.Contains(t, out, "acme/site (public)")
		require.Contains(t, out, "Default branch:")
		require.Contains(t, config.Authorizations(), "Bearer test-token")
	})

	t.Run("github lookup failure is not fatal", func(t *testing.T) {
		t.Parallel()
		server := testhelpers.NewMockGitHubServer(t, nil)

		s := newScenario(t, testhelpers.BasicSceneSetup).
			RunGit("remote", "add", "origin", "https://github.com/acme/gone.git").
			WithEnv("GITHUB_TOKEN=test-token", "BRANCHSYNC_GITHUB_API_URL="+server.URL)

		out, err := s.RunCliAndGetOutput("info")
		require.NoError(t, err, out)
		require.Contains(t, out, "Could not read GitHub metadata")
		require.Contains(t, out, "Current branch:")
	})
}
