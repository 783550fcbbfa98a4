// Package scenario provides a high-level test scenario that combines a Scene
// and the branchsync binary to provide a terse API for CLI tests.
package scenario

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/testhelpers"
)

// Scenario represents a high-level test scenario: a Scene plus an isolated
// home directory for the binary's config, project registry and logs.
type Scenario struct {
	T          *testing.T
	Scene      *testhelpers.Scene
	Home       string
	BinaryPath string
	env        []string
}

// NewScenario creates a new Scenario with an optional setup function.
// Safe for parallel tests; nothing global is modified.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()
	return &Scenario{
		T:     t,
		Scene: testhelpers.NewScene(t, setup),
		Home:  t.TempDir(),
	}
}

// WithBinaryPath sets the path to the branchsync binary for RunCli methods.
func (s *Scenario) WithBinaryPath(path string) *Scenario {
	s.BinaryPath = path
	return s
}

// WithEnv adds KEY=VALUE pairs to the binary's environment.
func (s *Scenario) WithEnv(kv ...string) *Scenario {
	s.env = append(s.env, kv...)
	return s
}

// WithUncommittedChange creates an uncommitted change in the repository.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChange("unstaged content", name, true)
	require.NoError(s.T, err)
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand(args...)
	require.NoError(s.T, err)
	return s
}

// Checkout checks out an existing branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CheckoutBranch(branch)
	require.NoError(s.T, err)
	return s
}

// CreateBranch creates and checks out a new branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateAndCheckoutBranch(name)
	require.NoError(s.T, err)
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit(message, name)
	require.NoError(s.T, err)
	return s
}

// Publish pushes branch to the scene's origin remote.
func (s *Scenario) Publish(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.PushBranch("origin", branch)
	require.NoError(s.T, err)
	return s
}

func (s *Scenario) command(dir string, args []string) *exec.Cmd {
	s.T.Helper()
	if s.BinaryPath == "" {
		s.T.Fatal("BinaryPath not set. Call WithBinaryPath first.")
	}
	cmd := exec.Command(s.BinaryPath, args...)
	cmd.Dir = dir
	cmd.Env = append(testhelpers.BinaryEnv(s.Home), "BRANCHSYNC_NON_INTERACTIVE=true")
	cmd.Env = append(cmd.Env, s.env...)
	return cmd
}

// RunCli executes a branchsync command in the repository and requires it to succeed.
func (s *Scenario) RunCli(args ...string) *Scenario {
	s.T.Helper()
	output, err := s.command(s.Scene.Dir, args).CombinedOutput()
	require.NoError(s.T, err, "CLI command failed: branchsync %v\nOutput: %s", args, string(output))
	return s
}

// RunCliAndGetOutput executes a branchsync command in the repository and returns its output.
func (s *Scenario) RunCliAndGetOutput(args ...string) (string, error) {
	s.T.Helper()
	output, err := s.command(s.Scene.Dir, args).CombinedOutput()
	return string(output), err
}

// RunCliIn executes a branchsync command in dir, relative to the scene root, and returns its output.
func (s *Scenario) RunCliIn(dir string, args ...string) (string, error) {
	s.T.Helper()
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.Scene.Root, dir)
	}
	output, err := s.command(dir, args).CombinedOutput()
	return string(output), err
}

// RunExpectError executes a branchsync command and expects it to fail. Returns the output.
func (s *Scenario) RunExpectError(args ...string) string {
	s.T.Helper()
	output, err := s.command(s.Scene.Dir, args).CombinedOutput()
	require.Error(s.T, err, "expected CLI command to fail: branchsync %v\nOutput: %s", args, string(output))
	return string(output)
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}
