package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
	// Root is the temporary directory holding the repo and any sibling remotes or clones.
	Root string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a fresh repository on main.
// Cleanup is handled by t.TempDir. Safe for parallel tests.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "repo")

	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  dir,
		Repo: repo,
		Root: root,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// Clone clones the scene's remote into a sibling directory, giving a second working copy.
func (s *Scene) Clone(t *testing.T, remotePath, name string) *GitRepo {
	t.Helper()
	repo, err := CloneGitRepo(remotePath, filepath.Join(s.Root, name))
	if err != nil {
		t.Fatalf("Failed to clone: %v", err)
	}
	return repo
}

// WriteFile writes a file into the working copy without staging it.
func (s *Scene) WriteFile(t *testing.T, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(s.Dir, name), []byte(contents), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// RemoteSceneSetup creates a commit on main and publishes it to a bare "origin" remote.
func RemoteSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	if _, err := scene.Repo.CreateBareRemote("origin"); err != nil {
		return err
	}
	return scene.Repo.PushBranch("origin", "main")
}

// RemotePath returns the bare remote path created by RemoteSceneSetup.
func (s *Scene) RemotePath() string {
	return s.Dir + "-origin.git"
}
