package runtime_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsync.dev/branchsync/internal/config"
	"branchsync.dev/branchsync/internal/credentials"
	"branchsync.dev/branchsync/internal/project"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/testhelpers"
)

func TestNewContext(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	cfg := config.Default()
	cfg.ProjectsFile = filepath.Join(t.TempDir(), "projects.json")

	var out bytes.Buffer
	rt, err := runtime.NewContext(cfg, runtime.Options{Writer: &out, Credentials: credentials.None})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	require.Equal(t, cfg.ProjectsFile, rt.Projects.Path())
	require.NotNil(t, rt.GitHub)

	_, err = rt.Projects.Add(project.Project{Name: "Site", Path: scene.Dir})
	require.NoError(t, err)

	require.NoError(t, rt.Workflow.CreateBranch(context.Background(), "site", "feature"))
	require.Contains(t, out.String(), "Creating branch feature")

	branch, err := rt.Sync.CurrentBranch(context.Background(), scene.Dir)
	require.NoError(t, err)
	require.Equal(t, "feature", branch)
}

func TestGetContextReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfg := config.Config{PreviewBranch: "staging", ProjectsFile: filepath.Join(dir, "p.json")}
	require.NoError(t, cfg.Save(cfgPath))

	t.Setenv("BRANCHSYNC_CONFIG", cfgPath)
	t.Setenv("BRANCHSYNC_LOG_FILE", filepath.Join(dir, "logs", "branchsync.log"))

	var out bytes.Buffer
	rt, err := runtime.GetContext(runtime.Options{Writer: &out, Credentials: credentials.None})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	require.Equal(t, "staging", rt.Config.PreviewBranch)
	require.Equal(t, filepath.Join(dir, "p.json"), rt.Projects.Path())
}
