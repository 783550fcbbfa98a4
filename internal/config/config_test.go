package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func TestLoadFile(t *testing.T) {
	t.Run("returns defaults when file does not exist", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)
		require.Equal(t, DefaultPreviewBranch, cfg.PreviewBranch)
		require.Equal(t, []string{"main", "master"}, cfg.BaseBranches)
		require.Equal(t, DefaultRemote, cfg.Remote)
	})

	t.Run("overlays values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"previewBranch":"staging","baseBranches":["trunk"]}`), 0600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		require.Equal(t, "staging", cfg.PreviewBranch)
		require.Equal(t, []string{"trunk"}, cfg.BaseBranches)
		require.Equal(t, DefaultRemote, cfg.Remote)
	})

	t.Run("fails on malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0600))

		_, err := LoadFile(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse config")
	})
}

func TestLoadAppliesEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BRANCHSYNC_CONFIG", filepath.Join(dir, "config.json"))
	t.Setenv("BRANCHSYNC_PREVIEW_BRANCH", "qa")
	t.Setenv("BRANCHSYNC_REMOTE", "upstream")
	t.Setenv("DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "qa", cfg.PreviewBranch)
	require.Equal(t, "upstream", cfg.Remote)
	require.True(t, cfg.Debug)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.PreviewBranch = "integration"

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "integration", loaded.PreviewBranch)
}

func TestForRepo(t *testing.T) {
	t.Run("no repo config keeps base values", func(t *testing.T) {
		root := t.TempDir()
		cfg, err := Default().ForRepo(root)
		require.NoError(t, err)
		require.Equal(t, DefaultPreviewBranch, cfg.PreviewBranch)
	})

	t.Run("repo config overrides preview branch", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0750))
		require.NoError(t, SetPreviewBranch(root, "staging"))

		repoCfg, err := GetRepoConfig(root)
		require.NoError(t, err)
		require.Equal(t, stringPtr("staging"), repoCfg.PreviewBranch)

		cfg, err := Default().ForRepo(root)
		require.NoError(t, err)
		require.Equal(t, "staging", cfg.PreviewBranch)
		require.Equal(t, []string{"main", "master"}, cfg.BaseBranches)
	})

	t.Run("set fails when root is missing", func(t *testing.T) {
		err := SetPreviewBranch(filepath.Join(t.TempDir(), "nope"), "staging")
		require.Error(t, err)
		require.Contains(t, err.Error(), "repository root does not exist")
	})
}
