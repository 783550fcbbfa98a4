package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfig represents the per-repository overrides
type RepoConfig struct {
	PreviewBranch *string  `json:"previewBranch,omitempty"`
	BaseBranches  []string `json:"baseBranches,omitempty"`
	Remote        *string  `json:"remote,omitempty"`
}

func repoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", ".branchsync_config")
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(repoConfigPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// ForRepo returns c with the overrides stored in repoRoot applied
func (c Config) ForRepo(repoRoot string) (Config, error) {
	repoCfg, err := GetRepoConfig(repoRoot)
	if err != nil {
		return Config{}, err
	}

	if repoCfg.PreviewBranch != nil && *repoCfg.PreviewBranch != "" {
		c.PreviewBranch = *repoCfg.PreviewBranch
	}
	if len(repoCfg.BaseBranches) > 0 {
		c.BaseBranches = append([]string(nil), repoCfg.BaseBranches...)
	}
	if repoCfg.Remote != nil && *repoCfg.Remote != "" {
		c.Remote = *repoCfg.Remote
	}
	return c, nil
}

// SetPreviewBranch updates the preview branch override in the repo config
func SetPreviewBranch(repoRoot string, branchName string) error {
	// Validate repo root exists
	if _, err := os.Stat(repoRoot); err != nil {
		return fmt.Errorf("repository root does not exist: %w", err)
	}

	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	config.PreviewBranch = &branchName

	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(repoConfigPath(repoRoot), configJSON, 0600)
}
