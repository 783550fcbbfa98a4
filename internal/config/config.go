package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultPreviewBranch is the integration branch kept in sync with the base branch
	DefaultPreviewBranch = "preview"

	// DefaultRemote is the remote used for fetch and push
	DefaultRemote = "origin"

	configDirName  = ".branchsync"
	configFileName = "config.json"
)

// DefaultBaseBranches lists the base branch candidates in the order they are tried
var DefaultBaseBranches = []string{"main", "master"}

// Config represents the user configuration
type Config struct {
	PreviewBranch string   `json:"previewBranch,omitempty"`
	BaseBranches  []string `json:"baseBranches,omitempty"`
	Remote        string   `json:"remote,omitempty"`
	ProjectsFile  string   `json:"projectsFile,omitempty"`
	Debug         bool     `json:"debug,omitempty"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		PreviewBranch: DefaultPreviewBranch,
		BaseBranches:  append([]string(nil), DefaultBaseBranches...),
		Remote:        DefaultRemote,
		ProjectsFile:  filepath.Join(Dir(), "projects.json"),
	}
}

// Dir returns the branchsync state directory (~/.branchsync).
// Falls back to the current directory if the home directory is unknown.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(homeDir, configDirName)
}

// Path returns the user config file path.
// If BRANCHSYNC_CONFIG is set, uses that path.
func Path() string {
	if customPath := os.Getenv("BRANCHSYNC_CONFIG"); customPath != "" {
		return customPath
	}
	return filepath.Join(Dir(), configFileName)
}

// Load reads the user config from Path() and applies environment overrides
func Load() (Config, error) {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Config{}, err
	}
	return cfg.withEnv(), nil
}

// LoadFile reads a config file, filling unset fields with defaults.
// A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg.merge(fileCfg), nil
}

// Save writes the config as indented JSON, creating the parent directory
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, configJSON, 0600)
}

// merge overlays the non-zero fields of other onto c
func (c Config) merge(other Config) Config {
	if other.PreviewBranch != "" {
		c.PreviewBranch = other.PreviewBranch
	}
	if len(other.BaseBranches) > 0 {
		c.BaseBranches = append([]string(nil), other.BaseBranches...)
	}
	if other.Remote != "" {
		c.Remote = other.Remote
	}
	if other.ProjectsFile != "" {
		c.ProjectsFile = other.ProjectsFile
	}
	if other.Debug {
		c.Debug = true
	}
	return c
}

func (c Config) withEnv() Config {
	if v := strings.TrimSpace(os.Getenv("BRANCHSYNC_PREVIEW_BRANCH")); v != "" {
		c.PreviewBranch = v
	}
	if v := strings.TrimSpace(os.Getenv("BRANCHSYNC_REMOTE")); v != "" {
		c.Remote = v
	}
	if v := strings.TrimSpace(os.Getenv("BRANCHSYNC_PROJECTS_FILE")); v != "" {
		c.ProjectsFile = v
	}
	if os.Getenv("DEBUG") != "" {
		c.Debug = true
	}
	return c
}
