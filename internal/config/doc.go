// Package config manages branchsync configuration.
//
// It handles:
//   - User configuration (~/.branchsync/config.json) with environment overrides
//   - Repository-specific overrides stored in .git/.branchsync_config
package config
