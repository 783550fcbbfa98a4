package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/config"
	"branchsync.dev/branchsync/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: `Get and set configuration values of the current repository.

Examples:
  branchsync config get preview-branch
  branchsync config set preview-branch staging
  branchsync config get base-branches`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"preview-branch", "base-branches", "remote"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				repoRoot, err := common.RepoPath()
				if err != nil {
					return fmt.Errorf("not a git repository: %w", err)
				}
				cfg, err := ctx.Config.ForRepo(repoRoot)
				if err != nil {
					return err
				}

				key := args[0]
				switch key {
				case "preview-branch":
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), cfg.PreviewBranch)
				case "base-branches":
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(cfg.BaseBranches, ","))
				case "remote":
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), cfg.Remote)
				default:
					return fmt.Errorf("unknown configuration key: %s", key)
				}
				return nil
			})
		},
	}

	return cmd
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"preview-branch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				repoRoot, err := common.RepoPath()
				if err != nil {
					return fmt.Errorf("not a git repository: %w", err)
				}

				key, value := args[0], strings.TrimSpace(args[1])
				switch key {
				case "preview-branch":
					if value == "" {
						return fmt.Errorf("preview-branch must not be empty")
					}
					if err := config.SetPreviewBranch(repoRoot, value); err != nil {
						return fmt.Errorf("failed to set preview-branch: %w", err)
					}
					ctx.Splog.Info("Set preview-branch to %s", ctx.Style.Highlight(value))
				default:
					return fmt.Errorf("unknown configuration key: %s", key)
				}
				return nil
			})
		},
	}

	return cmd
}
