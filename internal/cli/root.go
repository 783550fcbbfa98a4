package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "branchsync",
		Short: "Keep a preview branch in sync with your working branches",
		Long: `branchsync manages the branches of registered projects or of the repository
in the current directory: listing, creating and checking out branches, keeping
a preview branch alive, merging it back and pushing work to other branches.

Most commands act on the current repository. Pass --project to act on a
registered project instead.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("project", "p", "", "Act on the registered project with this id")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug output")
	_ = rootCmd.RegisterFlagCompletionFunc("project", common.CompleteProjects)

	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newBranchesCmd())
	rootCmd.AddCommand(newRemoteBranchesCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newCurrentCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
