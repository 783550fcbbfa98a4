package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/runtime"
)

// newBranchesCmd creates the branches command
func newBranchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"ls"},
		Short:   "List local and remote branches",
		Long: `List the union of local branches and the branches known for the remote.
The current branch is marked with an asterisk; branches that only exist on the remote are dimmed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				listing, err := common.OnRepo(cmd, ctx.Workflow.ListBranches, ctx.Sync.ListBranches)
				if err != nil {
					return err
				}
				for _, name := range listing.Branches {
					remoteOnly := !slices.Contains(listing.LocalBranches, name)
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), ctx.Style.Branch(name, name == listing.CurrentBranch, remoteOnly))
				}
				return nil
			})
		},
	}

	return cmd
}

// newRemoteBranchesCmd creates the remote-branches command
func newRemoteBranchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote-branches",
		Short: "List the branches currently on the remote",
		Long:  `Ask the remote for its branches without fetching. Unlike branches, this does not rely on remote-tracking refs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				names, err := common.OnRepo(cmd, ctx.Workflow.ListRemoteBranches, ctx.Sync.ListRemoteBranches)
				if err != nil {
					return err
				}
				for _, name := range names {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}

	return cmd
}

// newCurrentCmd creates the current command
func newCurrentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Print the checked out branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				branch, err := common.OnRepo(cmd, ctx.Workflow.CurrentBranch, ctx.Sync.CurrentBranch)
				if err != nil {
					return err
				}
				if branch == "" {
					ctx.Splog.Warn("HEAD is detached")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), branch)
				return nil
			})
		},
	}

	return cmd
}
