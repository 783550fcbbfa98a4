package cli

import (
	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/runtime"
)

// newPreviewCmd creates the preview command
func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Manage the preview branch",
		Long: `Manage the preview branch, the integration branch kept alongside the base branch.

The branch is named "preview" unless configured otherwise (see branchsync config).`,
	}

	cmd.AddCommand(newPreviewEnsureCmd())
	cmd.AddCommand(newPreviewPullCmd())

	return cmd
}

// newPreviewEnsureCmd creates the preview ensure command
func newPreviewEnsureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Check out the preview branch, creating and publishing it if needed",
		Long: `Check out the preview branch. When it exists neither locally nor on the remote,
it is created from the first base branch found (main, then master) and pushed
to the remote when credentials are available. A failed push is only a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				result, err := common.OnRepo(cmd, ctx.Workflow.EnsurePreviewBranch, ctx.Sync.EnsurePreviewBranch)
				if err != nil {
					return err
				}

				ctx.Splog.Info("%s is checked out.", ctx.Style.Highlight(result.Branch))
				if result.PublishSkipped() {
					ctx.Splog.Info("Run 'branchsync push %s' once a remote and credentials are available.", result.Branch)
				}
				return nil
			})
		},
	}
}

// newPreviewPullCmd creates the preview pull command
func newPreviewPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Merge the remote preview branch into the current branch",
		Long: `Fetch the preview branch from the remote and merge it into the current branch.
A conflicting merge is aborted and the working copy is left as it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return common.Do(cmd, ctx.Workflow.PullFromPreview, ctx.Sync.PullFromPreview)
			})
		},
	}
}
