package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/utils"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "push <target>",
		Short: "Push the current branch to a branch on the remote",
		Long: `Push the current branch to target on the remote. The push is never forced;
the remote rejects it when target has commits the current branch lacks.

You are asked to confirm when running interactively unless --yes is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				if !yes && utils.IsInteractive() {
					confirmed := false
					prompt := &survey.Confirm{
						Message: fmt.Sprintf("Push the current branch to %s?", target),
						Default: true,
					}
					if err := survey.AskOne(prompt, &confirmed); err != nil {
						return err
					}
					if !confirmed {
						ctx.Splog.Info("Push cancelled.")
						return nil
					}
				}

				err := common.Do(cmd,
					func(c context.Context, id string) error { return ctx.Workflow.PushToBranch(c, id, target) },
					func(c context.Context, path string) error { return ctx.Sync.PushToBranch(c, path, target) },
				)
				if err != nil {
					return err
				}
				ctx.Splog.Info("Pushed to %s.", ctx.Style.Highlight(target))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
