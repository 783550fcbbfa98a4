package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/utils"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create <branch>",
		Aliases: []string{"c"},
		Short:   "Create a branch from HEAD and switch to it",
		Long: `Create a branch from the current HEAD and switch to it.

Branch names may only contain letters, digits, '.', '-' and '_'. A name that
already exists locally or on the remote is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				err := common.Do(cmd,
					func(c context.Context, id string) error { return ctx.Workflow.CreateBranch(c, id, name) },
					func(c context.Context, path string) error { return ctx.Sync.CreateBranch(c, path, name) },
				)
				if errors.Is(err, bserrors.ErrInvalidArgument) {
					if suggestion := utils.SanitizeBranchName(name); suggestion != "" && suggestion != name {
						ctx.Splog.Info("Try: branchsync create %s", suggestion)
					}
				}
				return err
			})
		},
	}

	return cmd
}
