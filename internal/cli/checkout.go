package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/engine"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/utils"
)

// newCheckoutCmd creates the checkout command
func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkout [branch]",
		Aliases: []string{"co"},
		Short:   "Switch to a branch. If no branch is provided, opens an interactive selector.",
		Long: `Switch to a branch. If no branch is provided, opens an interactive selector.

A local branch wins over a remote one. A branch that only exists on the remote
is checked out as a new local branch tracking it.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				branchName := ""
				if len(args) > 0 {
					branchName = args[0]
				}

				if branchName == "" {
					listing, err := common.OnRepo(cmd, ctx.Workflow.ListBranches, ctx.Sync.ListBranches)
					if err != nil {
						return err
					}
					branchName, err = selectBranch(listing)
					if err != nil {
						return err
					}
				}

				err := common.Do(cmd,
					func(c context.Context, id string) error { return ctx.Workflow.CheckoutBranch(c, id, branchName) },
					func(c context.Context, path string) error { return ctx.Sync.CheckoutBranch(c, path, branchName) },
				)
				if err != nil {
					return err
				}
				ctx.Splog.Info("Checked out %s.", ctx.Style.Highlight(branchName))
				return nil
			})
		},
	}

	return cmd
}

// selectBranch asks the user to pick a branch other than the current one
func selectBranch(listing engine.BranchListing) (string, error) {
	if !utils.IsInteractive() {
		return "", fmt.Errorf("no branch specified and not running interactively")
	}

	options := make([]string, 0, len(listing.Branches))
	for _, name := range listing.Branches {
		if name != listing.CurrentBranch {
			options = append(options, name)
		}
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no other branches to check out")
	}

	var selected string
	prompt := &survey.Select{
		Message: "Checkout a branch:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", fmt.Errorf("branch selection cancelled: %w", err)
	}
	return selected, nil
}
