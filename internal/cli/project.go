package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/project"
	"branchsync.dev/branchsync/internal/runtime"
)

// newProjectCmd creates the project command
func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage registered projects",
		Long: `Manage the projects branchsync knows about.

A project binds an id to a working copy path and, optionally, the URL it is cloned from.

Examples:
  branchsync project add "Marketing site" ~/src/site --remote https://github.com/acme/site.git
  branchsync project clone marketing-site
  branchsync --project marketing-site branches`,
	}

	cmd.AddCommand(newProjectAddCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectRemoveCmd())
	cmd.AddCommand(newProjectCloneCmd())

	return cmd
}

// newProjectAddCmd creates the project add command
func newProjectAddCmd() *cobra.Command {
	var (
		id        string
		remoteURL string
	)

	cmd := &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				path, err := filepath.Abs(args[1])
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", args[1], err)
				}

				p, err := ctx.Projects.Add(project.Project{
					ID:        id,
					Name:      args[0],
					Path:      path,
					RemoteURL: remoteURL,
				})
				if err != nil {
					return err
				}
				ctx.Splog.Info("Added project %s (%s)", ctx.Style.Highlight(p.ID), p.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Project id (derived from the name by default)")
	cmd.Flags().StringVar(&remoteURL, "remote", "", "URL the project is cloned from")

	return cmd
}

// newProjectListCmd creates the project list command
func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				projects, err := ctx.Projects.List()
				if err != nil {
					return err
				}
				if len(projects) == 0 {
					ctx.Splog.Info("No projects registered.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, p := range projects {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Path, p.RemoteURL)
				}
				return w.Flush()
			})
		},
	}
}

// newProjectRemoveCmd creates the project remove command
func newProjectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <id>",
		Aliases:           []string{"rm"},
		Short:             "Unregister a project. The working copy is kept.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				if err := ctx.Projects.Remove(args[0]); err != nil {
					return err
				}
				ctx.Splog.Info("Removed project %s", args[0])
				return nil
			})
		},
	}
}

// newProjectCloneCmd creates the project clone command
func newProjectCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "clone <id>",
		Short:             "Clone a project's remote into its registered path",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return ctx.Workflow.CloneProject(cmd.Context(), args[0])
			})
		},
	}
}
