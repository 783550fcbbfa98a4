// Package common provides shared helper functions for CLI commands.
package common

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/config"
	"branchsync.dev/branchsync/internal/credentials"
	"branchsync.dev/branchsync/internal/engine"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/internal/project"
	"branchsync.dev/branchsync/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	ctx, err := runtime.GetContext(runtime.Options{
		Writer: cmd.OutOrStdout(),
		Quiet:  quiet,
		Debug:  debug,
	})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()

	return fn(ctx)
}

// ProjectID returns the --project flag, or "" when commands should act on the working directory
func ProjectID(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("project")
	return id
}

// RepoPath returns the root of the repository containing the working directory
func RepoPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return git.RepoRoot(wd)
}

// OnRepo runs viaProject when --project is set and viaPath against the
// working directory's repository otherwise
func OnRepo[T any](cmd *cobra.Command, viaProject func(ctx context.Context, id string) (T, error), viaPath func(ctx context.Context, path string) (T, error)) (T, error) {
	if id := ProjectID(cmd); id != "" {
		return viaProject(cmd.Context(), id)
	}
	path, err := RepoPath()
	if err != nil {
		var zero T
		return zero, err
	}
	return viaPath(cmd.Context(), path)
}

// Do is OnRepo for operations without a result
func Do(cmd *cobra.Command, viaProject func(ctx context.Context, id string) error, viaPath func(ctx context.Context, path string) error) error {
	_, err := OnRepo(cmd,
		func(ctx context.Context, id string) (struct{}, error) { return struct{}{}, viaProject(ctx, id) },
		func(ctx context.Context, path string) (struct{}, error) { return struct{}{}, viaPath(ctx, path) },
	)
	return err
}

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names of the working directory's repository.
func CompleteBranches(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	path, err := RepoPath()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	sync, err := engine.NewSynchronizer(engine.Deps{Git: git.NewClient(), Credentials: credentials.None})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	listing, err := sync.ListBranches(context.Background(), path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return listing.Branches, cobra.ShellCompDirectiveNoFileComp
}

// CompleteProjects returns the registered project ids
func CompleteProjects(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	projects, err := project.NewStore(cfg.ProjectsFile).List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
