package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/engine"
	"branchsync.dev/branchsync/internal/github"
	"branchsync.dev/branchsync/internal/runtime"
	"branchsync.dev/branchsync/internal/utils"
)

// newInfoCmd creates the info command
func newInfoCmd() *cobra.Command {
	var (
		offline bool
		web     bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the repository's remote and branches",
		Long: `Show the remote, the current branch and the known branches.

For GitHub remotes the repository's default branch and visibility are looked
up as well when a token is available. Pass --offline to skip the lookup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				repo, err := common.OnRepo(cmd, ctx.Workflow.RepositoryInfo, ctx.Sync.RepositoryInfo)
				if err != nil {
					return err
				}

				var meta *github.Metadata
				if !offline && repo.RemoteURL != "" {
					meta, err = ctx.GitHub.RepositoryMetadata(cmd.Context(), repo.RemoteURL)
					switch {
					case errors.Is(err, github.ErrNotGitHubRemote), errors.Is(err, github.ErrNoToken):
						ctx.Splog.Debug("Skipping GitHub lookup: %v", err)
					case err != nil:
						ctx.Splog.Warn("Could not read GitHub metadata: %v", err)
					}
				}

				if web {
					if meta == nil || meta.HTMLURL == "" {
						return fmt.Errorf("no GitHub page known for %s", repo.RemoteURL)
					}
					return utils.OpenBrowser(cmd.Context(), meta.HTMLURL)
				}
				return printInfo(cmd.OutOrStdout(), repo, meta)
			})
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Do not query the GitHub API")
	cmd.Flags().BoolVarP(&web, "web", "w", false, "Open the repository's GitHub page in a browser")
	cmd.MarkFlagsMutuallyExclusive("offline", "web")

	return cmd
}

func printInfo(out io.Writer, repo engine.Repository, meta *github.Metadata) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	remoteURL := repo.RemoteURL
	if remoteURL == "" {
		remoteURL = "(none)"
	}
	current := repo.CurrentBranch
	if current == "" {
		current = "(detached)"
	}

	_, _ = fmt.Fprintf(w, "Remote:\t%s %s\n", repo.Remote, remoteURL)
	_, _ = fmt.Fprintf(w, "Current branch:\t%s\n", current)
	_, _ = fmt.Fprintf(w, "Branches:\t%d\n", len(repo.Branches))
	if meta != nil {
		_, _ = fmt.Fprintf(w, "GitHub:\t%s (%s)\n", meta.FullName, meta.Visibility)
		_, _ = fmt.Fprintf(w, "Default branch:\t%s\n", meta.DefaultBranch)
		if meta.Archived {
			_, _ = fmt.Fprintf(w, "Archived:\tyes\n")
		}
	}
	return w.Flush()
}
