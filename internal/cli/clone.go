package cli

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"branchsync.dev/branchsync/internal/cli/common"
	"branchsync.dev/branchsync/internal/runtime"
)

// newCloneCmd creates the clone command
func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <url> [directory]",
		Short: "Clone a repository",
		Long: `Clone a repository into directory, which defaults to the last path element of the URL.

HTTPS remotes are authenticated with GITHUB_TOKEN, GH_TOKEN or the gh CLI when available.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				dir := cloneDirName(args[0])
				if len(args) > 1 {
					dir = args[1]
				}
				if dir == "" {
					return fmt.Errorf("cannot derive a directory name from %s", args[0])
				}
				if err := ctx.Sync.Clone(cmd.Context(), args[0], dir); err != nil {
					return err
				}
				ctx.Splog.Info("Cloned into %s", dir)
				return nil
			})
		},
	}

	return cmd
}

// cloneDirName mirrors git's default: the URL's last path element without ".git"
func cloneDirName(url string) string {
	url = strings.TrimRight(url, "/")
	name := strings.TrimSuffix(path.Base(strings.ReplaceAll(url, ":", "/")), ".git")
	if name == "." || name == "/" {
		return ""
	}
	return name
}
