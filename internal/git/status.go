package git

import (
	"context"
	"fmt"
	"strings"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Status lists files with uncommitted changes, including untracked files.
// Uses `git status --porcelain` since go-git's status mishandles core.autocrlf.
func (c *Client) Status(ctx context.Context, dir string) (Status, error) {
	_, runner, err := c.open(dir)
	if err != nil {
		return Status{}, err
	}

	output, err := runner.RunRaw(ctx, "status", "--porcelain")
	if err != nil {
		return Status{}, bserrors.Plumbing("status", fmt.Errorf("failed to get status: %w", err))
	}

	return Status{Files: parsePorcelain(output)}, nil
}

// parsePorcelain extracts paths from `git status --porcelain` output.
// Format: XY path, or XY old -> new for renames.
func parsePorcelain(output string) []string {
	files := []string{}
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 4 {
			continue
		}
		file := line[3:]
		if _, renamed, ok := strings.Cut(file, " -> "); ok {
			file = renamed
		}
		file = strings.Trim(strings.TrimSpace(file), `"`)
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}
