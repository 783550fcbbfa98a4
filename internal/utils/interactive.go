package utils

import (
	"os"

	"branchsync.dev/branchsync/internal/output"
)

// IsInteractive reports whether prompts can be shown: stdin and stdout must both be terminals.
// BRANCHSYNC_NON_INTERACTIVE forces non-interactive mode.
func IsInteractive() bool {
	if os.Getenv("BRANCHSYNC_NON_INTERACTIVE") != "" {
		return false
	}
	return output.IsTerminal(os.Stdin) && output.IsTerminal(os.Stdout)
}
