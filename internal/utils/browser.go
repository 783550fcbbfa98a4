package utils

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
)

// OpenBrowser opens url with the platform's default handler
func OpenBrowser(ctx context.Context, url string) error {
	if url == "" {
		return errors.New("no URL to open")
	}
	name, args := browserCommand(runtime.GOOS, url)
	return exec.CommandContext(ctx, name, args...).Run()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", url}
	default:
		return "xdg-open", []string{url}
	}
}
