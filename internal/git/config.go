package git

import (
	"context"
	"fmt"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// GetConfig reads a config value such as "remote.origin.url".
// An unset key yields "" and no error.
func (c *Client) GetConfig(ctx context.Context, dir, path string) (string, error) {
	_, runner, err := c.open(dir)
	if err != nil {
		return "", err
	}

	value, err := runner.Run(ctx, "config", "--get", path)
	if err != nil {
		// git config exits 1 when the key is not set
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", bserrors.Plumbing("get config", fmt.Errorf("failed to read %s: %w", path, err))
	}
	return value, nil
}

// SetConfig writes a local config value
func (c *Client) SetConfig(ctx context.Context, dir, path, value string) error {
	_, runner, err := c.open(dir)
	if err != nil {
		return err
	}

	if _, err := runner.Run(ctx, "config", path, value); err != nil {
		return bserrors.Plumbing("set config", fmt.Errorf("failed to write %s: %w", path, err))
	}
	return nil
}
