// Package testhelpers provides shared test utilities for CLI packages.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	binaryOnce       sync.Once
	binaryErr        error
)

// GetSharedBinaryPath returns the shared binary path, building it if necessary.
// Safe to call from any test package; the binary is built at most once per process.
func GetSharedBinaryPath() string {
	binaryOnce.Do(func() {
		if sharedBinaryPath != "" {
			return
		}
		path, _, err := buildBinary()
		if err != nil {
			binaryErr = err
			return
		}
		sharedBinaryPath = path
	})
	return sharedBinaryPath
}

// GetBinaryError returns any error that occurred during binary building.
func GetBinaryError() error {
	return binaryErr
}

// TestMain builds the branchsync binary once, runs the package's tests and removes the binary.
func TestMain(m *testing.M, cleanup func()) {
	binaryPath, binaryCleanup, err := buildBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build branchsync binary: %v\n", err)
		os.Exit(1)
	}
	sharedBinaryPath = binaryPath

	code := m.Run()

	binaryCleanup()
	if cleanup != nil {
		cleanup()
	}
	os.Exit(code)
}

// buildBinary builds ./cmd/branchsync into a temp directory
func buildBinary() (string, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", nil, fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "branchsync-test-binary-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() {
		_ = os.RemoveAll(tmpDir) // Ignore cleanup errors
	}

	binaryPath := filepath.Join(tmpDir, "branchsync")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/branchsync")
	cmd.Dir = moduleRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to build: %s: %w", string(output), err)
	}

	return binaryPath, cleanup, nil
}

// findModuleRoot walks up the directory tree from startDir to find the directory containing go.mod
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// BinaryEnv returns an environment isolating the binary from the user's
// configuration, logs and GitHub credentials. State lives under home.
func BinaryEnv(home string) []string {
	env := []string{}
	for _, kv := range os.Environ() {
		switch {
		case hasKey(kv, "GITHUB_TOKEN"), hasKey(kv, "GH_TOKEN"), hasKey(kv, "GH_CONFIG_DIR"), hasKey(kv, "HOME"),
			hasKey(kv, "BRANCHSYNC_CONFIG"), hasKey(kv, "BRANCHSYNC_PROJECTS_FILE"), hasKey(kv, "BRANCHSYNC_LOG_FILE"):
			continue
		}
		env = append(env, kv)
	}
	return append(env,
		"HOME="+home,
		"GH_CONFIG_DIR="+filepath.Join(home, "gh"),
		"BRANCHSYNC_CONFIG="+filepath.Join(home, "config.json"),
		"BRANCHSYNC_PROJECTS_FILE="+filepath.Join(home, "projects.json"),
		"BRANCHSYNC_LOG_FILE="+filepath.Join(home, "branchsync.log"),
		"NO_COLOR=1",
	)
}

func hasKey(kv, key string) bool {
	return len(kv) > len(key) && kv[:len(key)+1] == key+"="
}
