package github

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotGitHubRemote is returned for remotes that are not hosted on a GitHub-like server,
// such as local paths
var ErrNotGitHubRemote = errors.New("not a GitHub remote")

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseGitHubRemoteURL parses a git remote URL and extracts hostname, owner, and repo
// Supports both github.com and GitHub Enterprise URLs
// Examples:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.com/owner/repo.git
//   - https://github.company.com/owner/repo.git
func ParseGitHubRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, "/")
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, path string

	switch {
	case strings.HasPrefix(remoteURL, "https://"), strings.HasPrefix(remoteURL, "http://"), strings.HasPrefix(remoteURL, "ssh://"):
		// Scheme format: scheme://[user@]hostname[:port]/owner/repo
		rest := remoteURL[strings.Index(remoteURL, "://")+3:]
		if _, afterUser, ok := strings.Cut(rest, "@"); ok {
			rest = afterUser
		}
		host, p, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, fmt.Errorf("invalid remote URL %q: missing path", remoteURL)
		}
		hostname, _, _ = strings.Cut(host, ":")
		path = p
	case strings.Contains(remoteURL, "@"):
		// SCP format: git@hostname:owner/repo
		_, hostAndPath, _ := strings.Cut(remoteURL, "@")
		host, p, ok := strings.Cut(hostAndPath, ":")
		if !ok {
			return nil, fmt.Errorf("invalid SSH remote URL %q: missing ':'", remoteURL)
		}
		hostname = host
		path = p
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotGitHubRemote, remoteURL)
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid remote URL %q: path must be owner/repo", remoteURL)
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL %q", remoteURL)
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}
