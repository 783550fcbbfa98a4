// Package github reads repository metadata from the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"branchsync.dev/branchsync/internal/credentials"
)

// ErrNoToken is returned when no GitHub token is available
var ErrNoToken = errors.New("no GitHub token available")

// Metadata describes a GitHub repository
type Metadata struct {
	FullName      string
	DefaultBranch string
	Visibility    string
	Private       bool
	Archived      bool
	HTMLURL       string
}

// Client fetches repository metadata. Tokens are read on every call.
type Client struct {
	creds credentials.Provider
	// baseURL overrides the API endpoint derived from the remote's host
	baseURL string
}

// NewClient creates a new Client.
// BRANCHSYNC_GITHUB_API_URL overrides the API endpoint for every host.
func NewClient(creds credentials.Provider) *Client {
	return &Client{creds: creds, baseURL: strings.TrimSpace(os.Getenv("BRANCHSYNC_GITHUB_API_URL"))}
}

// RepositoryMetadata looks up the repository a remote URL points at
func (c *Client) RepositoryMetadata(ctx context.Context, remoteURL string) (*Metadata, error) {
	info, err := ParseGitHubRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	token, ok := c.creds.Token(ctx)
	if !ok {
		return nil, ErrNoToken
	}

	client, err := c.createGitHubClient(ctx, info.Hostname, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	repo, _, err := client.Repositories.Get(ctx, info.Owner, info.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", info.Owner, info.Repo, err)
	}

	return &Metadata{
		FullName:      repo.GetFullName(),
		DefaultBranch: repo.GetDefaultBranch(),
		Visibility:    repo.GetVisibility(),
		Private:       repo.GetPrivate(),
		Archived:      repo.GetArchived(),
		HTMLURL:       repo.GetHTMLURL(),
	}, nil
}

// createGitHubClient creates an authenticated client for hostname
func (c *Client) createGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	switch {
	case c.baseURL != "":
		baseURL, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL %s: %w", c.baseURL, err)
		}
		client.BaseURL = baseURL
	case hostname != "github.com":
		// GitHub Enterprise API endpoints
		// REST API: https://hostname/api/v3/
		// Upload API: https://hostname/api/uploads/
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return client, nil
}
