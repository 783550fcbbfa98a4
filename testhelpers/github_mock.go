package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// Repos maps "owner/repo" to the repository returned by GET /repos/{owner}/{repo}
	Repos map[string]*github.Repository
	// ErrorResponses maps "owner/repo" to an HTTP status to answer with
	ErrorResponses map[string]int

	mu             sync.Mutex
	authorizations []string
}

// NewMockGitHubServerConfig creates a new mock server config with no repositories
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Repos:          make(map[string]*github.Repository),
		ErrorResponses: make(map[string]int),
	}
}

// AddRepo registers a public repository with the given default branch
func (c *MockGitHubServerConfig) AddRepo(owner, name, defaultBranch string) *github.Repository {
	fullName := owner + "/" + name
	repo := &github.Repository{
		FullName:      github.String(fullName),
		Name:          github.String(name),
		DefaultBranch: github.String(defaultBranch),
		Visibility:    github.String("public"),
		Private:       github.Bool(false),
		Archived:      github.Bool(false),
		HTMLURL:       github.String("https://github.com/" + fullName),
	}
	c.Repos[fullName] = repo
	return repo
}

// Authorizations returns the Authorization headers received so far
func (c *MockGitHubServerConfig) Authorizations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.authorizations...)
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub repositories API.
// Paths are accepted with or without the GitHub Enterprise /api/v3 prefix.
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		config.authorizations = append(config.authorizations, r.Header.Get("Authorization"))
		config.mu.Unlock()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/api/v3")
		fullName := strings.Trim(strings.TrimPrefix(path, "/repos/"), "/")
		if !strings.HasPrefix(path, "/repos/") || strings.Count(fullName, "/") != 1 {
			writeGitHubError(w, http.StatusNotFound, "Not Found")
			return
		}

		if status, ok := config.ErrorResponses[fullName]; ok {
			writeGitHubError(w, status, http.StatusText(status))
			return
		}
		repo, ok := config.Repos[fullName]
		if !ok {
			writeGitHubError(w, http.StatusNotFound, "Not Found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(repo)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func writeGitHubError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
