package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// oauthBasicPassword is the password GitHub expects alongside a token used as username
const oauthBasicPassword = "x-oauth-basic"

// Auth holds HTTP basic credentials for remote operations
type Auth struct {
	Username string
	Password string
}

// TokenAuth builds token credentials for HTTPS remotes.
// Returns nil for an empty token, meaning unauthenticated access.
func TokenAuth(token string) *Auth {
	if token == "" {
		return nil
	}
	return &Auth{Username: token, Password: oauthBasicPassword}
}

// method converts the credentials into a go-git auth method for url.
// Basic auth only applies to http(s) endpoints; other transports use their own credentials.
func (a *Auth) method(url string) transport.AuthMethod {
	if a == nil {
		return nil
	}
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil
	}
	if ep.Protocol != "http" && ep.Protocol != "https" {
		return nil
	}
	return &http.BasicAuth{Username: a.Username, Password: a.Password}
}

// BranchOptions describes a branch to create
type BranchOptions struct {
	Name string
	// StartPoint is any revision; empty means HEAD.
	StartPoint string
	// Upstream, when set, is recorded as the tracking branch (e.g. "origin/feature").
	Upstream string
	// Checkout switches the working copy to the new branch.
	Checkout bool
}

// Status is the working tree state
type Status struct {
	Files []string
}

// Clean reports whether there are no uncommitted changes
func (s Status) Clean() bool {
	return len(s.Files) == 0
}

// FetchOptions describes a single-branch fetch
type FetchOptions struct {
	Remote string
	URL    string
	Ref    string
	Auth   *Auth
}

// MergeOptions describes a merge of Theirs into Ours
type MergeOptions struct {
	Ours    string
	Theirs  string
	Message string
}

// PushOptions describes a push of Ref ("src:dst") to a remote
type PushOptions struct {
	Remote string
	URL    string
	Ref    string
	Auth   *Auth
	Force  bool
}

// refSpec expands "src:dst" into a full branch refspec
func (o PushOptions) refSpec() (string, error) {
	src, dst, ok := strings.Cut(o.Ref, ":")
	if !ok {
		dst = src
	}
	if src == "" || dst == "" {
		return "", fmt.Errorf("invalid push ref %q", o.Ref)
	}
	spec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", src, dst)
	if o.Force {
		spec = "+" + spec
	}
	return spec, nil
}

// Plumbing is the set of primitive git operations the synchronizer builds on.
// Every method takes the working copy directory explicitly.
type Plumbing interface {
	Clone(ctx context.Context, url, dir string, auth *Auth) error
	Checkout(ctx context.Context, dir, ref string) error
	Branch(ctx context.Context, dir string, opts BranchOptions) error
	// CurrentBranch returns "" when HEAD is detached.
	CurrentBranch(ctx context.Context, dir string) (string, error)
	// ListBranches returns local branch names when remote is empty,
	// otherwise the remote's tracking branches prefixed with "<remote>/".
	ListBranches(ctx context.Context, dir, remote string) ([]string, error)
	// GetConfig returns "" when the key is unset.
	GetConfig(ctx context.Context, dir, path string) (string, error)
	SetConfig(ctx context.Context, dir, path, value string) error
	Status(ctx context.Context, dir string) (Status, error)
	Fetch(ctx context.Context, dir string, opts FetchOptions) error
	Merge(ctx context.Context, dir string, opts MergeOptions) error
	Push(ctx context.Context, dir string, opts PushOptions) error
	// IsAncestor reports whether ancestor is reachable from descendant. Both are revisions.
	IsAncestor(ctx context.Context, dir, ancestor, descendant string) (bool, error)
	// ListRemoteBranches returns the branch names advertised by the remote at url.
	ListRemoteBranches(ctx context.Context, url string, auth *Auth) ([]string, error)
}
