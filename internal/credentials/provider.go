package credentials

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Provider returns an access token, or false when none is available
type Provider interface {
	Token(ctx context.Context) (string, bool)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) (string, bool)

// Token calls f
func (f ProviderFunc) Token(ctx context.Context) (string, bool) {
	return f(ctx)
}

// None never returns a token
var None Provider = ProviderFunc(func(context.Context) (string, bool) { return "", false })

// Static returns a provider that always yields token (none when token is empty)
func Static(token string) Provider {
	return ProviderFunc(func(context.Context) (string, bool) {
		return token, token != ""
	})
}

// EnvProvider reads a token from an environment variable
type EnvProvider struct {
	Var string
}

// NewEnvProvider reads GITHUB_TOKEN
func NewEnvProvider() EnvProvider {
	return EnvProvider{Var: "GITHUB_TOKEN"}
}

// Token returns the trimmed variable value
func (p EnvProvider) Token(context.Context) (string, bool) {
	token := strings.TrimSpace(os.Getenv(p.Var))
	return token, token != ""
}

// ghTokenTimeout bounds `gh auth token` so a hung CLI can't stall git operations
const ghTokenTimeout = 10 * time.Second

// GHCLIProvider asks the GitHub CLI for the logged in user's token
type GHCLIProvider struct {
	// Binary defaults to "gh"
	Binary string
}

// Token runs `gh auth token`. A missing CLI or logged out user yields no token.
func (p GHCLIProvider) Token(ctx context.Context) (string, bool) {
	binary := p.Binary
	if binary == "" {
		binary = "gh"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return "", false
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ghTokenTimeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "auth", "token")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", false
	}

	token := strings.TrimSpace(stdout.String())
	return token, token != ""
}

// TokenSourceProvider adapts an oauth2.TokenSource, such as one produced by
// an oauth2.Config refresh flow
type TokenSourceProvider struct {
	Source oauth2.TokenSource
}

// Token returns the source's access token when it is valid
func (p TokenSourceProvider) Token(context.Context) (string, bool) {
	if p.Source == nil {
		return "", false
	}
	token, err := p.Source.Token()
	if err != nil || !token.Valid() {
		return "", false
	}
	return token.AccessToken, true
}

// Chain tries each provider in order and returns the first token found
type Chain []Provider

// Token returns the first available token
func (c Chain) Token(ctx context.Context) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if token, ok := p.Token(ctx); ok {
			return token, true
		}
	}
	return "", false
}

// Default looks in GITHUB_TOKEN, then GH_TOKEN, then the GitHub CLI
func Default() Provider {
	return Chain{
		NewEnvProvider(),
		EnvProvider{Var: "GH_TOKEN"},
		GHCLIProvider{},
	}
}
