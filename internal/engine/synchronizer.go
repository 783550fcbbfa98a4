package engine

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"branchsync.dev/branchsync/internal/config"
	"branchsync.dev/branchsync/internal/credentials"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/internal/output"
)

// branchNamePattern allows ASCII letters, digits, '.', '-' and '_'
var branchNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Deps are the collaborators of a Synchronizer.
// Git and Credentials are required.
type Deps struct {
	Git         git.Plumbing
	Credentials credentials.Provider
	// Sink receives progress narration. Nil discards it.
	Sink output.Sink
	// Log defaults to a quiet logger.
	Log *output.Splog
	// Config defaults to config.Default(). Per-repository overrides are applied on each call.
	Config *config.Config
}

// Synchronizer makes every branch-level decision and orders the plumbing calls behind it.
// It keeps no state between calls and does not serialize calls against the same path.
type Synchronizer struct {
	git   git.Plumbing
	creds credentials.Provider
	sink  output.Sink
	log   *output.Splog
	cfg   config.Config
}

// NewSynchronizer validates deps and creates a Synchronizer
func NewSynchronizer(deps Deps) (*Synchronizer, error) {
	if deps.Git == nil {
		return nil, fmt.Errorf("%w: git plumbing is required", bserrors.ErrInvalidArgument)
	}
	if deps.Credentials == nil {
		return nil, fmt.Errorf("%w: credential provider is required", bserrors.ErrInvalidArgument)
	}

	s := &Synchronizer{
		git:   deps.Git,
		creds: deps.Credentials,
		sink:  deps.Sink,
		log:   deps.Log,
		cfg:   config.Default(),
	}
	if s.sink == nil {
		s.sink = output.Discard
	}
	if s.log == nil {
		s.log = output.NewQuietSplog()
	}
	if deps.Config != nil {
		s.cfg = *deps.Config
	}
	return s, nil
}

// snapshot is the raw branch state of a working copy
type snapshot struct {
	local   []string
	remote  []string
	current string
}

func (s snapshot) union() []string {
	return uniqueSorted(append(append([]string(nil), s.local...), s.remote...), verbatim)
}

func (s snapshot) has(name string) bool {
	return slices.Contains(s.local, name) || slices.Contains(s.remote, name)
}

// settings returns the configuration with the repository's overrides applied
func (s *Synchronizer) settings(path string) (config.Config, error) {
	cfg, err := s.cfg.ForRepo(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load repository config: %w", err)
	}
	if cfg.Remote == "" {
		cfg.Remote = config.DefaultRemote
	}
	if cfg.PreviewBranch == "" {
		cfg.PreviewBranch = config.DefaultPreviewBranch
	}
	if len(cfg.BaseBranches) == 0 {
		cfg.BaseBranches = append([]string(nil), config.DefaultBaseBranches...)
	}
	return cfg, nil
}

// snapshot reads local and remote branch refs plus the current branch
func (s *Synchronizer) snapshot(ctx context.Context, path, remote string) (snapshot, error) {
	local, err := s.git.ListBranches(ctx, path, "")
	if err != nil {
		return snapshot{}, bserrors.Plumbing("list branches", err)
	}
	rawRemote, err := s.git.ListBranches(ctx, path, remote)
	if err != nil {
		return snapshot{}, bserrors.Plumbing("list branches", err)
	}
	current, err := s.git.CurrentBranch(ctx, path)
	if err != nil {
		return snapshot{}, bserrors.Plumbing("current branch", err)
	}

	remoteNames := make([]string, 0, len(rawRemote))
	for _, raw := range rawRemote {
		ref := ParseBranchRef(raw, remote)
		if ref.Provenance != ProvenanceRemote || ref.Name == "HEAD" {
			continue
		}
		remoteNames = append(remoteNames, ref.Canonical())
	}

	return snapshot{
		local:   uniqueSorted(local, verbatim),
		remote:  uniqueSorted(remoteNames, verbatim),
		current: current,
	}, nil
}

// remoteURL returns the configured URL of remote, or "" when there is none
func (s *Synchronizer) remoteURL(ctx context.Context, path, remote string) (string, error) {
	url, err := s.git.GetConfig(ctx, path, "remote."+remote+".url")
	if err != nil {
		return "", bserrors.Plumbing("get config", err)
	}
	return strings.TrimSpace(url), nil
}

// requireRemoteURL fails with RemoteNotConfigured when remote has no URL
func (s *Synchronizer) requireRemoteURL(ctx context.Context, path, remote string) (string, error) {
	url, err := s.remoteURL(ctx, path, remote)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", bserrors.NewRemoteNotConfiguredError(path, remote)
	}
	return url, nil
}

// auth reads a fresh token; nil means unauthenticated
func (s *Synchronizer) auth(ctx context.Context) *git.Auth {
	token, ok := s.creds.Token(ctx)
	if !ok {
		return nil
	}
	return git.TokenAuth(token)
}

// ListBranches lists local and remote branches and their union
func (s *Synchronizer) ListBranches(ctx context.Context, path string) (BranchListing, error) {
	cfg, err := s.settings(path)
	if err != nil {
		return BranchListing{}, err
	}

	s.sink.Emit("Listing branches in %s", path)
	snap, err := s.snapshot(ctx, path, cfg.Remote)
	if err != nil {
		return BranchListing{}, err
	}

	listing := BranchListing{
		Branches:       snap.union(),
		CurrentBranch:  snap.current,
		LocalBranches:  snap.local,
		RemoteBranches: snap.remote,
	}
	s.log.Debug("Found %d branches (%d local, %d remote) in %s",
		len(listing.Branches), len(listing.LocalBranches), len(listing.RemoteBranches), path)
	return listing, nil
}

// CreateBranch creates name from HEAD and checks it out
func (s *Synchronizer) CreateBranch(ctx context.Context, path, name string) error {
	cfg, err := s.settings(path)
	if err != nil {
		return err
	}
	return s.createBranch(ctx, path, cfg, name)
}

func (s *Synchronizer) createBranch(ctx context.Context, path string, cfg config.Config, name string) error {
	if err := validateBranchName(name); err != nil {
		return err
	}

	snap, err := s.snapshot(ctx, path, cfg.Remote)
	if err != nil {
		return err
	}
	// Not atomic with the creation below; concurrent callers can both pass.
	if snap.has(name) {
		return bserrors.NewBranchAlreadyExistsError(name)
	}

	s.sink.Emit("Creating branch %s", name)
	if err := s.git.Branch(ctx, path, git.BranchOptions{Name: name, Checkout: true}); err != nil {
		return bserrors.Plumbing("create branch", err)
	}
	s.sink.Emit("Switched to new branch %s", name)
	return nil
}

// CheckoutBranch checks out name. A local branch wins over a remote one;
// a remote-only branch gets a local tracking branch of the same name.
func (s *Synchronizer) CheckoutBranch(ctx context.Context, path, name string) error {
	if strings.TrimSpace(name) == "" {
		return bserrors.NewInvalidBranchNameError(name, "branch name must not be empty")
	}
	cfg, err := s.settings(path)
	if err != nil {
		return err
	}
	snap, err := s.snapshot(ctx, path, cfg.Remote)
	if err != nil {
		return err
	}
	_, err = s.checkout(ctx, path, cfg, snap, name)
	return err
}

func (s *Synchronizer) checkout(ctx context.Context, path string, cfg config.Config, snap snapshot, name string) (Provenance, error) {
	if slices.Contains(snap.local, name) {
		s.sink.Emit("Checking out %s", name)
		if err := s.git.Checkout(ctx, path, name); err != nil {
			return "", bserrors.Plumbing("checkout", err)
		}
		return ProvenanceLocal, nil
	}

	ref := ParseBranchRef(name, cfg.Remote)
	if slices.Contains(snap.local, ref.Name) {
		return s.checkout(ctx, path, cfg, snap, ref.Name)
	}
	if slices.Contains(snap.remote, ref.Name) {
		upstream := cfg.Remote + "/" + ref.Name
		s.sink.Emit("Creating %s to track %s", ref.Name, upstream)
		err := s.git.Branch(ctx, path, git.BranchOptions{
			Name:       ref.Name,
			StartPoint: upstream,
			Upstream:   upstream,
			Checkout:   true,
		})
		if err != nil {
			return "", bserrors.Plumbing("checkout", err)
		}
		return ProvenanceRemote, nil
	}

	return "", bserrors.NewBranchNotFoundError(name)
}

// CurrentBranch returns the checked out branch, or "" when HEAD is detached
func (s *Synchronizer) CurrentBranch(ctx context.Context, path string) (string, error) {
	branch, err := s.git.CurrentBranch(ctx, path)
	if err != nil {
		return "", bserrors.Plumbing("current branch", err)
	}
	return branch, nil
}

// RepositoryInfo projects the working copy's remote URL and branch state
func (s *Synchronizer) RepositoryInfo(ctx context.Context, path string) (Repository, error) {
	cfg, err := s.settings(path)
	if err != nil {
		return Repository{}, err
	}
	snap, err := s.snapshot(ctx, path, cfg.Remote)
	if err != nil {
		return Repository{}, err
	}
	url, err := s.remoteURL(ctx, path, cfg.Remote)
	if err != nil {
		return Repository{}, err
	}
	return NewRepository(cfg.Remote, url, snap.current, snap.union()), nil
}

func validateBranchName(name string) error {
	if name == "" {
		return bserrors.NewInvalidBranchNameError(name, "branch name must not be empty")
	}
	if !branchNamePattern.MatchString(name) {
		return bserrors.NewInvalidBranchNameError(name, "only letters, digits, '.', '-' and '_' are allowed")
	}
	return git.ValidateBranchName(name)
}

func verbatim(name string) string {
	return name
}
