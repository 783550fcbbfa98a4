package engine

import (
	"fmt"
	"sort"
	"strings"

	"branchsync.dev/branchsync/internal/config"
	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Provenance records where a branch was found
type Provenance string

const (
	// ProvenanceLocal is a branch under refs/heads
	ProvenanceLocal Provenance = "local"
	// ProvenanceRemote is a remote-tracking branch such as origin/X
	ProvenanceRemote Provenance = "remote"
)

// BranchRef is a branch name with the prefix of its remote removed.
// "origin/X" and "X" share the canonical name "X".
type BranchRef struct {
	Name       string
	Provenance Provenance
}

// ParseBranchRef normalizes raw against remote
func ParseBranchRef(raw, remote string) BranchRef {
	if remote != "" {
		if name, ok := strings.CutPrefix(raw, remote+"/"); ok && name != "" {
			return BranchRef{Name: name, Provenance: ProvenanceRemote}
		}
	}
	return BranchRef{Name: raw, Provenance: ProvenanceLocal}
}

// Canonical returns the name shared by the local and remote forms
func (r BranchRef) Canonical() string {
	return r.Name
}

// Repository is a read projection of one working copy's branch state.
// Values are rebuilt from git on every query and never modified in place.
type Repository struct {
	// Remote is the remote branch names are normalized against. Empty means origin.
	Remote string
	// RemoteURL is empty when no remote is configured.
	RemoteURL string
	// CurrentBranch is empty when HEAD is detached.
	CurrentBranch string
	// Branches holds canonical names, deduplicated and sorted.
	Branches []string
}

// NewRepository builds a Repository, normalizing branches and adding the
// current branch if it is missing
func NewRepository(remote, remoteURL, currentBranch string, branches []string) Repository {
	repo := Repository{Remote: remote, RemoteURL: remoteURL}
	repo.Branches = repo.normalize(branches)
	if currentBranch != "" {
		repo = repo.WithBranch(currentBranch)
		repo.CurrentBranch = repo.canonical(currentBranch)
	}
	return repo
}

func (r Repository) remote() string {
	if r.Remote == "" {
		return config.DefaultRemote
	}
	return r.Remote
}

func (r Repository) canonical(name string) string {
	return ParseBranchRef(name, r.remote()).Canonical()
}

func (r Repository) normalize(names []string) []string {
	return uniqueSorted(names, r.canonical)
}

// HasBranch reports whether name, in either form, is known
func (r Repository) HasBranch(name string) bool {
	name = r.canonical(name)
	i := sort.SearchStrings(r.Branches, name)
	return i < len(r.Branches) && r.Branches[i] == name
}

// WithBranch returns a copy that includes name.
// Adding a name that is already present returns an equal copy.
func (r Repository) WithBranch(name string) Repository {
	next := r
	next.Branches = r.normalize(append(append([]string(nil), r.Branches...), name))
	return next
}

// WithCurrentBranch returns a copy with name checked out, adding it to Branches if needed
func (r Repository) WithCurrentBranch(name string) (Repository, error) {
	if strings.TrimSpace(name) == "" {
		return Repository{}, fmt.Errorf("%w: current branch name must not be empty", bserrors.ErrInvalidArgument)
	}
	next := r.WithBranch(name)
	next.CurrentBranch = r.canonical(name)
	return next, nil
}

// BranchListing is the result of listing a repository's branches
type BranchListing struct {
	// Branches is the sorted union of local and remote names
	Branches      []string
	CurrentBranch string
	LocalBranches []string
	// RemoteBranches have the remote prefix stripped
	RemoteBranches []string
}

// PreviewResolution describes what EnsurePreviewBranch did
type PreviewResolution struct {
	// Branch is the preview branch name after repository overrides.
	Branch     string
	Created    bool
	CheckedOut bool
	// Source is where an existing preview branch was found. Empty when Created.
	Source Provenance
	// BaseBranch is the branch preview was forked from. Empty unless Created.
	BaseBranch string
	// Published is true when the new branch was pushed to the remote.
	Published bool
	// PublishWarning holds the push failure, if any. It never undoes creation.
	PublishWarning error
}

// PublishSkipped reports whether publishing was skipped without an error
func (r PreviewResolution) PublishSkipped() bool {
	return r.Created && !r.Published && r.PublishWarning == nil
}

func uniqueSorted(names []string, canonical func(string) string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = canonical(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
