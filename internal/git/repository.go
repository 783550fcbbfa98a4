package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens the git working copy at path.
// Returns a RepositoryNotFoundError if path is not inside a repository.
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, bserrors.NewRepositoryNotFoundError(path, err)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// Path returns the absolute path the repository was opened from
func (r *Repository) Path() string {
	return r.path
}

// LocalBranchNames returns all local branch names, sorted
func (r *Repository) LocalBranchNames() ([]string, error) {
	return r.branchNames(func(name plumbing.ReferenceName) (string, bool) {
		if !name.IsBranch() {
			return "", false
		}
		return name.Short(), true
	})
}

// RemoteBranchNames returns the tracking branches of remote as "<remote>/<name>", sorted.
// The symbolic "<remote>/HEAD" ref is skipped.
func (r *Repository) RemoteBranchNames(remote string) ([]string, error) {
	prefix := "refs/remotes/" + remote + "/"
	return r.branchNames(func(name plumbing.ReferenceName) (string, bool) {
		full := name.String()
		if !strings.HasPrefix(full, prefix) || strings.TrimPrefix(full, prefix) == "HEAD" {
			return "", false
		}
		return remote + "/" + strings.TrimPrefix(full, prefix), true
	})
}

func (r *Repository) branchNames(match func(plumbing.ReferenceName) (string, bool)) ([]string, error) {
	refs, err := r.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	names := []string{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if name, ok := match(ref.Name()); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// GetCurrentBranch returns the current branch name, or "" when HEAD is detached.
// On an unborn branch (no commits yet) it returns the branch HEAD points at.
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference {
		if head.Target().IsBranch() {
			return head.Target().Short(), nil
		}
		return "", nil
	}

	// HEAD holds a hash: detached
	return "", nil
}

// BranchExists reports whether a local branch exists
func (r *Repository) BranchExists(name string) (bool, error) {
	_, err := r.Reference(plumbing.NewBranchReferenceName(name), false)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
}
