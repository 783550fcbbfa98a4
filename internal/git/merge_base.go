package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// resolveCommit resolves a revision such as "main" or "origin/preview" to its commit
func (r *Repository) resolveCommit(rev string) (*object.Commit, error) {
	hash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	commit, err := r.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return commit, nil
}

// IsAncestor checks if the first revision is an ancestor of the second.
// A revision is its own ancestor. An unborn branch has no ancestors.
func (r *Repository) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorCommit, err := r.resolveCommit(ancestor)
	if err != nil {
		return false, err
	}
	descendantCommit, err := r.resolveCommit(descendant)
	if err != nil {
		if r.isUnborn(descendant) {
			return false, nil
		}
		return false, err
	}

	if ancestorCommit.Hash == descendantCommit.Hash {
		return true, nil
	}
	return ancestorCommit.IsAncestor(descendantCommit)
}

// isUnborn reports whether HEAD points at branch and branch has no commits yet
func (r *Repository) isUnborn(branch string) bool {
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil || head.Type() != plumbing.SymbolicReference {
		return false
	}
	if head.Target() != plumbing.NewBranchReferenceName(branch) {
		return false
	}
	_, err = r.Storer.Reference(head.Target())
	return errors.Is(err, plumbing.ErrReferenceNotFound)
}

// IsAncestor reports whether ancestor is reachable from descendant in dir
func (c *Client) IsAncestor(_ context.Context, dir, ancestor, descendant string) (bool, error) {
	repo, _, err := c.open(dir)
	if err != nil {
		return false, err
	}
	ok, err := repo.IsAncestor(ancestor, descendant)
	if err != nil {
		return false, bserrors.Plumbing("merge base", err)
	}
	return ok, nil
}
