// Package git provides the git plumbing used by the branch synchronizer.
//
// It combines go-git and the git CLI behind the Plumbing interface:
//   - Repository access and ref queries (open, list branches, current branch)
//   - Branch management (create, track, checkout)
//   - Working tree inspection (status) and config read/write
//   - Remote operations (clone, fetch, push, ls-remote) and merges
//
// This package should be the only place where git is touched directly.
package git
