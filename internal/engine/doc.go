// Package engine decides which branches exist and keeps the preview branch in sync.
//
// It is the core of branchsync, responsible for:
//   - Listing branches and collapsing local and remote names into one logical set
//   - Creating branches and checking them out, establishing tracking branches lazily
//   - Bootstrapping the preview branch from a base branch and publishing it
//   - Merging the remote preview branch into the current branch and pushing results
//
// All git access goes through git.Plumbing. Every public operation narrates
// its sub-steps through an output.Sink.
package engine
