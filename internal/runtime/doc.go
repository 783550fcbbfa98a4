// Package runtime provides the execution context for branchsync commands.
//
// It wires the configuration, logger, credential chain, git plumbing,
// synchronizer, project registry and workflow facade together once per invocation.
package runtime
