// Package errors provides sentinel errors and custom error types for branchsync.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the branch workflow taxonomy
var (
	// ErrInvalidArgument indicates a malformed or empty argument, such as a branch name
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRepositoryNotFound indicates that a path is not a git working copy
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrBranchAlreadyExists indicates that a branch with the requested name exists
	ErrBranchAlreadyExists = errors.New("branch already exists")

	// ErrBranchNotFound indicates that a branch does not exist locally or on the remote
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNoBaseBranchFound indicates that none of the base branch candidates exist
	ErrNoBaseBranchFound = errors.New("no base branch found")

	// ErrRemoteNotConfigured indicates that the repository has no usable remote URL
	ErrRemoteNotConfigured = errors.New("remote not configured")

	// ErrMergeConflict indicates that a merge could not complete automatically
	ErrMergeConflict = errors.New("merge conflict")

	// ErrProjectNotFound indicates that a project id could not be resolved to a repository
	ErrProjectNotFound = errors.New("project not found")

	// ErrPlumbing indicates an unrecognized failure from the git plumbing layer
	ErrPlumbing = errors.New("git plumbing failure")
)

// InvalidBranchNameError represents a branch name that fails validation
type InvalidBranchNameError struct {
	BranchName string
	Reason     string
}

func (e *InvalidBranchNameError) Error() string {
	return fmt.Sprintf("invalid branch name %q: %s", e.BranchName, e.Reason)
}

// Is returns true if the target error is ErrInvalidArgument
func (e *InvalidBranchNameError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewInvalidBranchNameError creates a new InvalidBranchNameError
func NewInvalidBranchNameError(branchName, reason string) *InvalidBranchNameError {
	return &InvalidBranchNameError{BranchName: branchName, Reason: reason}
}

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// BranchAlreadyExistsError represents an attempt to create a branch that exists
type BranchAlreadyExistsError struct {
	BranchName string
}

func (e *BranchAlreadyExistsError) Error() string {
	return fmt.Sprintf("branch %s already exists", e.BranchName)
}

// Is returns true if the target error is ErrBranchAlreadyExists
func (e *BranchAlreadyExistsError) Is(target error) bool {
	return target == ErrBranchAlreadyExists
}

// NewBranchAlreadyExistsError creates a new BranchAlreadyExistsError
func NewBranchAlreadyExistsError(branchName string) *BranchAlreadyExistsError {
	return &BranchAlreadyExistsError{BranchName: branchName}
}

// NoBaseBranchError is returned when no base branch candidate can be checked out
type NoBaseBranchError struct {
	Candidates []string
	// Err is the last failure of a candidate that exists but could not be checked out
	Err error
}

func (e *NoBaseBranchError) Error() string {
	msg := fmt.Sprintf("no base branch found (tried %s)", strings.Join(e.Candidates, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NoBaseBranchError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrNoBaseBranchFound
func (e *NoBaseBranchError) Is(target error) bool {
	return target == ErrNoBaseBranchFound
}

// NewNoBaseBranchError creates a new NoBaseBranchError
func NewNoBaseBranchError(candidates []string, err error) *NoBaseBranchError {
	return &NoBaseBranchError{Candidates: candidates, Err: err}
}

// RemoteNotConfiguredError is returned when an operation needs a remote URL
type RemoteNotConfiguredError struct {
	Path   string
	Remote string
}

func (e *RemoteNotConfiguredError) Error() string {
	return fmt.Sprintf("remote %s is not configured for %s", e.Remote, e.Path)
}

// Is returns true if the target error is ErrRemoteNotConfigured
func (e *RemoteNotConfiguredError) Is(target error) bool {
	return target == ErrRemoteNotConfigured
}

// NewRemoteNotConfiguredError creates a new RemoteNotConfiguredError
func NewRemoteNotConfiguredError(path, remote string) *RemoteNotConfiguredError {
	return &RemoteNotConfiguredError{Path: path, Remote: remote}
}

// MergeConflictError represents a merge that stopped on conflicts
type MergeConflictError struct {
	Ours   string
	Theirs string
	Files  []string
}

func (e *MergeConflictError) Error() string {
	msg := fmt.Sprintf("merge conflict merging %s into %s", e.Theirs, e.Ours)
	if len(e.Files) > 0 {
		msg += fmt.Sprintf(": %s", strings.Join(e.Files, ", "))
	}
	return msg
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(ours, theirs string, files []string) *MergeConflictError {
	return &MergeConflictError{Ours: ours, Theirs: theirs, Files: files}
}

// ProjectNotFoundError is returned when a project id cannot be resolved
type ProjectNotFoundError struct {
	ProjectID string
	Err       error
}

func (e *ProjectNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("project %s not found: %v", e.ProjectID, e.Err)
	}
	return fmt.Sprintf("project %s not found", e.ProjectID)
}

// Is returns true if the target error is ErrProjectNotFound
func (e *ProjectNotFoundError) Is(target error) bool {
	return target == ErrProjectNotFound
}

func (e *ProjectNotFoundError) Unwrap() error {
	return e.Err
}

// NewProjectNotFoundError creates a new ProjectNotFoundError
func NewProjectNotFoundError(projectID string, err error) *ProjectNotFoundError {
	return &ProjectNotFoundError{ProjectID: projectID, Err: err}
}

// RepositoryNotFoundError is returned when a path is not a git working copy
type RepositoryNotFoundError struct {
	Path string
	Err  error
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("%s is not a git repository", e.Path)
}

// Is returns true if the target error is ErrRepositoryNotFound
func (e *RepositoryNotFoundError) Is(target error) bool {
	return target == ErrRepositoryNotFound
}

func (e *RepositoryNotFoundError) Unwrap() error {
	return e.Err
}

// NewRepositoryNotFoundError creates a new RepositoryNotFoundError
func NewRepositoryNotFoundError(path string, err error) *RepositoryNotFoundError {
	return &RepositoryNotFoundError{Path: path, Err: err}
}

// PlumbingError wraps an unrecognized failure from a git plumbing call.
// The underlying message is preserved verbatim.
type PlumbingError struct {
	Op  string
	Err error
}

func (e *PlumbingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrPlumbing
func (e *PlumbingError) Is(target error) bool {
	return target == ErrPlumbing
}

func (e *PlumbingError) Unwrap() error {
	return e.Err
}

// Classified reports whether err already belongs to the branch workflow taxonomy.
func Classified(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidArgument,
		ErrRepositoryNotFound,
		ErrBranchAlreadyExists,
		ErrBranchNotFound,
		ErrNoBaseBranchFound,
		ErrRemoteNotConfigured,
		ErrMergeConflict,
		ErrProjectNotFound,
		ErrPlumbing,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Plumbing wraps err in a PlumbingError unless it is nil or already classified.
func Plumbing(op string, err error) error {
	if err == nil || Classified(err) {
		return err
	}
	return &PlumbingError{Op: op, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// Output returns the combined stdout and stderr of the failed command.
func (e *GitCommandError) Output() string {
	return e.Stdout + "\n" + e.Stderr
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
