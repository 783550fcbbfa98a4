// Package workflow exposes the branch synchronizer by project id.
//
// Each call resolves the project again and reads live git state; nothing is cached
// and nothing is retried.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"

	"branchsync.dev/branchsync/internal/engine"
	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/project"
)

// Handler runs against a resolved project and its repository path
type Handler func(ctx context.Context, p project.Project, path string) error

// Facade binds project ids to repository paths
type Facade struct {
	projects project.Lookup
	sync     *engine.Synchronizer
}

// New validates the collaborators and creates a Facade
func New(projects project.Lookup, sync *engine.Synchronizer) (*Facade, error) {
	if projects == nil {
		return nil, fmt.Errorf("%w: project lookup is required", bserrors.ErrInvalidArgument)
	}
	if sync == nil {
		return nil, fmt.Errorf("%w: synchronizer is required", bserrors.ErrInvalidArgument)
	}
	return &Facade{projects: projects, sync: sync}, nil
}

// resolve maps id to its project and repository path.
// Any failure is reported as ProjectNotFound.
func (f *Facade) resolve(ctx context.Context, id string) (project.Project, string, error) {
	p, err := f.projects.GetProjectDetails(ctx, id)
	if err != nil {
		return project.Project{}, "", projectNotFound(id, err)
	}
	path, err := f.projects.ResolveProjectRepositoryPath(p)
	if err != nil {
		return project.Project{}, "", projectNotFound(id, err)
	}
	return p, path, nil
}

func projectNotFound(id string, err error) error {
	var notFound *bserrors.ProjectNotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	return bserrors.NewProjectNotFoundError(id, err)
}

// WithProject resolves id and runs handler against it
func (f *Facade) WithProject(ctx context.Context, id string, handler Handler) error {
	p, path, err := f.resolve(ctx, id)
	if err != nil {
		return err
	}
	return handler(ctx, p, path)
}

// GenericWithProject resolves id and returns handler's result
func GenericWithProject[T any](ctx context.Context, f *Facade, id string, handler func(ctx context.Context, p project.Project, path string) (T, error)) (T, error) {
	var zero T
	p, path, err := f.resolve(ctx, id)
	if err != nil {
		return zero, err
	}
	return handler(ctx, p, path)
}

// ListBranches lists the project's branches
func (f *Facade) ListBranches(ctx context.Context, id string) (engine.BranchListing, error) {
	return GenericWithProject(ctx, f, id, func(ctx context.Context, _ project.Project, path string) (engine.BranchListing, error) {
		return f.sync.ListBranches(ctx, path)
	})
}

// CreateBranch creates and checks out name in the project
func (f *Facade) CreateBranch(ctx context.Context, id, name string) error {
	return f.WithProject(ctx, id, func(ctx context.Context, _ project.Project, path string) error {
		return f.sync.CreateBranch(ctx, path, name)
	})
}

// CheckoutBranch checks out name in the project
func (f *Facade) CheckoutBranch(ctx context.Context, id, name string) error {
	return f.WithProject(ctx, id, func(ctx context.Context, _ project.Project, path string) error {
		return f.sync.CheckoutBranch(ctx, path, name)
	})
}

// CurrentBranch returns the project's checked out branch
func (f *Facade) CurrentBranch(ctx context.Context, id string) (string, error) {
	return GenericWithProject(ctx, f, id, func(ctx context.Context, _ project.Project, path string) (string, error) {
		return f.sync.CurrentBranch(ctx, path)
	})
}

// RepositoryInfo returns the project's repository projection
func (f *Facade) RepositoryInfo(ctx context.Context, id string) (engine.Repository, error) {
	return GenericWithProject(ctx, f, id, func(ctx context.Context, _ project.Project, path string) (engine.Repository, error) {
		return f.sync.RepositoryInfo(ctx, path)
	})
}

// PullFromPreview merges the remote preview branch into the project's current branch
func (f *Facade) PullFromPreview(ctx context.Context, id string) error {
	return f.WithProject(ctx, id, func(ctx context.Context, _ project.Project, path string) error {
		return f.sync.PullFromPreview(ctx, path)
	})
}

// PushToBranch pushes the project's current branch to target
func (f *Facade) PushToBranch(ctx context.Context, id, target string) error {
	return f.WithProject(ctx, id, func(ctx context.Context, _ project.Project, path string) error {
		return f.sync.PushToBranch(ctx, path, target)
	})
}

// ListRemoteBranches lists branches on the project's remote
func (f *Facade) ListRemoteBranches(ctx context.Context, id string) ([]string, error) {
	return GenericWithProject(ctx, f, id, func(ctx context.Context, _ project.Project, path string) ([]string, error) {
		return f.sync.ListRemoteBranches(ctx, path)
	})
}

// EnsurePreviewBranch makes sure the project's preview branch exists and is checked out
func (f *Facade) EnsurePreviewBranch(ctx context.Context, id string) (engine.PreviewResolution, error) {
	return GenericWithProject(ctx, f, id, func(ctx context.Context, _ project.Project, path string) (engine.PreviewResolution, error) {
		return f.sync.EnsurePreviewBranch(ctx, path)
	})
}

// pathLocator is implemented by lookups that can compute a project's path
// before the working copy exists
type pathLocator interface {
	RepositoryPath(p project.Project) string
}

// CloneProject clones the project's remote into its path, which must not exist yet
func (f *Facade) CloneProject(ctx context.Context, id string) error {
	p, err := f.projects.GetProjectDetails(ctx, id)
	if err != nil {
		return projectNotFound(id, err)
	}
	if p.RemoteURL == "" {
		return fmt.Errorf("%w: project %s has no remote url", bserrors.ErrRemoteNotConfigured, p.ID)
	}

	dest := p.Path
	if locator, ok := f.projects.(pathLocator); ok {
		dest = locator.RepositoryPath(p)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%w: %s already exists", bserrors.ErrInvalidArgument, dest)
	}
	return f.sync.Clone(ctx, p.RemoteURL, dest)
}
