// Package project maps project ids to local repository paths.
//
// Projects are kept in a JSON file (by default ~/.branchsync/projects.json).
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	bserrors "branchsync.dev/branchsync/internal/errors"
)

// Project is a local working copy known to branchsync
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	RemoteURL string    `json:"remoteUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Lookup resolves project ids to repository paths
type Lookup interface {
	GetProjectDetails(ctx context.Context, id string) (Project, error)
	ResolveProjectRepositoryPath(p Project) (string, error)
}

type fileFormat struct {
	Projects []Project `json:"projects"`
}

// Store is a Lookup backed by a JSON file. Safe for concurrent use
// within one process.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

var _ Lookup = (*Store)(nil)

// NewStore creates a store persisted at path. The file is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (fileFormat, error) {
	var data fileFormat
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileFormat{Projects: []Project{}}, nil
		}
		return data, fmt.Errorf("read projects: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse projects: %w", err)
	}
	return data, nil
}

// save writes to a temp file and renames it over the original
func (s *Store) save(data fileFormat) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create projects directory: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write projects: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save projects: %w", err)
	}
	return nil
}

// Add registers a project. An empty ID is derived from the name.
// Relative paths are stored as given and resolved against the store directory.
func (s *Store) Add(p Project) (Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Project{}, fmt.Errorf("%w: project name must not be empty", bserrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(p.Path) == "" {
		return Project{}, fmt.Errorf("%w: project path must not be empty", bserrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return Project{}, err
	}

	if p.ID == "" {
		p.ID = uniqueID(slugify(p.Name), data.Projects)
	} else if findIndex(data.Projects, p.ID) >= 0 {
		return Project{}, fmt.Errorf("%w: project %s already exists", bserrors.ErrInvalidArgument, p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}

	data.Projects = append(data.Projects, p)
	if err := s.save(data); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Remove unregisters a project. The working copy is left alone.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	i := findIndex(data.Projects, id)
	if i < 0 {
		return bserrors.NewProjectNotFoundError(id, nil)
	}
	data.Projects = slices.Delete(data.Projects, i, i+1)
	return s.save(data)
}

// List returns all projects in the order they were added
func (s *Store) List() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Projects, nil
}

// GetProjectDetails returns the project with id
func (s *Store) GetProjectDetails(_ context.Context, id string) (Project, error) {
	projects, err := s.List()
	if err != nil {
		return Project{}, err
	}
	i := findIndex(projects, id)
	if i < 0 {
		return Project{}, bserrors.NewProjectNotFoundError(id, nil)
	}
	return projects[i], nil
}

// RepositoryPath returns where the project's working copy lives, whether or not it exists.
// Relative paths are resolved against the store directory.
func (s *Store) RepositoryPath(p Project) string {
	if p.Path == "" || filepath.IsAbs(p.Path) {
		return filepath.Clean(p.Path)
	}
	return filepath.Join(filepath.Dir(s.path), p.Path)
}

// ResolveProjectRepositoryPath returns the absolute path of the project's
// working copy, which must exist
func (s *Store) ResolveProjectRepositoryPath(p Project) (string, error) {
	if p.Path == "" {
		return "", fmt.Errorf("%w: project %s has no path", bserrors.ErrInvalidArgument, p.ID)
	}
	path := s.RepositoryPath(p)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("project %s path %s: %w", p.ID, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project %s path %s is not a directory", p.ID, path)
	}
	return path, nil
}

func findIndex(projects []Project, id string) int {
	return slices.IndexFunc(projects, func(p Project) bool { return p.ID == id })
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "project"
	}
	return slug
}

func uniqueID(base string, projects []Project) string {
	id := base
	for n := 2; findIndex(projects, id) >= 0; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}
