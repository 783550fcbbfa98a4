package runtime

import (
	"fmt"
	"io"
	"os"

	"branchsync.dev/branchsync/internal/config"
	"branchsync.dev/branchsync/internal/credentials"
	"branchsync.dev/branchsync/internal/engine"
	"branchsync.dev/branchsync/internal/git"
	"branchsync.dev/branchsync/internal/github"
	"branchsync.dev/branchsync/internal/output"
	"branchsync.dev/branchsync/internal/project"
	"branchsync.dev/branchsync/internal/workflow"
)

// Context provides access to the synchronizer, projects and output for commands
type Context struct {
	Config      config.Config
	Splog       *output.Splog
	Style       *output.Style
	Credentials credentials.Provider
	Sync        *engine.Synchronizer
	Projects    *project.Store
	Workflow    *workflow.Facade
	GitHub      *github.Client
}

// Options overrides the collaborators a Context is built from
type Options struct {
	// Writer receives console output. Defaults to os.Stdout.
	Writer io.Writer
	// LogFile enables file logging when set.
	LogFile string
	Quiet   bool
	// Debug enables debug output regardless of the configuration.
	Debug bool
	// Git defaults to the go-git backed client.
	Git git.Plumbing
	// Credentials defaults to credentials.Default().
	Credentials credentials.Provider
}

// NewContext builds a context from an explicit configuration
func NewContext(cfg config.Config, opts Options) (*Context, error) {
	if opts.Debug {
		cfg.Debug = true
	}
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	splog, err := output.NewSplogWithOptions(output.Options{
		Writer:  writer,
		LogFile: opts.LogFile,
		Debug:   cfg.Debug,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return nil, err
	}

	plumbing := opts.Git
	if plumbing == nil {
		plumbing = git.NewClient()
	}
	creds := opts.Credentials
	if creds == nil {
		creds = credentials.Default()
	}

	sync, err := engine.NewSynchronizer(engine.Deps{
		Git:         plumbing,
		Credentials: creds,
		Sink:        splog.Sink(),
		Log:         splog,
		Config:      &cfg,
	})
	if err != nil {
		_ = splog.Close()
		return nil, err
	}

	projects := project.NewStore(cfg.ProjectsFile)
	facade, err := workflow.New(projects, sync)
	if err != nil {
		_ = splog.Close()
		return nil, err
	}

	return &Context{
		Config:      cfg,
		Splog:       splog,
		Style:       output.NewStyle(writer),
		Credentials: creds,
		Sync:        sync,
		Projects:    projects,
		Workflow:    facade,
		GitHub:      github.NewClient(creds),
	}, nil
}

// GetContext loads the user configuration and builds a context with file logging enabled
func GetContext(opts Options) (*Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.LogFile == "" {
		opts.LogFile = output.GetLogFilePath()
	}
	return NewContext(cfg, opts)
}

// Close releases the log file
func (c *Context) Close() error {
	return c.Splog.Close()
}
