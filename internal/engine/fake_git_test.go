package engine_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	bserrors "branchsync.dev/branchsync/internal/errors"
	"branchsync.dev/branchsync/internal/git"
)

// fakeGit is an in-memory git.Plumbing recording every call
type fakeGit struct {
	local   []string
	remote  []string // bare names, listed as "origin/<name>"
	current string
	config  map[string]string
	dirty   []string
	// ancestors holds "ancestor..descendant" pairs IsAncestor reports as true
	ancestors map[string]bool

	notRepo  bool
	failOn   map[string]error
	calls    []string
	branches []git.BranchOptions
	pushes   []git.PushOptions
	fetches  []git.FetchOptions
	merges   []git.MergeOptions
	clones   []string
	auths    []*git.Auth
}

var _ git.Plumbing = (*fakeGit)(nil)

func newFakeGit() *fakeGit {
	return &fakeGit{config: map[string]string{}, failOn: map[string]error{}, ancestors: map[string]bool{}}
}

// withRemote configures origin with url
func (f *fakeGit) withRemote(url string) *fakeGit {
	f.config["remote.origin.url"] = url
	return f
}

func (f *fakeGit) record(op string) error {
	f.calls = append(f.calls, op)
	if f.notRepo {
		return bserrors.NewRepositoryNotFoundError("/fake", errors.New("not a repository"))
	}
	return f.failOn[op]
}

func (f *fakeGit) called(op string) bool {
	return slices.Contains(f.calls, op)
}

// mutated reports whether any call other than a read happened
func (f *fakeGit) mutated() bool {
	for _, op := range f.calls {
		switch op {
		case "list", "current", "getconfig", "status", "lsremote", "isancestor":
		default:
			return true
		}
	}
	return false
}

func (f *fakeGit) Clone(_ context.Context, url, dir string, auth *git.Auth) error {
	f.calls = append(f.calls, "clone")
	f.clones = append(f.clones, url+" -> "+dir)
	f.auths = append(f.auths, auth)
	return f.failOn["clone"]
}

func (f *fakeGit) Checkout(_ context.Context, _ string, ref string) error {
	if err := f.record("checkout"); err != nil {
		return err
	}
	if !slices.Contains(f.local, ref) {
		return fmt.Errorf("pathspec '%s' did not match", ref)
	}
	f.current = ref
	return nil
}

func (f *fakeGit) Branch(_ context.Context, _ string, opts git.BranchOptions) error {
	if err := f.record("branch"); err != nil {
		return err
	}
	if slices.Contains(f.local, opts.Name) {
		return bserrors.NewBranchAlreadyExistsError(opts.Name)
	}
	f.branches = append(f.branches, opts)
	f.local = append(f.local, opts.Name)
	sort.Strings(f.local)
	if opts.Upstream != "" {
		remote, merge, _ := strings.Cut(opts.Upstream, "/")
		f.config["branch."+opts.Name+".remote"] = remote
		f.config["branch."+opts.Name+".merge"] = "refs/heads/" + merge
	}
	if opts.Checkout {
		f.current = opts.Name
	}
	return nil
}

func (f *fakeGit) CurrentBranch(context.Context, string) (string, error) {
	if err := f.record("current"); err != nil {
		return "", err
	}
	return f.current, nil
}

func (f *fakeGit) ListBranches(_ context.Context, _ string, remote string) ([]string, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	if remote == "" {
		return append([]string(nil), f.local...), nil
	}
	names := []string{}
	for _, name := range f.remote {
		names = append(names, remote+"/"+name)
	}
	return names, nil
}

func (f *fakeGit) GetConfig(_ context.Context, _ string, path string) (string, error) {
	if err := f.record("getconfig"); err != nil {
		return "", err
	}
	return f.config[path], nil
}

func (f *fakeGit) SetConfig(_ context.Context, _ string, path, value string) error {
	if err := f.record("setconfig"); err != nil {
		return err
	}
	f.config[path] = value
	return nil
}

func (f *fakeGit) Status(context.Context, string) (git.Status, error) {
	if err := f.record("status"); err != nil {
		return git.Status{}, err
	}
	return git.Status{Files: f.dirty}, nil
}

func (f *fakeGit) Fetch(_ context.Context, _ string, opts git.FetchOptions) error {
	if err := f.record("fetch"); err != nil {
		return err
	}
	f.fetches = append(f.fetches, opts)
	f.auths = append(f.auths, opts.Auth)
	return nil
}

func (f *fakeGit) Merge(_ context.Context, _ string, opts git.MergeOptions) error {
	if err := f.record("merge"); err != nil {
		return err
	}
	f.merges = append(f.merges, opts)
	return nil
}

func (f *fakeGit) Push(_ context.Context, _ string, opts git.PushOptions) error {
	if err := f.record("push"); err != nil {
		return err
	}
	f.pushes = append(f.pushes, opts)
	f.auths = append(f.auths, opts.Auth)
	return nil
}

func (f *fakeGit) ListRemoteBranches(_ context.Context, _ string, auth *git.Auth) ([]string, error) {
	if err := f.record("lsremote"); err != nil {
		return nil, err
	}
	f.auths = append(f.auths, auth)
	return append([]string(nil), f.remote...), nil
}

func (f *fakeGit) IsAncestor(_ context.Context, _ string, ancestor, descendant string) (bool, error) {
	if err := f.record("isancestor"); err != nil {
		return false, err
	}
	return f.ancestors[ancestor+".."+descendant], nil
}
