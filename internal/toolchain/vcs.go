package toolchain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultRemote is the name the remote URL is registered under.
const DefaultRemote = "origin"

// VersionControl initializes the repository of a new project.
type VersionControl interface {
	Name() string
	Init(ctx context.Context, dir string) error
	// StageAll stages every file not excluded by .gitignore.
	StageAll(ctx context.Context, dir string) error
	Commit(ctx context.Context, dir, message string) error
	AddRemote(ctx context.Context, dir, name, url string) error
}

// GitCLI drives the git binary.
type GitCLI struct {
	Runner Runner
}

// Name implements VersionControl.
func (g GitCLI) Name() string { return "git" }

func (g GitCLI) git(ctx context.Context, dir string, args ...string) error {
	_, err := g.Runner.Run(ctx, Command{Name: "git", Args: args, Dir: dir})
	return err
}

// Init implements VersionControl.
func (g GitCLI) Init(ctx context.Context, dir string) error {
	return g.git(ctx, dir, "init")
}

// StageAll implements VersionControl.
func (g GitCLI) StageAll(ctx context.Context, dir string) error {
	return g.git(ctx, dir, "add", ".")
}

// Commit implements VersionControl.
func (g GitCLI) Commit(ctx context.Context, dir, message string) error {
	return g.git(ctx, dir, "commit", "-m", message)
}

// AddRemote implements VersionControl.
func (g GitCLI) AddRemote(ctx context.Context, dir, name, url string) error {
	return g.git(ctx, dir, "remote", "add", name, url)
}

// GoGit implements VersionControl in-process with go-git, so no git binary
// is needed. Author signs the initial commit.
type GoGit struct {
	AuthorName  string
	AuthorEmail string
	// Now is the commit timestamp source; nil means time.Now.
	Now func() time.Time
	// Debugf receives backend detail; nil discards it.
	Debugf func(format string, args ...any)
}

// Name implements VersionControl.
func (g GoGit) Name() string { return "go-git" }

// Init implements VersionControl.
func (g GoGit) Init(_ context.Context, dir string) error {
	g.logDebug("[go-git] init %s", dir)
	if _, err := git.PlainInit(dir, false); err != nil {
		return fmt.Errorf("initializing repository at %s: %w", dir, err)
	}
	return nil
}

func (g GoGit) worktree(dir string) (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("getting worktree: %w", err)
	}
	return repo, wt, nil
}

// StageAll implements VersionControl.
func (g GoGit) StageAll(_ context.Context, dir string) error {
	_, wt, err := g.worktree(dir)
	if err != nil {
		return err
	}
	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return fmt.Errorf("reading ignore patterns: %w", err)
	}
	wt.Excludes = append(wt.Excludes, patterns...)

	g.logDebug("[go-git] add --all in %s (%d ignore patterns)", dir, len(patterns))
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging files: %w", err)
	}
	return nil
}

// Commit implements VersionControl.
func (g GoGit) Commit(_ context.Context, dir, message string) error {
	_, wt, err := g.worktree(dir)
	if err != nil {
		return err
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	sig := &object.Signature{Name: g.AuthorName, Email: g.AuthorEmail, When: now()}
	if sig.Name == "" {
		sig.Name = "pyinit"
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	g.logDebug("[go-git] committed %s", hash)
	return nil
}

// AddRemote implements VersionControl.
func (g GoGit) AddRemote(_ context.Context, dir, name, url string) error {
	repo, _, err := g.worktree(dir)
	if err != nil {
		return err
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return fmt.Errorf("adding remote %s: %w", name, err)
	}
	return nil
}

func (g GoGit) logDebug(format string, args ...any) {
	if g.Debugf != nil {
		g.Debugf(format, args...)
	}
}
