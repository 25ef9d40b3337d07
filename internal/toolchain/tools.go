package toolchain

import "context"

// RepositoryHost publishes the local repository.
type RepositoryHost interface {
	Name() string
	// CreateRepository creates a public repository from dir and pushes to it.
	// remote names the git remote to register for it.
	CreateRepository(ctx context.Context, dir, name, remote string) error
}

// GitHubCLI creates repositories with gh.
type GitHubCLI struct {
	Runner Runner
}

// Name implements RepositoryHost.
func (GitHubCLI) Name() string { return "gh" }

// CreateRepository implements RepositoryHost.
func (g GitHubCLI) CreateRepository(ctx context.Context, dir, name, remote string) error {
	args := []string{"repo", "create", name, "--public", "--source=.", "--push"}
	if remote != "" && remote != DefaultRemote {
		args = append(args, "--remote", remote)
	}
	_, err := g.Runner.Run(ctx, Command{Name: "gh", Args: args, Dir: dir})
	return err
}

// DocsProject describes the documentation skeleton to generate.
type DocsProject struct {
	Name    string
	Author  string
	Release string
}

// DocsGenerator creates a documentation skeleton under dir/docs.
type DocsGenerator interface {
	Quickstart(ctx context.Context, dir string, p DocsProject) error
}

// HookManager registers VCS hooks from the project's hook configuration.
type HookManager interface {
	InstallHooks(ctx context.Context, dir string) error
}

// Sphinx generates a docs/ skeleton with sphinx-quickstart.
type Sphinx struct {
	Runner Runner
	Env    Environment
}

// Quickstart runs sphinx-quickstart non-interactively into dir/docs.
func (s Sphinx) Quickstart(ctx context.Context, dir string, p DocsProject) error {
	author := p.Author
	if author == "" {
		author = "Author"
	}
	cmd := s.Env.Command(dir, "sphinx-quickstart", "docs",
		"--quiet",
		"--project", p.Name,
		"--author", author,
		"--release", p.Release,
		"--language", "en",
		"--sep",
	)
	_, err := s.Runner.Run(ctx, cmd)
	return err
}

// PreCommit registers git hooks with pre-commit.
type PreCommit struct {
	Runner Runner
	Env    Environment
}

// InstallHooks runs pre-commit install in dir.
func (p PreCommit) InstallHooks(ctx context.Context, dir string) error {
	_, err := p.Runner.Run(ctx, p.Env.Command(dir, "pre-commit", "install"))
	return err
}
