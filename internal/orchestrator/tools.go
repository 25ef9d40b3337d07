package orchestrator

import (
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// VCS backends selectable through configuration.
const (
	BackendGitCLI = "git"
	BackendGoGit  = "go-git"
)

// ToolsConfig selects the concrete collaborators for NewTools.
type ToolsConfig struct {
	Runner toolchain.Runner
	// Python is the interpreter argv used to create a venv. Empty means the
	// interpreter named after the configured python version.
	Python     []string
	VCSBackend string
	// HostAvailable is false when gh was not found during preflight.
	HostAvailable bool
	// Debugf is handed to in-process backends.
	Debugf func(format string, args ...any)
}

// NewTools picks one implementation per capability from cfg.
func NewTools(cfg options.Config, tc ToolsConfig) Tools {
	t := Tools{
		Manifest: toolchain.Poetry{Runner: tc.Runner},
	}

	switch tc.VCSBackend {
	case BackendGoGit:
		t.VCS = toolchain.GoGit{AuthorName: cfg.Author.Name, AuthorEmail: cfg.Author.Email, Debugf: tc.Debugf}
	default:
		t.VCS = toolchain.GitCLI{Runner: tc.Runner}
	}

	python := tc.Python
	if len(python) == 0 {
		python = []string{cfg.Python.Interpreter()}
	}
	switch cfg.Env {
	case options.EnvPoetry:
		t.Env = toolchain.PoetryEnv{}
		t.Packages = toolchain.Poetry{Runner: tc.Runner}
	case options.EnvVirtualenv:
		t.Env = toolchain.Virtualenv{Runner: tc.Runner, Interpreter: cfg.Python.Interpreter()}
		t.Packages = toolchain.Pip{Runner: tc.Runner, Env: t.Env}
	default:
		t.Env = toolchain.Venv{Runner: tc.Runner, Python: python}
		t.Packages = toolchain.Pip{Runner: tc.Runner, Env: t.Env}
	}

	t.Hooks = toolchain.PreCommit{Runner: tc.Runner, Env: t.Env}

	// Sphinx follows the build system, not the environment tool.
	if cfg.BuildSystem == options.BuildPoetry {
		t.DocsPackages = toolchain.Poetry{Runner: tc.Runner}
		t.Docs = toolchain.Sphinx{Runner: tc.Runner, Env: toolchain.PoetryEnv{}}
	} else {
		t.DocsPackages = t.Packages
		t.Docs = toolchain.Sphinx{Runner: tc.Runner, Env: t.Env}
	}

	if tc.HostAvailable {
		t.Host = toolchain.GitHubCLI{Runner: tc.Runner}
	}
	return t
}
