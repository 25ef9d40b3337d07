package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/pyproject"
	"github.com/ariel-frischer/pyinit/internal/render"
	"github.com/ariel-frischer/pyinit/internal/runlog"
	"github.com/ariel-frischer/pyinit/internal/skeleton"
	"github.com/ariel-frischer/pyinit/internal/testutil"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

func resolve(t *testing.T, mutate func(raw *options.Raw)) options.Config {
	t.Helper()
	raw := options.Raw{
		Args:        []string{"foo_bar"},
		License:     "MIT",
		BuildSystem: "setuptools",
		Layout:      "src",
		Tests:       "unittest",
		CI:          "github",
		Format:      "none",
		Lint:        "none",
		Env:         "venv",
		Python:      "3",
	}
	if mutate != nil {
		mutate(&raw)
	}
	cfg, err := options.Resolve(raw)
	require.NoError(t, err)
	cfg, err = cfg.Complete(options.Author{Name: "Ada", Email: "ada@example.com"}, "A sample", "", "")
	require.NoError(t, err)
	return cfg
}

func newTree(t *testing.T, cfg options.Config) *skeleton.Tree {
	t.Helper()
	tree, err := skeleton.Create(filepath.Join(t.TempDir(), cfg.PackageName), cfg)
	require.NoError(t, err)
	return tree
}

// poetryWrites makes the fake poetry init leave a pyproject.toml naming name.
// Real poetry writes the canonical form, e.g. "foo-bar" for foo_bar.
func poetryWrites(t *testing.T, name string) func(toolchain.Command) {
	return func(cmd toolchain.Command) {
		if cmd.Name != "poetry" || len(cmd.Args) == 0 || cmd.Args[0] != "init" {
			return
		}
		body := "[tool.poetry]\nname = \"" + name + "\"\nversion = \"0.1.0\"\n"
		if err := os.WriteFile(filepath.Join(cmd.Dir, pyproject.FileName), []byte(body), 0o644); err != nil {
			t.Errorf("writing fake pyproject: %v", err)
		}
	}
}

func TestRun_Scenarios(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate        func(raw *options.Raw)
		hostAvailable bool
		wantLines     []string
		wantDone      []string
		wantSkipped   []string
		wantFiles     []string
		wantAbsent    []string
	}{
		"defaults": {
			wantLines: []string{
				"python3 -m venv venv",
				"python -m pip install --upgrade pip",
				"pip install -e .",
			},
			wantDone:    []string{StepEnvironment, StepActivate, StepInstall, StepCI},
			wantSkipped: []string{StepManifest, StepVCS, StepRemote, StepPreCommit, StepDocs, StepRepository},
			wantFiles:   []string{render.GitHubWorkflowPath},
			wantAbsent:  []string{render.PreCommitPath},
		},
		"everything on": {
			mutate: func(raw *options.Raw) {
				raw.Git = true
				raw.CreateRepo = true
				raw.Docs = true
				raw.Remote = "git@github.com:ada/foo_bar.git"
				raw.Format = "black"
				raw.Lint = "flake8"
				raw.Tests = "pytest"
				raw.Python = "3.11"
				raw.CI = "travis"
			},
			hostAvailable: true,
			wantLines: []string{
				"git init",
				"git add .",
				`git commit -m "Initial commit"`,
				"git remote add origin git@github.com:ada/foo_bar.git",
				"python3.11 -m venv venv",
				"python -m pip install --upgrade pip",
				"pip install -e .",
				"pip install black flake8 pytest",
				"pip install pre-commit",
				"pre-commit install",
				"pre-commit install",
				"pip install sphinx",
				"sphinx-quickstart docs --quiet --project foo_bar --author Ada --release 0.1.0 --language en --sep",
				"gh repo create foo_bar --public --source=. --push --remote github",
			},
			wantDone: []string{
				StepVCS, StepRemote, StepEnvironment, StepActivate, StepInstall,
				StepPreCommit, StepDocs, StepCI, StepRepository,
			},
			wantSkipped: []string{StepManifest},
			wantFiles:   []string{render.TravisPath, render.PreCommitPath},
			wantAbsent:  []string{render.GitHubWorkflowPath},
		},
		"poetry build and env": {
			mutate: func(raw *options.Raw) {
				raw.BuildSystem = "poetry"
				raw.Env = "poetry"
				raw.Tests = "pytest"
				raw.Docs = true
				raw.CI = "none"
			},
			wantLines: []string{
				`poetry init --no-interaction --name foo_bar --description "A sample" --author "Ada <ada@example.com>" --python ^3 --license MIT`,
				"poetry install",
				"poetry add --group dev pytest",
				"poetry add --group dev sphinx",
				"poetry run sphinx-quickstart docs --quiet --project foo_bar --author Ada --release 0.1.0 --language en --sep",
			},
			wantDone:    []string{StepManifest, StepInstall, StepDocs},
			wantSkipped: []string{StepVCS, StepRemote, StepEnvironment, StepActivate, StepPreCommit, StepCI, StepRepository},
			wantFiles:   []string{pyproject.FileName},
			wantAbsent:  []string{render.GitHubWorkflowPath},
		},
		"poetry build in a venv": {
			mutate: func(raw *options.Raw) {
				raw.BuildSystem = "poetry"
				raw.Lint = "pylint"
			},
			wantLines: []string{
				`poetry init --no-interaction --name foo_bar --description "A sample" --author "Ada <ada@example.com>" --python ^3 --license MIT`,
				"python3 -m venv venv",
				"python -m pip install --upgrade pip",
				"pip install pylint",
				"pip install pre-commit",
			},
			wantDone:    []string{StepManifest, StepEnvironment, StepActivate, StepInstall, StepPreCommit, StepCI},
			wantSkipped: []string{StepVCS, StepRemote, StepDocs, StepRepository},
			wantFiles:   []string{render.PreCommitPath, pyproject.FileName},
		},
		"virtualenv": {
			mutate: func(raw *options.Raw) {
				raw.Env = "virtualenv"
				raw.Python = "3.10"
				raw.CI = "circleci"
			},
			wantLines: []string{
				"virtualenv -p python3.10 venv",
				"python -m pip install --upgrade pip",
				"pip install -e .",
			},
			wantDone:    []string{StepEnvironment, StepActivate, StepInstall, StepCI},
			wantSkipped: []string{StepManifest, StepVCS, StepRemote, StepPreCommit, StepDocs, StepRepository},
			wantFiles:   []string{render.CircleCIPath},
		},
		"create repo without gh": {
			mutate: func(raw *options.Raw) {
				raw.CreateRepo = true
			},
			wantLines: []string{
				"git init",
				"git add .",
				`git commit -m "Initial commit"`,
				"python3 -m venv venv",
				"python -m pip install --upgrade pip",
				"pip install -e .",
			},
			wantDone:    []string{StepVCS, StepEnvironment, StepActivate, StepInstall, StepCI},
			wantSkipped: []string{StepManifest, StepRemote, StepPreCommit, StepDocs, StepRepository},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := resolve(t, tt.mutate)
			tree := newTree(t, cfg)
			runner := &testutil.FakeRunner{OnRun: poetryWrites(t, "foo-bar")}
			tools := NewTools(cfg, ToolsConfig{Runner: runner, VCSBackend: BackendGitCLI, HostAvailable: tt.hostAvailable})

			summary, err := New(cfg, tree, tools, Options{}, nil, nil).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantLines, runner.Lines())
			assert.ElementsMatch(t, tt.wantDone, summary.Names(OutcomeDone))
			assert.ElementsMatch(t, tt.wantSkipped, summary.Names(OutcomeSkipped))
			assert.Empty(t, summary.Names(OutcomeFailed))
			for _, f := range tt.wantFiles {
				assert.FileExists(t, tree.Path(f))
				assert.Contains(t, tree.FilesCreated, f)
			}
			for _, f := range tt.wantAbsent {
				assert.NoFileExists(t, tree.Path(f))
			}
		})
	}
}

func TestRun_StepOrder(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, nil)
	summary, err := New(cfg, newTree(t, cfg), NewTools(cfg, ToolsConfig{Runner: &testutil.FakeRunner{}}), Options{}, nil, nil).
		Run(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(summary.Steps))
	for _, s := range summary.Steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		StepManifest, StepVCS, StepRemote, StepEnvironment, StepActivate,
		StepInstall, StepPreCommit, StepDocs, StepCI, StepRepository,
	}, names)
}

func TestRun_FailureAbortsRemainingSteps(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, func(raw *options.Raw) { raw.Git = true })
	tree := newTree(t, cfg)
	runner := &testutil.FakeRunner{}
	runner.FailOn("pip install -e", 1, "error: no setup.py\n")

	var logBuf bytes.Buffer
	log := runlog.New(&logBuf, nil, false)
	summary, err := New(cfg, tree, NewTools(cfg, ToolsConfig{Runner: runner}), Options{}, log, nil).
		Run(context.Background())

	require.Error(t, err)
	assert.True(t, clierrors.HasCategory(err, clierrors.Runtime))
	assert.Contains(t, err.Error(), `step "install" failed`)

	last := summary.Steps[len(summary.Steps)-1]
	assert.Equal(t, StepInstall, last.Name)
	assert.Equal(t, OutcomeFailed, last.Outcome)
	assert.Contains(t, last.Reason, "error: no setup.py")

	_, reached := summary.Result(StepCI)
	assert.False(t, reached)
	assert.NoFileExists(t, tree.Path(render.GitHubWorkflowPath))
	assert.Equal(t, "pip install -e .", runner.Lines()[len(runner.Lines())-1])
	assert.Contains(t, logBuf.String(), "step failed")
}

func TestRun_ManifestNameMismatch(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, func(raw *options.Raw) { raw.BuildSystem = "poetry" })
	runner := &testutil.FakeRunner{OnRun: poetryWrites(t, "something_else")}

	summary, err := New(cfg, newTree(t, cfg), NewTools(cfg, ToolsConfig{Runner: runner}), Options{}, nil, nil).
		Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `step "manifest" failed`)
	require.Len(t, summary.Steps, 1)
	assert.Contains(t, summary.Steps[0].Reason, `names project "something_else"`)
}

func TestRun_Warnings(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate     func(raw *options.Raw)
		step       string
		wantReason string
		wantLog    string
	}{
		"remote without repository": {
			mutate:     func(raw *options.Raw) { raw.Remote = "https://example.com/foo_bar.git" },
			step:       StepRemote,
			wantReason: "no repository",
			wantLog:    "step skipped",
		},
		"gh missing": {
			mutate:     func(raw *options.Raw) { raw.CreateRepo = true },
			step:       StepRepository,
			wantReason: "gh not found",
			wantLog:    "gh not found",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := resolve(t, tt.mutate)
			var logBuf bytes.Buffer
			o := New(cfg, newTree(t, cfg), NewTools(cfg, ToolsConfig{Runner: &testutil.FakeRunner{}}),
				Options{HostMissingReason: "gh not found in PATH"}, runlog.New(&logBuf, nil, false), nil)

			summary, err := o.Run(context.Background())
			require.NoError(t, err)

			r, ok := summary.Result(tt.step)
			require.True(t, ok)
			assert.Equal(t, OutcomeSkipped, r.Outcome)
			assert.True(t, r.Warning)
			assert.Contains(t, r.Reason, tt.wantReason)
			assert.Contains(t, logBuf.String(), "level=warn")
			assert.Contains(t, logBuf.String(), tt.wantLog)
		})
	}
}

func TestRun_PreCommitWithoutRepository(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, func(raw *options.Raw) { raw.Format = "autopep8" })
	tree := newTree(t, cfg)
	runner := &testutil.FakeRunner{}
	var logBuf bytes.Buffer

	_, err := New(cfg, tree, NewTools(cfg, ToolsConfig{Runner: runner}), Options{}, runlog.New(&logBuf, nil, false), nil).
		Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, runner.Lines(), "pip install pre-commit")
	assert.NotContains(t, runner.Lines(), "pre-commit install")
	assert.FileExists(t, tree.Path(render.PreCommitPath))
	assert.Contains(t, logBuf.String(), "pre-commit hooks not registered")
}

func TestRun_CustomCommitMessage(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, func(raw *options.Raw) { raw.Git = true })
	runner := &testutil.FakeRunner{}
	_, err := New(cfg, newTree(t, cfg), NewTools(cfg, ToolsConfig{Runner: runner}),
		Options{CommitMessage: "chore: scaffold"}, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, runner.Lines(), `git commit -m "chore: scaffold"`)
}

func TestRun_GoGitBackend(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, func(raw *options.Raw) {
		raw.Git = true
		raw.Remote = "https://github.com/ada/foo_bar.git"
	})
	tree := newTree(t, cfg)
	runner := &testutil.FakeRunner{}

	_, err := New(cfg, tree, NewTools(cfg, ToolsConfig{Runner: runner, VCSBackend: BackendGoGit}), Options{}, nil, nil).
		Run(context.Background())
	require.NoError(t, err)

	for _, line := range runner.Lines() {
		assert.False(t, strings.HasPrefix(line, "git "), "git binary invoked: %s", line)
	}

	repo, err := git.PlainOpen(tree.Root)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Initial commit", strings.TrimSpace(commit.Message))
	assert.Equal(t, "Ada", commit.Author.Name)

	remote, err := repo.Remote(toolchain.DefaultRemote)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/ada/foo_bar.git"}, remote.Config().URLs)
}

func TestRun_ProgressIndicator(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, func(raw *options.Raw) { raw.CI = "none" })
	rec := &recordingIndicator{}
	_, err := New(cfg, newTree(t, cfg), NewTools(cfg, ToolsConfig{Runner: &testutil.FakeRunner{}}), Options{}, nil, rec).
		Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, rec.events, "start "+StepEnvironment)
	assert.Contains(t, rec.events, "done "+StepEnvironment)
	assert.Contains(t, rec.events, "skip "+StepCI+" --ci none")
}

type recordingIndicator struct {
	events []string
}

func (r *recordingIndicator) Start(label string) { r.events = append(r.events, "start "+label) }
func (r *recordingIndicator) Done(label string)  { r.events = append(r.events, "done "+label) }
func (r *recordingIndicator) Fail(label string)  { r.events = append(r.events, "fail "+label) }
func (r *recordingIndicator) Skip(label, reason string) {
	r.events = append(r.events, "skip "+label+" "+reason)
}
