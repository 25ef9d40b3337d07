// Package cli implements the pyinit command line: a single root command that
// takes the package name and the scaffolding flags, wires configuration,
// prompts and the run log, and maps every outcome to an exit status.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ariel-frischer/pyinit/internal/config"
	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/progress"
	"github.com/ariel-frischer/pyinit/internal/runlog"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
	"github.com/ariel-frischer/pyinit/internal/version"
)

// App is the process environment a run depends on.
type App struct {
	In     io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// WorkDir is where the project root and the run log are created.
	WorkDir string

	Runner   toolchain.Runner
	LookPath toolchain.LookPathFunc
	Prompter Prompter
	// Interactive is false when stdin is not a terminal.
	Interactive bool
	Indicator   progress.Indicator

	LoadConfig func() (*config.Configuration, error)
	Now        func() time.Time
}

// DefaultApp wires the App to the real process.
func DefaultApp() (*App, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	var indicator progress.Indicator = progress.Silent{}
	if caps := progress.DetectTerminalCapabilities(os.Stderr); caps.IsTTY {
		indicator = progress.NewSpinner(os.Stderr, caps)
	}

	return &App{
		In:          os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		WorkDir:     wd,
		Runner:      toolchain.ExecRunner{},
		LookPath:    toolchain.LookPath,
		Prompter:    huhPrompter{in: os.Stdin, out: os.Stderr},
		Interactive: progress.IsInteractive(os.Stdin),
		Indicator:   indicator,
		LoadConfig:  config.Load,
		Now:         time.Now,
	}, nil
}

// Execute runs pyinit with the process arguments and returns the exit code.
func Execute() int {
	app, err := DefaultApp()
	if err != nil {
		clierrors.FprintError(os.Stderr, err)
		return ExitFailure
	}
	return app.Run(context.Background(), os.Args[1:])
}

// Run executes one invocation. Every outcome is appended to the run log
// before Run returns.
func (a *App) Run(ctx context.Context, args []string) int {
	conf, confErr := a.LoadConfig()

	logFile, _ := config.GetDefaults()["log_file"].(string)
	if confErr == nil {
		logFile = conf.LogFile
	}
	if !filepath.IsAbs(logFile) {
		logFile = filepath.Join(a.WorkDir, logFile)
	}
	log, err := runlog.Open(logFile, a.Stderr, false)
	if err != nil {
		clierrors.FprintError(a.Stderr, clierrors.Wrap(err, clierrors.Prerequisite,
			"Run pyinit from a writable directory or set log_file in the config"))
		return ExitFailure
	}
	defer log.Close()

	log.Info("pyinit started", "version", version.Version, "args", strings.Join(args, " "))

	if confErr != nil {
		if !clierrors.IsCLIError(confErr) {
			confErr = clierrors.WrapWithMessage(confErr, clierrors.Configuration,
				"failed to load config",
				"Check the user config file for syntax errors",
				"Or unset the PYINIT_* environment variables")
		}
		return a.fail(log, confErr)
	}

	cmd, state := newRootCmd(a, conf, log)
	cmd.SetArgs(args)
	cmd.SetIn(a.In)
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return a.fail(log, err)
	}
	if state.helpShown {
		log.Info("usage shown", "status", ExitFailure)
		return ExitFailure
	}
	if f := cmd.Flags().Lookup("version"); f != nil && f.Changed {
		log.Info("version shown")
		return ExitSuccess
	}
	log.Info("run finished", "status", ExitSuccess)
	return ExitSuccess
}

func (a *App) fail(log *runlog.Logger, err error) int {
	keyvals := []interface{}{"err", err}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		keyvals = append(keyvals, "category", cliErr.Category.String())
		if cliErr.Cause != nil {
			keyvals = append(keyvals, "cause", cliErr.Cause)
		}
	}
	log.RecordError("run failed", keyvals...)
	clierrors.FprintError(a.Stderr, err)
	return ExitFailure
}

type rootState struct {
	helpShown bool
}

type runFlags struct {
	noInput bool
	verbose bool
}

func newRootCmd(a *App, conf *config.Configuration, log *runlog.Logger) (*cobra.Command, *rootState) {
	state := &rootState{}
	raw := options.Raw{}
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "pyinit <package_name> [flags]",
		Short: "Scaffold a new Python package",
		Long: `Scaffold a new Python package.

Creates <package_name>/ in the current directory with the package code, tests,
README, LICENSE, build manifest, lint and CI configuration, then optionally
initializes git, a virtual environment, pre-commit hooks, Sphinx docs and a
GitHub repository. Flag defaults come from the user config file and PYINIT_*
environment variables.`,
		Example: `  # Defaults: setuptools, src layout, unittest, GitHub Actions, venv
  pyinit foo_bar

  # Flat layout with pytest and an Apache license
  pyinit foo_bar --layout direct --tests pytest --license Apache-2.0

  # Poetry project with black, flake8, git and a GitHub repository
  pyinit foo_bar --build-system poetry --env poetry --format black --lint flake8 --git --create-repo`,
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw.Args = args
			raw.Changed = make(map[string]bool)
			cmd.Flags().Visit(func(f *pflag.Flag) {
				raw.Changed[f.Name] = true
			})
			if flags.verbose {
				log.SetVerbose()
			}
			return a.runProject(cmd.Context(), conf, raw, flags, log)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&raw.Git, "git", false, "initialize a git repository and commit the generated files")
	f.StringVar(&raw.Remote, "remote", "", "register `url` as the origin remote")
	f.BoolVar(&raw.CreateRepo, "create-repo", false, "create a public GitHub repository and push (requires gh)")
	f.StringVar(&raw.License, "license", conf.License, "license `type`: "+joinLicenses())
	f.StringVar(&raw.BuildSystem, "build-system", conf.BuildSystem, "build `system`: setuptools, poetry")
	f.StringVar(&raw.Layout, "layout", conf.Layout, "package `layout`: src, direct")
	f.StringVar(&raw.Tests, "tests", conf.Tests, "test `framework`: unittest, pytest")
	f.StringVar(&raw.CI, "ci", conf.CI, "CI `service`: github, travis, circleci, none")
	f.StringVar(&raw.Format, "format", conf.Format, "`formatter`: black, autopep8, none")
	f.StringVar(&raw.Lint, "lint", conf.Lint, "`linter`: flake8, pylint, none")
	f.BoolVar(&raw.Docs, "docs", false, "generate a Sphinx docs/ skeleton")
	f.StringVar(&raw.Env, "env", conf.Env, "environment `tool`: venv, virtualenv, poetry")
	f.StringVar(&raw.Python, "python", conf.Python, "python `version`, major[.minor]")
	f.StringVar(&raw.Author, "author", "", "author `name` (prompted when omitted)")
	f.StringVar(&raw.Email, "email", "", "author `email` (prompted when omitted)")
	f.StringVar(&raw.Description, "description", "", "one-line project `description`")
	f.StringVar(&raw.URL, "url", "", "project `url` (default https://github.com/<user>/<package_name>)")
	f.BoolVar(&flags.noInput, "no-input", false, "never prompt; use configured or derived values")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "echo debug output, including every command line")
	f.SortFlags = false

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return flagError(err)
	})

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		state.helpShown = true
		defaultHelp(c, args)
	})

	return cmd, state
}

func joinLicenses() string {
	ids := make([]string, len(options.SupportedLicenses))
	for i, l := range options.SupportedLicenses {
		ids[i] = string(l)
	}
	return strings.Join(ids, ", ")
}

// flagError maps flag parser failures onto validation errors.
func flagError(err error) error {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag needs an argument: --"); ok {
		return clierrors.MissingFlagValue(name)
	}
	return clierrors.NewValidationErrorWithUsage(msg, clierrors.Usage,
		"Run 'pyinit --help' to see all flags")
}
