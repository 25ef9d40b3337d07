package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ariel-frischer/pyinit/internal/config"
	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
	"github.com/ariel-frischer/pyinit/internal/health"
	"github.com/ariel-frischer/pyinit/internal/license"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/orchestrator"
	"github.com/ariel-frischer/pyinit/internal/progress"
	"github.com/ariel-frischer/pyinit/internal/render"
	"github.com/ariel-frischer/pyinit/internal/runlog"
	"github.com/ariel-frischer/pyinit/internal/skeleton"
)

// LicenseFile is the license text written into the project root.
const LicenseFile = "LICENSE"

// runProject resolves the options, checks the toolchain, writes the project
// tree and hands over to the orchestrator. Nothing touches the filesystem
// until validation and the tool check have passed.
func (a *App) runProject(ctx context.Context, conf *config.Configuration, raw options.Raw, flags runFlags, log *runlog.Logger) error {
	cfg, err := options.Resolve(raw)
	if err != nil {
		return err
	}
	log.Debug("options resolved",
		"package", cfg.PackageName,
		"build_system", cfg.BuildSystem,
		"layout", cfg.Layout,
		"tests", cfg.Tests,
		"ci", cfg.CI,
		"env", cfg.Env,
		"python", cfg.Python,
		"license", cfg.License,
	)

	cfg, err = a.complete(ctx, conf, cfg, flags)
	if err != nil {
		return err
	}

	report, err := orchestrator.Preflight(cfg, conf.RequiredTools, a.LookPath, log)
	if err != nil {
		fmt.Fprint(a.Stderr, health.FormatReport(report))
		return err
	}

	root := filepath.Join(a.WorkDir, cfg.PackageName)
	tree, err := skeleton.Create(root, cfg)
	if err != nil {
		return err
	}
	log.Info("project root created", "path", root, "layout", cfg.Layout)

	artifacts, err := render.Project(cfg)
	if err != nil {
		return clierrors.StepFailed("render", err)
	}
	if err := tree.WriteAll(artifacts); err != nil {
		return clierrors.StepFailed("render", err)
	}
	for _, art := range artifacts {
		log.Debug("file written", "path", art.Path)
	}

	if err := a.writeLicense(ctx, conf, cfg, tree, log); err != nil {
		return err
	}

	python, err := conf.PythonArgv()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration)
	}
	tools := orchestrator.NewTools(cfg, orchestrator.ToolsConfig{
		Runner:        a.Runner,
		Python:        python,
		VCSBackend:    conf.VCSBackend,
		HostAvailable: report.Available("gh"),
		Debugf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})

	if _, ok := a.Indicator.(*progress.Spinner); ok {
		log.QuietConsole()
	}
	summary, err := orchestrator.New(cfg, tree, tools, orchestrator.Options{
		CommitMessage:     conf.CommitMessage,
		HostMissingReason: "gh not found in PATH",
	}, log, a.Indicator).Run(ctx)
	summary.Fprint(a.Stdout, cfg.PackageName)
	if err != nil {
		return err
	}

	log.Info("project created", "path", root, "files", len(tree.FilesCreated), "dirs", len(tree.DirsCreated))
	return nil
}

// complete fills the free-text fields, prompting only when allowed.
func (a *App) complete(ctx context.Context, conf *config.Configuration, cfg options.Config, flags runFlags) (options.Config, error) {
	defaults := Answers{
		Author:     options.Author{Name: conf.AuthorName, Email: conf.AuthorEmail},
		ProjectURL: options.DefaultProjectURL(conf.GitHubUser, cfg.PackageName),
	}

	prompter := a.Prompter
	if prompter == nil || flags.noInput || conf.NoInput || !a.Interactive {
		prompter = noPrompt{}
	}

	answers, err := prompter.Ask(ctx, cfg.Missing(), defaults)
	if err != nil {
		return options.Config{}, clierrors.WrapWithMessage(err, clierrors.Validation,
			"prompt aborted", "Pass --no-input to skip the prompts")
	}
	return cfg.Complete(answers.Author, answers.Description, answers.ProjectURL, conf.GitHubUser)
}

// writeLicense writes LICENSE for supported identifiers. An unsupported
// identifier is a warning and the file is omitted.
func (a *App) writeLicense(ctx context.Context, conf *config.Configuration, cfg options.Config, tree *skeleton.Tree, log *runlog.Logger) error {
	fetcher := license.NewFetcher(conf.LicenseURL, conf.Timeout())
	text, err := fetcher.Render(ctx, cfg.License, cfg.Author.Name, a.Now().Year())
	switch {
	case errors.Is(err, license.ErrUnsupported):
		log.Warn("unsupported license, no LICENSE file written",
			"license", cfg.License, "supported", joinLicenses())
		return nil
	case err != nil:
		return clierrors.StepFailed("license", err)
	}

	if !text.Remote {
		log.Warn("license download failed, using the bundled text", "license", cfg.License)
	}
	if err := tree.Write(render.Artifact{Path: LicenseFile, Content: text.Content}); err != nil {
		return clierrors.StepFailed("license", err)
	}
	log.Info("license written", "license", cfg.License, "remote", text.Remote)
	return nil
}
