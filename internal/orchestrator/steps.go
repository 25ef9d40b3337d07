package orchestrator

import (
	"context"
	"fmt"

	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/pyproject"
	"github.com/ariel-frischer/pyinit/internal/render"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// GitHubRemote is the remote name gh registers when origin is already taken.
const GitHubRemote = "github"

func (o *Orchestrator) root() string { return o.tree.Root }

func (o *Orchestrator) skipManifest() (string, bool) {
	if !o.cfg.UsesPoetry() {
		return "setup.py manifest already written", false
	}
	return "", false
}

func (o *Orchestrator) writeManifest(ctx context.Context) error {
	info := toolchain.ManifestInfo{
		Name:        o.cfg.PackageName,
		Description: o.cfg.Description,
		Python:      o.cfg.Python.PoetryConstraint(),
		License:     string(o.cfg.License),
	}
	if o.cfg.Author.Name != "" {
		info.Author = o.cfg.Author.Name
		if o.cfg.Author.Email != "" {
			info.Author += " <" + o.cfg.Author.Email + ">"
		}
	}
	if err := o.tools.Manifest.Init(ctx, o.root(), info); err != nil {
		return err
	}
	if _, err := pyproject.Verify(o.root(), o.cfg.PackageName); err != nil {
		return err
	}
	o.tree.FilesCreated = append(o.tree.FilesCreated, pyproject.FileName)
	return nil
}

func (o *Orchestrator) skipVCS() (string, bool) {
	if !o.cfg.WantsRepository() {
		return "not requested", false
	}
	return "", false
}

func (o *Orchestrator) initRepository(ctx context.Context) error {
	vcs := o.tools.VCS
	o.log.Debug("initializing repository", "backend", vcs.Name(), "dir", o.root())
	if err := vcs.Init(ctx, o.root()); err != nil {
		return err
	}
	if err := vcs.StageAll(ctx, o.root()); err != nil {
		return err
	}
	return vcs.Commit(ctx, o.root(), o.opts.CommitMessage)
}

func (o *Orchestrator) skipRemote() (string, bool) {
	switch {
	case o.cfg.RemoteURL == "":
		return "no remote URL", false
	case !o.cfg.WantsRepository():
		return "no repository to register the remote in (use --git)", true
	}
	return "", false
}

func (o *Orchestrator) addRemote(ctx context.Context) error {
	return o.tools.VCS.AddRemote(ctx, o.root(), toolchain.DefaultRemote, o.cfg.RemoteURL)
}

func (o *Orchestrator) skipUnderPoetry() (string, bool) {
	if o.cfg.Env == options.EnvPoetry {
		return "poetry manages its own environment", false
	}
	return "", false
}

func (o *Orchestrator) createEnvironment(ctx context.Context) error {
	return o.tools.Env.Create(ctx, o.root())
}

// activate confirms the environment's interpreter is usable. Later steps run
// their commands through the Environment, which is what activation means
// without a shell.
func (o *Orchestrator) activate(_ context.Context) error {
	cmd := o.tools.Env.Command(o.root(), "python")
	o.log.Debug("environment active", "env", o.tools.Env.Name(), "python", cmd.Name)
	return nil
}

// DevPackages lists the development tools installed for cfg.
func DevPackages(cfg options.Config) []string {
	var pkgs []string
	if cfg.Formatter != options.FormatNone {
		pkgs = append(pkgs, string(cfg.Formatter))
	}
	if cfg.Linter != options.LintNone {
		pkgs = append(pkgs, string(cfg.Linter))
	}
	if cfg.Tests == options.TestsPytest {
		pkgs = append(pkgs, "pytest")
	}
	return pkgs
}

func (o *Orchestrator) install(ctx context.Context) error {
	pm := o.tools.Packages
	if err := pm.Prepare(ctx, o.root()); err != nil {
		return err
	}
	if o.cfg.Env == options.EnvPoetry || o.cfg.BuildSystem == options.BuildSetuptools {
		if err := pm.InstallProject(ctx, o.root()); err != nil {
			return err
		}
	}
	return pm.AddDev(ctx, o.root(), DevPackages(o.cfg)...)
}

func (o *Orchestrator) skipPreCommit() (string, bool) {
	if !o.cfg.WantsPreCommit() {
		return "no formatter or linter selected", false
	}
	return "", false
}

// setupPreCommit registers the hook both before and after the config is
// written so the installed hook always matches the final config.
func (o *Orchestrator) setupPreCommit(ctx context.Context) error {
	if err := o.tools.Packages.AddDev(ctx, o.root(), "pre-commit"); err != nil {
		return err
	}

	register := o.cfg.WantsRepository()
	if !register {
		o.log.Warn("pre-commit hooks not registered: no repository (use --git)")
	}

	if register {
		if err := o.tools.Hooks.InstallHooks(ctx, o.root()); err != nil {
			return err
		}
	}

	a, ok, err := render.PreCommit(o.cfg)
	if err != nil {
		return err
	}
	if ok {
		if err := o.tree.Write(a); err != nil {
			return err
		}
	}

	if register {
		return o.tools.Hooks.InstallHooks(ctx, o.root())
	}
	return nil
}

func (o *Orchestrator) skipDocs() (string, bool) {
	if !o.cfg.SetupDocs {
		return "not requested", false
	}
	return "", false
}

func (o *Orchestrator) setupDocs(ctx context.Context) error {
	if err := o.tools.DocsPackages.AddDev(ctx, o.root(), "sphinx"); err != nil {
		return err
	}
	return o.tools.Docs.Quickstart(ctx, o.root(), toolchain.DocsProject{
		Name:    o.cfg.PackageName,
		Author:  o.cfg.Author.Name,
		Release: "0.1.0",
	})
}

func (o *Orchestrator) skipCI() (string, bool) {
	if !o.cfg.WantsCI() {
		return "--ci none", false
	}
	return "", false
}

func (o *Orchestrator) writeCI(_ context.Context) error {
	a, ok, err := render.CI(o.cfg)
	if err != nil || !ok {
		return err
	}
	return o.tree.Write(a)
}

func (o *Orchestrator) skipRepository() (string, bool) {
	switch {
	case !o.cfg.CreateRepo:
		return "not requested", false
	case o.tools.Host == nil:
		reason := o.opts.HostMissingReason
		if reason == "" {
			reason = "repository host CLI not available"
		}
		return reason, true
	}
	return "", false
}

func (o *Orchestrator) createRepository(ctx context.Context) error {
	remote := toolchain.DefaultRemote
	if o.cfg.RemoteURL != "" {
		remote = GitHubRemote
	}
	if err := o.tools.Host.CreateRepository(ctx, o.root(), o.cfg.PackageName, remote); err != nil {
		return fmt.Errorf("%s: %w", o.tools.Host.Name(), err)
	}
	return nil
}
