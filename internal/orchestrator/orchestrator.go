// Package orchestrator runs the external actions that turn a written project
// tree into a working project: manifest, version control, environment,
// installs, hooks, docs, CI and repository hosting. Steps run strictly in
// order and the first failure aborts the run without rollback.
package orchestrator

import (
	"context"
	"time"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/progress"
	"github.com/ariel-frischer/pyinit/internal/runlog"
	"github.com/ariel-frischer/pyinit/internal/skeleton"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// Step names, in execution order.
const (
	StepManifest    = "manifest"
	StepVCS         = "version control"
	StepRemote      = "remote"
	StepEnvironment = "environment"
	StepActivate    = "activate"
	StepInstall     = "install"
	StepPreCommit   = "pre-commit"
	StepDocs        = "docs"
	StepCI          = "ci"
	StepRepository  = "repository"
)

// Tools are the external collaborators a run may drive. Host is nil when the
// repository-hosting CLI is unavailable.
type Tools struct {
	VCS toolchain.VersionControl
	Env toolchain.Environment
	// Packages installs the project and its development tools.
	Packages toolchain.PackageManager
	// Manifest writes pyproject.toml when poetry takes part in the run.
	Manifest ManifestWriter
	// DocsPackages installs the documentation generator.
	DocsPackages toolchain.PackageManager
	Docs         toolchain.DocsGenerator
	Hooks        toolchain.HookManager
	Host         toolchain.RepositoryHost
}

// ManifestWriter is implemented by toolchain.Poetry.
type ManifestWriter interface {
	Init(ctx context.Context, dir string, m toolchain.ManifestInfo) error
}

// Options tune a run beyond the project Config.
type Options struct {
	CommitMessage string
	// HostMissingReason explains a nil Tools.Host in the skip entry.
	HostMissingReason string
}

// Orchestrator executes the steps for one project tree.
type Orchestrator struct {
	cfg      options.Config
	tree     *skeleton.Tree
	tools    Tools
	opts     Options
	log      *runlog.Logger
	progress progress.Indicator
	now      func() time.Time
}

// New creates an Orchestrator. log and indicator may be nil.
func New(cfg options.Config, tree *skeleton.Tree, tools Tools, opts Options, log *runlog.Logger, indicator progress.Indicator) *Orchestrator {
	if log == nil {
		log = runlog.Discard()
	}
	if indicator == nil {
		indicator = progress.Silent{}
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = "Initial commit"
	}
	return &Orchestrator{
		cfg:      cfg,
		tree:     tree,
		tools:    tools,
		opts:     opts,
		log:      log,
		progress: indicator,
		now:      time.Now,
	}
}

// step is one orchestrated action. skip returns a non-empty reason when the
// step does not apply; warn marks a skip the user asked to avoid.
type step struct {
	name string
	skip func() (reason string, warn bool)
	run  func(ctx context.Context) error
}

// Run executes every step in order. The returned Summary covers the steps
// reached so far, including the failing one.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Steps: make([]StepResult, 0, len(o.steps()))}

	for _, s := range o.steps() {
		if reason, warn := s.skip(); reason != "" {
			if warn {
				o.log.Warn("step skipped", "step", s.name, "reason", reason)
			} else {
				o.log.Info("step skipped", "step", s.name, "reason", reason)
			}
			o.progress.Skip(s.name, reason)
			summary.add(StepResult{Name: s.name, Outcome: OutcomeSkipped, Reason: reason, Warning: warn})
			continue
		}

		o.log.Info("step started", "step", s.name)
		o.progress.Start(s.name)
		start := o.now()
		err := s.run(ctx)
		elapsed := o.now().Sub(start)

		if err != nil {
			o.progress.Fail(s.name)
			o.log.Error("step failed", "step", s.name, "err", err)
			summary.add(StepResult{Name: s.name, Outcome: OutcomeFailed, Reason: err.Error(), Duration: elapsed})
			return summary, clierrors.StepFailed(s.name, err)
		}

		o.progress.Done(s.name)
		o.log.Info("step done", "step", s.name, "duration", elapsed.Round(time.Millisecond))
		summary.add(StepResult{Name: s.name, Outcome: OutcomeDone, Duration: elapsed})
	}
	return summary, nil
}

func (o *Orchestrator) steps() []step {
	return []step{
		{name: StepManifest, skip: o.skipManifest, run: o.writeManifest},
		{name: StepVCS, skip: o.skipVCS, run: o.initRepository},
		{name: StepRemote, skip: o.skipRemote, run: o.addRemote},
		{name: StepEnvironment, skip: o.skipUnderPoetry, run: o.createEnvironment},
		{name: StepActivate, skip: o.skipUnderPoetry, run: o.activate},
		{name: StepInstall, skip: never, run: o.install},
		{name: StepPreCommit, skip: o.skipPreCommit, run: o.setupPreCommit},
		{name: StepDocs, skip: o.skipDocs, run: o.setupDocs},
		{name: StepCI, skip: o.skipCI, run: o.writeCI},
		{name: StepRepository, skip: o.skipRepository, run: o.createRepository},
	}
}

func never() (string, bool) { return "", false }
