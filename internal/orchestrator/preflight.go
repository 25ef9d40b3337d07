package orchestrator

import (
	"github.com/ariel-frischer/pyinit/internal/health"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/runlog"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// Preflight checks that every mandatory tool for cfg is on PATH. It runs
// before the project root exists, so a missing tool leaves nothing behind.
// Optional tools that are missing are logged and reported in the result.
func Preflight(cfg options.Config, required []string, lookPath toolchain.LookPathFunc, log *runlog.Logger) (*health.HealthReport, error) {
	if log == nil {
		log = runlog.Discard()
	}

	report := health.RunHealthChecks(health.Requirements(cfg, required), lookPath)
	for _, c := range report.Checks {
		log.Debug("tool check", "tool", c.Name, "passed", c.Passed, "detail", c.Message)
	}
	for _, tool := range report.MissingOptional() {
		log.Warn("optional tool not found", "tool", tool)
	}

	if err := report.Err(); err != nil {
		return report, err
	}
	return report, nil
}
