// Package health checks that the external tools a run depends on are present.
// Mandatory tools abort the run before anything is written; optional ones
// only mark their step for skipping.
package health

import (
	"fmt"
	"strings"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// Requirement is one tool the run may invoke.
type Requirement struct {
	Tool     string
	Reason   string
	Optional bool
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name     string
	Passed   bool
	Optional bool
	Reason   string
	Message  string
	Path     string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Requirements lists the tools a run with cfg needs. required holds the
// configured baseline tools; the rest follow from the selected options.
func Requirements(cfg options.Config, required []string) []Requirement {
	reqs := make([]Requirement, 0, len(required)+3)
	seen := make(map[string]bool)
	add := func(r Requirement) {
		if seen[r.Tool] {
			return
		}
		seen[r.Tool] = true
		reqs = append(reqs, r)
	}

	for _, tool := range required {
		add(Requirement{Tool: tool, Reason: "required by configuration"})
	}
	if cfg.UsesPoetry() {
		add(Requirement{Tool: "poetry", Reason: "selected as build system or environment tool"})
	}
	if cfg.Env == options.EnvVirtualenv {
		add(Requirement{Tool: "virtualenv", Reason: "selected as environment tool"})
	}
	if cfg.CreateRepo {
		add(Requirement{Tool: "gh", Reason: "needed for --create-repo", Optional: true})
	}
	return reqs
}

// RunHealthChecks looks up every requirement with lookPath.
func RunHealthChecks(reqs []Requirement, lookPath toolchain.LookPathFunc) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, len(reqs)),
		Passed: true,
	}

	for _, r := range reqs {
		check := CheckTool(r, lookPath)
		report.Checks = append(report.Checks, check)
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}
	return report
}

// CheckTool checks a single requirement.
func CheckTool(r Requirement, lookPath toolchain.LookPathFunc) CheckResult {
	path, err := lookPath(r.Tool)
	if err != nil {
		return CheckResult{
			Name:     r.Tool,
			Passed:   false,
			Optional: r.Optional,
			Reason:   r.Reason,
			Message:  fmt.Sprintf("not found in PATH (%s)", r.Reason),
		}
	}

	return CheckResult{
		Name:     r.Tool,
		Passed:   true,
		Optional: r.Optional,
		Reason:   r.Reason,
		Message:  "found at " + path,
		Path:     path,
	}
}

// Available reports whether tool passed its check.
func (r *HealthReport) Available(tool string) bool {
	for _, c := range r.Checks {
		if c.Name == tool {
			return c.Passed
		}
	}
	return false
}

// Err returns a MissingTool error for the first mandatory tool that failed,
// or nil.
func (r *HealthReport) Err() error {
	for _, c := range r.Checks {
		if !c.Passed && !c.Optional {
			return clierrors.MissingTool(c.Name, c.Reason)
		}
	}
	return nil
}

// MissingOptional lists optional tools that were not found.
func (r *HealthReport) MissingOptional() []string {
	var missing []string
	for _, c := range r.Checks {
		if !c.Passed && c.Optional {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&b, "○ %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&b, "✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return b.String()
}
