package orchestrator

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Outcome is how a step ended.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// StepResult records one step of a run.
type StepResult struct {
	Name     string
	Outcome  Outcome
	Reason   string
	Warning  bool
	Duration time.Duration
}

// Summary is the ordered record of a run.
type Summary struct {
	Steps []StepResult
}

func (s *Summary) add(r StepResult) {
	s.Steps = append(s.Steps, r)
}

// Result returns the entry for the named step.
func (s *Summary) Result(name string) (StepResult, bool) {
	for _, r := range s.Steps {
		if r.Name == name {
			return r, true
		}
	}
	return StepResult{}, false
}

// Names lists the steps with the given outcome, in order.
func (s *Summary) Names(outcome Outcome) []string {
	var names []string
	for _, r := range s.Steps {
		if r.Outcome == outcome {
			names = append(names, r.Name)
		}
	}
	return names
}

// Fprint writes a one-line-per-step report.
func (s *Summary) Fprint(w io.Writer, project string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(w, "\nProject %s:\n", project)
	width := 0
	for _, r := range s.Steps {
		width = max(width, len(r.Name))
	}
	for _, r := range s.Steps {
		name := r.Name + strings.Repeat(" ", width-len(r.Name))
		switch {
		case r.Outcome == OutcomeDone:
			fmt.Fprintf(w, "  %s %s %s\n", green("✓"), name, dim(r.Duration.Round(time.Millisecond)))
		case r.Outcome == OutcomeFailed:
			fmt.Fprintf(w, "  %s %s %s\n", red("✗"), name, r.Reason)
		case r.Warning:
			fmt.Fprintf(w, "  %s %s %s\n", yellow("!"), name, r.Reason)
		default:
			fmt.Fprintf(w, "  %s %s %s\n", dim("-"), name, dim(r.Reason))
		}
	}
}
