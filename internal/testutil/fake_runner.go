// Package testutil provides test doubles for the external tool layer: a
// recording Runner, a PATH lookup over a fixed tool set, and the helper
// process pattern for exercising real process execution.
package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// FakeRunner records every command and answers from a list of failure rules.
// Commands with no matching rule succeed with empty output.
type FakeRunner struct {
	mu    sync.Mutex
	calls []toolchain.Command
	rules []failRule
	// OnRun, when set, is called for every command before it is recorded.
	// Tests use it to simulate side effects such as poetry writing pyproject.toml.
	OnRun func(cmd toolchain.Command)
}

type failRule struct {
	contains string
	exitCode int
	stderr   string
}

// FailOn makes every command whose String() contains substr exit with code.
func (f *FakeRunner) FailOn(substr string, code int, stderr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, failRule{contains: substr, exitCode: code, stderr: stderr})
}

// Run implements toolchain.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd toolchain.Command) (toolchain.Result, error) {
	if f.OnRun != nil {
		f.OnRun(cmd)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)

	line := cmd.String()
	for _, r := range f.rules {
		if strings.Contains(line, r.contains) {
			res := toolchain.Result{Command: cmd, ExitCode: r.exitCode, Stderr: r.stderr}
			return res, &toolchain.ExitError{Command: cmd, ExitCode: r.exitCode, Stderr: r.stderr}
		}
	}
	return toolchain.Result{Command: cmd}, nil
}

// Calls returns the recorded commands in order.
func (f *FakeRunner) Calls() []toolchain.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]toolchain.Command(nil), f.calls...)
}

// Lines returns the recorded command lines with the binary reduced to its
// base name, so environment paths do not leak into assertions.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		name := c.Name
		if j := strings.LastIndexAny(name, `/\`); j >= 0 {
			name = name[j+1:]
		}
		c.Name = name
		lines[i] = c.String()
	}
	return lines
}

// LookPath returns a toolchain.LookPathFunc that finds exactly the given tools.
func LookPath(available ...string) toolchain.LookPathFunc {
	set := make(map[string]bool, len(available))
	for _, a := range available {
		set[a] = true
	}
	return func(file string) (string, error) {
		if set[file] {
			return "/usr/bin/" + file, nil
		}
		return "", fmt.Errorf("exec: %q: %w", file, exec.ErrNotFound)
	}
}
