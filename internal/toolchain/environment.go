package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// VenvDir is the environment directory created inside the project root.
const VenvDir = "venv"

// Environment is an isolated Python runtime. Command rewrites an invocation
// so that it runs inside the environment; this is what "activation" means
// for a process that never sources a shell script.
type Environment interface {
	Name() string
	// Create builds the environment under dir. Managed environments do nothing.
	Create(ctx context.Context, dir string) error
	Command(dir, name string, args ...string) Command
}

// Venv creates the environment with the interpreter's built-in venv module.
type Venv struct {
	Runner Runner
	// Python is the interpreter argv, e.g. ["python3.11"].
	Python []string
}

// Name implements Environment.
func (v Venv) Name() string { return "venv" }

// Create implements Environment.
func (v Venv) Create(ctx context.Context, dir string) error {
	argv := append(append([]string{}, v.Python...), "-m", "venv", VenvDir)
	_, err := v.Runner.Run(ctx, Command{Name: argv[0], Args: argv[1:], Dir: dir})
	return err
}

// Command implements Environment.
func (v Venv) Command(dir, name string, args ...string) Command {
	return venvCommand(dir, name, args)
}

// Virtualenv creates the environment with the third-party virtualenv tool.
type Virtualenv struct {
	Runner Runner
	// Interpreter is passed to -p, e.g. python3.11.
	Interpreter string
}

// Name implements Environment.
func (v Virtualenv) Name() string { return "virtualenv" }

// Create implements Environment.
func (v Virtualenv) Create(ctx context.Context, dir string) error {
	_, err := v.Runner.Run(ctx, Command{
		Name: "virtualenv",
		Args: []string{"-p", v.Interpreter, VenvDir},
		Dir:  dir,
	})
	return err
}

// Command implements Environment.
func (v Virtualenv) Command(dir, name string, args ...string) Command {
	return venvCommand(dir, name, args)
}

// venvCommand points name at the environment's bin directory and exports
// VIRTUAL_ENV and PATH the way the activate script would.
func venvCommand(dir, name string, args []string) Command {
	venv := filepath.Join(dir, VenvDir)
	bin := filepath.Join(venv, "bin")
	return Command{
		Name: filepath.Join(bin, name),
		Args: args,
		Dir:  dir,
		Env: []string{
			"VIRTUAL_ENV=" + venv,
			"PATH=" + strings.Join([]string{bin, os.Getenv("PATH")}, string(os.PathListSeparator)),
		},
	}
}

// PoetryEnv is the environment poetry manages itself.
type PoetryEnv struct{}

// Name implements Environment.
func (PoetryEnv) Name() string { return "poetry" }

// Create implements Environment. Poetry creates its environment on install.
func (PoetryEnv) Create(context.Context, string) error { return nil }

// Command implements Environment.
func (PoetryEnv) Command(dir, name string, args ...string) Command {
	return Command{Name: "poetry", Args: append([]string{"run", name}, args...), Dir: dir}
}
