package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// EchoEnv names environment variables to print to stdout as KEY=VALUE lines.
	EchoEnv []string `json:"echo_env,omitempty"`
	// EchoDir prints the working directory to stdout.
	EchoDir bool `json:"echo_dir,omitempty"`
}

const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess implements the helper process pattern. When the test
// binary is started with GO_WANT_HELPER_PROCESS=1 it behaves as the mocked
// command and exits without returning; otherwise it returns immediately.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if raw := os.Getenv(EnvHelperProcessConfig); raw != "" {
		_ = json.Unmarshal([]byte(raw), &config)
	}

	if config.EchoDir {
		wd, _ := os.Getwd()
		fmt.Fprintln(os.Stdout, wd)
	}
	for _, key := range config.EchoEnv {
		fmt.Fprintf(os.Stdout, "%s=%s\n", key, os.Getenv(key))
	}
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	os.Exit(config.ExitCode)
}

// HelperCommand builds a toolchain.Command that re-runs the test binary as
// the helper named testName, configured by config.
func HelperCommand(t *testing.T, testName string, config HelperProcessConfig) toolchain.Command {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}

	return toolchain.Command{
		Name: testBinary,
		Args: []string{"-test.run=^" + testName + "$"},
		Env: []string{
			EnvWantHelperProcess + "=1",
			EnvHelperProcessConfig + "=" + string(configJSON),
		},
	}
}
