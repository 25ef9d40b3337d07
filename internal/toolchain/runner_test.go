package toolchain_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/pyinit/internal/testutil"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

func TestHelperProcess(t *testing.T) {
	testutil.TestHelperProcess(t)
}

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config       testutil.HelperProcessConfig
		wantErr      bool
		wantExitCode int
		wantStdout   string
		wantErrText  string
	}{
		"success captures stdout": {
			config:     testutil.HelperProcessConfig{Stdout: "created venv\n"},
			wantStdout: "created venv\n",
		},
		"non-zero exit is an ExitError": {
			config:       testutil.HelperProcessConfig{ExitCode: 3, Stderr: "first\nERROR: no matching distribution\n"},
			wantErr:      true,
			wantExitCode: 3,
			wantErrText:  "exited with status 3: ERROR: no matching distribution",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd := testutil.HelperCommand(t, "TestHelperProcess", tt.config)
			res, err := toolchain.ExecRunner{}.Run(context.Background(), cmd)

			assert.Equal(t, tt.wantExitCode, res.ExitCode)
			if tt.wantErr {
				require.Error(t, err)
				var exitErr *toolchain.ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Contains(t, err.Error(), tt.wantErrText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStdout, res.Stdout)
		})
	}
}

func TestExecRunner_DirAndEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmd := testutil.HelperCommand(t, "TestHelperProcess", testutil.HelperProcessConfig{
		EchoDir: true,
		EchoEnv: []string{"VIRTUAL_ENV"},
	})
	cmd.Dir = dir
	cmd.Env = append(cmd.Env, "VIRTUAL_ENV=/tmp/project/venv")

	res, err := toolchain.ExecRunner{}.Run(context.Background(), cmd)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, 2)
	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, "VIRTUAL_ENV=/tmp/project/venv", lines[1])
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	res, err := toolchain.ExecRunner{}.Run(context.Background(), toolchain.Command{Name: "pyinit-no-such-tool"})
	require.Error(t, err)
	var exitErr *toolchain.ExitError
	assert.False(t, errors.As(err, &exitErr))
	assert.Equal(t, -1, res.ExitCode)
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cmd  toolchain.Command
		want string
	}{
		"plain":        {cmd: toolchain.Command{Name: "git", Args: []string{"add", "."}}, want: "git add ."},
		"spaces":       {cmd: toolchain.Command{Name: "git", Args: []string{"commit", "-m", "Initial commit"}}, want: `git commit -m "Initial commit"`},
		"angle quotes": {cmd: toolchain.Command{Name: "poetry", Args: []string{"--author", "Ada <a@b.c>"}}, want: `poetry --author "Ada <a@b.c>"`},
		"empty arg":    {cmd: toolchain.Command{Name: "x", Args: []string{""}}, want: `x ""`},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cmd.String())
		})
	}
}
