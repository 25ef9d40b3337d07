package toolchain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/pyinit/internal/testutil"
	"github.com/ariel-frischer/pyinit/internal/toolchain"
)

func TestPip(t *testing.T) {
	t.Parallel()

	runner := &testutil.FakeRunner{}
	pip := toolchain.Pip{Runner: runner, Env: toolchain.Venv{}}
	ctx := context.Background()

	require.NoError(t, pip.Prepare(ctx, "/p"))
	require.NoError(t, pip.InstallProject(ctx, "/p"))
	require.NoError(t, pip.AddDev(ctx, "/p", "black", "pytest"))
	require.NoError(t, pip.AddDev(ctx, "/p"))

	assert.Equal(t, []string{
		"python -m pip install --upgrade pip",
		"pip install -e .",
		"pip install black pytest",
	}, runner.Lines())
	assert.Equal(t, "pip", pip.Name())
}

func TestPoetry(t *testing.T) {
	t.Parallel()

	runner := &testutil.FakeRunner{}
	poetry := toolchain.Poetry{Runner: runner}
	ctx := context.Background()

	require.NoError(t, poetry.Init(ctx, "/p", toolchain.ManifestInfo{
		Name:        "foo_bar",
		Description: "A sample package",
		Author:      "Ada Lovelace <ada@example.com>",
		Python:      "^3.11",
		License:     "MIT",
	}))
	require.NoError(t, poetry.Prepare(ctx, "/p"))
	require.NoError(t, poetry.InstallProject(ctx, "/p"))
	require.NoError(t, poetry.AddDev(ctx, "/p", "pytest", "flake8"))

	assert.Equal(t, []string{
		`poetry init --no-interaction --name foo_bar --description "A sample package" --author "Ada Lovelace <ada@example.com>" --python ^3.11 --license MIT`,
		"poetry install",
		"poetry add --group dev pytest flake8",
	}, runner.Lines())
}

func TestPoetry_InitOmitsBlankFields(t *testing.T) {
	t.Parallel()

	runner := &testutil.FakeRunner{}
	require.NoError(t, toolchain.Poetry{Runner: runner}.Init(context.Background(), "/p", toolchain.ManifestInfo{Name: "foo_bar"}))
	assert.Equal(t, []string{"poetry init --no-interaction --name foo_bar"}, runner.Lines())
}

func TestPoetry_InitFailure(t *testing.T) {
	t.Parallel()

	runner := &testutil.FakeRunner{}
	runner.FailOn("poetry init", 1, "Invalid license")

	err := toolchain.Poetry{Runner: runner}.Init(context.Background(), "/p", toolchain.ManifestInfo{Name: "foo_bar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poetry init")
	assert.Contains(t, err.Error(), "Invalid license")
}
