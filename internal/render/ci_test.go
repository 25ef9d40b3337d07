package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/pyinit/internal/options"
)

func TestPythonMatrix(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version string
		want    []string
	}{
		"default":                {version: "3", want: []string{"3", "3.8", "3.9", "3.10"}},
		"newer":                  {version: "3.12", want: []string{"3.12", "3.8", "3.9", "3.10"}},
		"duplicate is preserved": {version: "3.9", want: []string{"3.9", "3.8", "3.9", "3.10"}},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PythonMatrix(options.MustPythonVersion(tt.version)))
		})
	}
}

func TestCI_GitHub(t *testing.T) {
	t.Parallel()

	a, ok, err := CI(testConfig())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ".github/workflows/ci.yml", a.Path)

	var wf githubWorkflow
	require.NoError(t, yaml.Unmarshal([]byte(a.Content), &wf))

	job, found := wf.Jobs["test"]
	require.True(t, found)
	assert.Equal(t, []string{"3", "3.8", "3.9", "3.10"}, job.Strategy.Matrix.PythonVersion)
	require.Len(t, job.Steps, 4)
	assert.Equal(t, "python -m pip install --upgrade pip\npip install -e .", job.Steps[2].Run)
	assert.Equal(t, "python -m unittest discover -s tests", job.Steps[3].Run)
	assert.Equal(t, []string{"main"}, wf.On.Push.Branches)
}

func TestCI_Travis(t *testing.T) {
	t.Parallel()

	a, ok, err := CI(testConfig(func(c *options.Config) {
		c.CI = options.CITravis
		c.Tests = options.TestsPytest
		c.Python = options.MustPythonVersion("3.11")
	}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ".travis.yml", a.Path)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(a.Content), &doc))

	assert.Equal(t, "python", doc["language"])
	assert.Equal(t, []interface{}{"3.11", "3.8", "3.9", "3.10"}, doc["python"])
	assert.Equal(t, []interface{}{"pytest"}, doc["script"])
	assert.Contains(t, doc["install"], "pip install pytest")
}

func TestCI_CircleCI(t *testing.T) {
	t.Parallel()

	a, ok, err := CI(testConfig(func(c *options.Config) {
		c.CI = options.CICircleCI
		c.Python = options.MustPythonVersion("3.11")
		c.Env = options.EnvPoetry
	}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ".circleci/config.yml", a.Path)

	var doc struct {
		Jobs map[string]struct {
			Docker []struct {
				Image string `yaml:"image"`
			} `yaml:"docker"`
		} `yaml:"jobs"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(a.Content), &doc))
	require.Len(t, doc.Jobs["build"].Docker, 1)
	assert.Equal(t, "cimg/python:3.11", doc.Jobs["build"].Docker[0].Image)
	assert.Contains(t, a.Content, "poetry run python -m unittest discover -s tests")
}

func TestCI_None(t *testing.T) {
	t.Parallel()

	a, ok, err := CI(testConfig(func(c *options.Config) { c.CI = options.CINone }))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, a.Path)
}

func TestCommandsFor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate  func(*options.Config)
		install []string
		test    string
	}{
		"pip unittest": {
			mutate:  func(*options.Config) {},
			install: []string{"python -m pip install --upgrade pip", "pip install -e ."},
			test:    "python -m unittest discover -s tests",
		},
		"pip pytest": {
			mutate:  func(c *options.Config) { c.Tests = options.TestsPytest },
			install: []string{"python -m pip install --upgrade pip", "pip install -e .", "pip install pytest"},
			test:    "pytest",
		},
		"poetry build": {
			mutate:  func(c *options.Config) { c.BuildSystem = options.BuildPoetry; c.Tests = options.TestsPytest },
			install: []string{"pip install poetry", "poetry install"},
			test:    "poetry run pytest",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := CommandsFor(testConfig(tt.mutate))
			assert.Equal(t, tt.install, got.Install)
			assert.Equal(t, tt.test, got.Test)
		})
	}
}
