package render

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/pyinit/internal/options"
)

// BaselinePythonVersions are always appended to the CI version list after the
// configured version. A configured version equal to one of them appears twice.
var BaselinePythonVersions = []string{"3.8", "3.9", "3.10"}

// CI file locations per service.
const (
	GitHubWorkflowPath = ".github/workflows/ci.yml"
	TravisPath         = ".travis.yml"
	CircleCIPath       = ".circleci/config.yml"
)

// PythonMatrix is the list of versions CI runs against.
func PythonMatrix(v options.PythonVersion) []string {
	return append([]string{v.String()}, BaselinePythonVersions...)
}

type githubWorkflow struct {
	Name string                  `yaml:"name"`
	On   githubTriggers          `yaml:"on"`
	Jobs map[string]githubJobDef `yaml:"jobs"`
}

type githubTriggers struct {
	Push        githubBranches `yaml:"push"`
	PullRequest githubBranches `yaml:"pull_request"`
}

type githubBranches struct {
	Branches []string `yaml:"branches,flow"`
}

type githubJobDef struct {
	RunsOn   string         `yaml:"runs-on"`
	Strategy githubStrategy `yaml:"strategy"`
	Steps    []githubStep   `yaml:"steps"`
}

type githubStrategy struct {
	Matrix githubMatrix `yaml:"matrix"`
}

type githubMatrix struct {
	PythonVersion []string `yaml:"python-version,flow"`
}

type githubStep struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

type travisConfig struct {
	Language string   `yaml:"language"`
	Python   []string `yaml:"python"`
	Install  []string `yaml:"install"`
	Script   []string `yaml:"script"`
}

type circleConfig struct {
	Version   string                    `yaml:"version"`
	Jobs      map[string]circleJob      `yaml:"jobs"`
	Workflows map[string]circleWorkflow `yaml:"workflows"`
}

type circleJob struct {
	Docker []circleImage `yaml:"docker"`
	Steps  []interface{} `yaml:"steps"`
}

type circleImage struct {
	Image string `yaml:"image"`
}

type circleRun struct {
	Run circleRunSpec `yaml:"run"`
}

type circleRunSpec struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

type circleWorkflow struct {
	Jobs []string `yaml:"jobs"`
}

// CI renders the CI definition for the configured service. ok is false when
// the service is none.
func CI(cfg options.Config) (a Artifact, ok bool, err error) {
	cmds := CommandsFor(cfg)

	var (
		path string
		doc  interface{}
	)
	switch cfg.CI {
	case options.CIGitHub:
		path, doc = GitHubWorkflowPath, githubDocument(cfg, cmds)
	case options.CITravis:
		path, doc = TravisPath, travisDocument(cfg, cmds)
	case options.CICircleCI:
		path, doc = CircleCIPath, circleDocument(cfg, cmds)
	case options.CINone:
		return Artifact{}, false, nil
	default:
		return Artifact{}, false, fmt.Errorf("unknown CI service %q", cfg.CI)
	}

	content, err := marshalYAML(doc)
	if err != nil {
		return Artifact{}, false, fmt.Errorf("rendering %s: %w", path, err)
	}
	return Artifact{Path: path, Content: content}, true, nil
}

func githubDocument(cfg options.Config, cmds Commands) githubWorkflow {
	return githubWorkflow{
		Name: "CI",
		On: githubTriggers{
			Push:        githubBranches{Branches: []string{"main"}},
			PullRequest: githubBranches{Branches: []string{"main"}},
		},
		Jobs: map[string]githubJobDef{
			"test": {
				RunsOn:   "ubuntu-latest",
				Strategy: githubStrategy{Matrix: githubMatrix{PythonVersion: PythonMatrix(cfg.Python)}},
				Steps: []githubStep{
					{Uses: "actions/checkout@v4"},
					{
						Name: "Set up Python ${{ matrix.python-version }}",
						Uses: "actions/setup-python@v5",
						With: map[string]string{"python-version": "${{ matrix.python-version }}"},
					},
					{Name: "Install dependencies", Run: strings.Join(cmds.Install, "\n")},
					{Name: "Run tests", Run: cmds.Test},
				},
			},
		},
	}
}

func travisDocument(cfg options.Config, cmds Commands) travisConfig {
	return travisConfig{
		Language: "python",
		Python:   PythonMatrix(cfg.Python),
		Install:  cmds.Install,
		Script:   []string{cmds.Test},
	}
}

func circleDocument(cfg options.Config, cmds Commands) circleConfig {
	return circleConfig{
		Version: "2.1",
		Jobs: map[string]circleJob{
			"build": {
				Docker: []circleImage{{Image: "cimg/python:" + cfg.Python.String()}},
				Steps: []interface{}{
					"checkout",
					circleRun{Run: circleRunSpec{Name: "Install dependencies", Command: strings.Join(cmds.Install, "\n")}},
					circleRun{Run: circleRunSpec{Name: "Run tests", Command: cmds.Test}},
				},
			},
		},
		Workflows: map[string]circleWorkflow{
			"main": {Jobs: []string{"build"}},
		},
	}
}

// marshalYAML encodes v with two-space indentation.
func marshalYAML(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
