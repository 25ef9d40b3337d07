package render

import (
	"fmt"

	"github.com/ariel-frischer/pyinit/internal/options"
)

// PreCommitPath is the pre-commit configuration file.
const PreCommitPath = ".pre-commit-config.yaml"

type preCommitConfig struct {
	Repos []hookRepo `yaml:"repos"`
}

type hookRepo struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev"`
	Hooks []hook `yaml:"hooks"`
}

type hook struct {
	ID string `yaml:"id"`
}

var baseHooks = hookRepo{
	Repo: "https://github.com/pre-commit/pre-commit-hooks",
	Rev:  "v4.5.0",
	Hooks: []hook{
		{ID: "trailing-whitespace"},
		{ID: "end-of-file-fixer"},
		{ID: "check-yaml"},
		{ID: "check-added-large-files"},
	},
}

var formatterHooks = map[options.Formatter]hookRepo{
	options.FormatBlack:    {Repo: "https://github.com/psf/black", Rev: "23.12.1", Hooks: []hook{{ID: "black"}}},
	options.FormatAutopep8: {Repo: "https://github.com/hhatto/autopep8", Rev: "v2.0.4", Hooks: []hook{{ID: "autopep8"}}},
}

var linterHooks = map[options.Linter]hookRepo{
	options.LintFlake8: {Repo: "https://github.com/PyCQA/flake8", Rev: "7.0.0", Hooks: []hook{{ID: "flake8"}}},
	options.LintPylint: {Repo: "https://github.com/pylint-dev/pylint", Rev: "v3.0.3", Hooks: []hook{{ID: "pylint"}}},
}

// PreCommit renders .pre-commit-config.yaml. ok is false when neither a
// formatter nor a linter was selected.
func PreCommit(cfg options.Config) (a Artifact, ok bool, err error) {
	if !cfg.WantsPreCommit() {
		return Artifact{}, false, nil
	}

	doc := preCommitConfig{Repos: []hookRepo{baseHooks}}
	if cfg.Formatter != options.FormatNone {
		repo, found := formatterHooks[cfg.Formatter]
		if !found {
			return Artifact{}, false, fmt.Errorf("unknown formatter %q", cfg.Formatter)
		}
		doc.Repos = append(doc.Repos, repo)
	}
	if cfg.Linter != options.LintNone {
		repo, found := linterHooks[cfg.Linter]
		if !found {
			return Artifact{}, false, fmt.Errorf("unknown linter %q", cfg.Linter)
		}
		doc.Repos = append(doc.Repos, repo)
	}

	content, err := marshalYAML(doc)
	if err != nil {
		return Artifact{}, false, fmt.Errorf("rendering %s: %w", PreCommitPath, err)
	}
	return Artifact{Path: PreCommitPath, Content: content}, true, nil
}
