package render

import "github.com/ariel-frischer/pyinit/internal/options"

// Commands are the shell lines that install and test the generated project.
// They are shared by the README and every CI format.
type Commands struct {
	// Install runs on a fresh CI machine, one line per entry.
	Install []string
	// DevInstall is the local editable install shown in the README.
	DevInstall string
	Test       string
}

// CommandsFor derives the install and test commands from cfg.
func CommandsFor(cfg options.Config) Commands {
	var c Commands

	test := "python -m unittest discover -s tests"
	if cfg.Tests == options.TestsPytest {
		test = "pytest"
	}

	if cfg.UsesPoetry() {
		c.Install = []string{"pip install poetry", "poetry install"}
		c.DevInstall = "poetry install"
		c.Test = "poetry run " + test
		return c
	}

	c.Install = []string{"python -m pip install --upgrade pip", "pip install -e ."}
	if cfg.Tests == options.TestsPytest {
		c.Install = append(c.Install, "pip install pytest")
	}
	c.DevInstall = "pip install -e ."
	c.Test = test
	return c
}
