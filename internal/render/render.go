// Package render produces the text of every generated file. Each renderer is
// a pure function of the resolved options.Config: no filesystem, network or
// shared state is touched, so the same Config always yields the same bytes.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ariel-frischer/pyinit/internal/options"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Artifact is one generated file. Path is slash-separated and relative to
// the project root.
type Artifact struct {
	Path    string
	Content string
}

// Context is the typed view of a Config the text templates see.
type Context struct {
	PackageName       string
	Title             string
	Description       string
	AuthorName        string
	AuthorEmail       string
	ProjectURL        string
	License           string
	LicenseBadge      string
	LicenseClassifier string
	PackageRoot       string
	PythonRequires    string
	DevInstall        string
	TestCommand       string
}

// NewContext derives the template context from cfg.
func NewContext(cfg options.Config) Context {
	cmds := CommandsFor(cfg)
	return Context{
		PackageName:       cfg.PackageName,
		Title:             Title(cfg.PackageName),
		Description:       cfg.Description,
		AuthorName:        cfg.Author.Name,
		AuthorEmail:       cfg.Author.Email,
		ProjectURL:        cfg.ProjectURL,
		License:           string(cfg.License),
		LicenseBadge:      badgeEscape(string(cfg.License)),
		LicenseClassifier: LicenseClassifier(cfg.License),
		PackageRoot:       cfg.PackageRoot(),
		PythonRequires:    cfg.Python.MinimumConstraint(),
		DevInstall:        cmds.DevInstall,
		TestCommand:       cmds.Test,
	}
}

// Title turns a package identifier into a display heading: foo_bar -> Foo Bar.
func Title(packageName string) string {
	words := strings.Join(strings.Fields(strings.ReplaceAll(packageName, "_", " ")), " ")
	if words == "" {
		return packageName
	}
	return cases.Title(language.English).String(words)
}

// badgeEscape applies the shields.io path escaping rules.
func badgeEscape(s string) string {
	return strings.NewReplacer("-", "--", "_", "__", " ", "_").Replace(s)
}

// LicenseClassifier maps a license identifier to its trove classifier.
func LicenseClassifier(l options.License) string {
	switch l {
	case options.LicenseMIT:
		return "License :: OSI Approved :: MIT License"
	case options.LicenseApache2:
		return "License :: OSI Approved :: Apache Software License"
	case options.LicenseGPL3:
		return "License :: OSI Approved :: GNU General Public License v3 (GPLv3)"
	case options.LicenseBSD3Clause:
		return "License :: OSI Approved :: BSD License"
	default:
		return "License :: Other/Proprietary License"
	}
}

// execute renders the named embedded template against data.
func execute(name string, data interface{}) (string, error) {
	content, err := templateFS.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Readme renders README.md.
func Readme(cfg options.Config) (Artifact, error) {
	content, err := execute("readme.md", NewContext(cfg))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: "README.md", Content: content}, nil
}

// SetupManifest renders setup.py. Poetry builds have no rendered manifest;
// poetry writes pyproject.toml itself.
func SetupManifest(cfg options.Config) (Artifact, error) {
	if cfg.BuildSystem != options.BuildSetuptools {
		return Artifact{}, fmt.Errorf("setup.py is only rendered for setuptools builds, got %s", cfg.BuildSystem)
	}
	content, err := execute("setup.py", NewContext(cfg))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: "setup.py", Content: content}, nil
}

// GitIgnore renders .gitignore. Its content does not depend on cfg.
func GitIgnore() (Artifact, error) {
	content, err := execute("gitignore", nil)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: ".gitignore", Content: content}, nil
}

// SampleTest renders tests/test_sample.py in the style of the selected framework.
func SampleTest(cfg options.Config) (Artifact, error) {
	var name string
	switch cfg.Tests {
	case options.TestsPytest:
		name = "test_pytest.py"
	case options.TestsUnittest:
		name = "test_unittest.py"
	default:
		return Artifact{}, fmt.Errorf("unknown test framework %q", cfg.Tests)
	}
	content, err := execute(name, nil)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: "tests/test_sample.py", Content: content}, nil
}

// LintConfig renders the linter's configuration file. ok is false when the
// selected linter needs none.
func LintConfig(cfg options.Config) (a Artifact, ok bool, err error) {
	var name, path string
	switch cfg.Linter {
	case options.LintFlake8:
		name, path = "flake8", ".flake8"
	case options.LintPylint:
		name, path = "pylintrc", ".pylintrc"
	case options.LintNone:
		return Artifact{}, false, nil
	default:
		return Artifact{}, false, fmt.Errorf("unknown linter %q", cfg.Linter)
	}
	content, err := execute(name, nil)
	if err != nil {
		return Artifact{}, false, err
	}
	return Artifact{Path: path, Content: content}, true, nil
}

// Project renders every file written right after the skeleton is created:
// README, .gitignore, setup.py and requirements.txt (setuptools only), and
// the linter config. The sample test, LICENSE, CI and pre-commit files are
// produced by their own steps.
func Project(cfg options.Config) ([]Artifact, error) {
	var out []Artifact

	readme, err := Readme(cfg)
	if err != nil {
		return nil, err
	}
	out = append(out, readme)

	ignore, err := GitIgnore()
	if err != nil {
		return nil, err
	}
	out = append(out, ignore)

	if cfg.BuildSystem == options.BuildSetuptools {
		manifest, err := SetupManifest(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, manifest, Artifact{Path: "requirements.txt"})
	}

	lint, ok, err := LintConfig(cfg)
	if err != nil {
		return nil, err
	}
	if ok {
		out = append(out, lint)
	}

	return out, nil
}
