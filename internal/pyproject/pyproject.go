// Package pyproject reads the pyproject.toml written by poetry init.
package pyproject

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest poetry writes into the project root.
const FileName = "pyproject.toml"

// Manifest is the subset of pyproject.toml the generator cares about.
type Manifest struct {
	Project struct {
		Name           string `toml:"name"`
		Description    string `toml:"description"`
		RequiresPython string `toml:"requires-python"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string            `toml:"name"`
			Description  string            `toml:"description"`
			Dependencies map[string]any    `toml:"dependencies"`
			Packages     []PackageInclude  `toml:"packages"`
			Group        map[string]*Group `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	BuildSystem struct {
		Requires     []string `toml:"requires"`
		BuildBackend string   `toml:"build-backend"`
	} `toml:"build-system"`
}

// PackageInclude is one entry of [tool.poetry].packages.
type PackageInclude struct {
	Include string `toml:"include"`
	From    string `toml:"from"`
}

// Group is a poetry dependency group.
type Group struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// Name returns the declared project name. PEP 621 [project] metadata, written
// by poetry 2.x, wins over the legacy [tool.poetry] table.
func (m *Manifest) Name() string {
	if m.Project.Name != "" {
		return m.Project.Name
	}
	return m.Tool.Poetry.Name
}

// Parse decodes a pyproject.toml body.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &m, nil
}

// Load decodes dir/pyproject.toml.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &m, nil
}

var separatorRuns = regexp.MustCompile(`[-_.]+`)

// CanonicalName normalizes a distribution name the way PyPI and poetry do:
// lowercase, with every run of "-", "_" and "." collapsed to a single "-".
func CanonicalName(name string) string {
	return separatorRuns.ReplaceAllString(strings.ToLower(name), "-")
}

// Verify loads dir/pyproject.toml and checks that it names the package.
// poetry stores the canonical form, so foo_bar matches "foo-bar".
func Verify(dir, packageName string) (*Manifest, error) {
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}
	got := m.Name()
	switch {
	case got == "":
		return m, fmt.Errorf("%s declares no project name", FileName)
	case CanonicalName(got) == CanonicalName(packageName):
		return m, nil
	default:
		return m, fmt.Errorf("%s names project %q, expected %q", FileName, got, CanonicalName(packageName))
	}
}
