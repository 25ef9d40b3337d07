package options

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
)

// BuildSystem governs how the generated package is packaged.
type BuildSystem string

const (
	BuildSetuptools BuildSystem = "setuptools"
	BuildPoetry     BuildSystem = "poetry"
)

var buildSystems = domain[BuildSystem]{flag: "build-system", values: []BuildSystem{BuildSetuptools, BuildPoetry}}

// ParseBuildSystem validates a --build-system value.
func ParseBuildSystem(s string) (BuildSystem, error) { return buildSystems.parse(s) }

// Layout selects where package code lives.
type Layout string

const (
	LayoutSrc    Layout = "src"
	LayoutDirect Layout = "direct"
)

var layouts = domain[Layout]{flag: "layout", values: []Layout{LayoutSrc, LayoutDirect}}

// ParseLayout validates a --layout value.
func ParseLayout(s string) (Layout, error) { return layouts.parse(s) }

// TestFramework selects the style of the sample test.
type TestFramework string

const (
	TestsUnittest TestFramework = "unittest"
	TestsPytest   TestFramework = "pytest"
)

var testFrameworks = domain[TestFramework]{flag: "tests", values: []TestFramework{TestsUnittest, TestsPytest}}

// ParseTestFramework validates a --tests value.
func ParseTestFramework(s string) (TestFramework, error) { return testFrameworks.parse(s) }

// CIService selects which CI definition is generated.
type CIService string

const (
	CIGitHub   CIService = "github"
	CITravis   CIService = "travis"
	CICircleCI CIService = "circleci"
	CINone     CIService = "none"
)

var ciServices = domain[CIService]{flag: "ci", values: []CIService{CIGitHub, CITravis, CICircleCI, CINone}}

// ParseCIService validates a --ci value.
func ParseCIService(s string) (CIService, error) { return ciServices.parse(s) }

// Formatter selects the code formatter wired into pre-commit.
type Formatter string

const (
	FormatBlack    Formatter = "black"
	FormatAutopep8 Formatter = "autopep8"
	FormatNone     Formatter = "none"
)

var formatters = domain[Formatter]{flag: "format", values: []Formatter{FormatBlack, FormatAutopep8, FormatNone}}

// ParseFormatter validates a --format value.
func ParseFormatter(s string) (Formatter, error) { return formatters.parse(s) }

// Linter selects the linter wired into pre-commit.
type Linter string

const (
	LintFlake8 Linter = "flake8"
	LintPylint Linter = "pylint"
	LintNone   Linter = "none"
)

var linters = domain[Linter]{flag: "lint", values: []Linter{LintFlake8, LintPylint, LintNone}}

// ParseLinter validates a --lint value.
func ParseLinter(s string) (Linter, error) { return linters.parse(s) }

// EnvTool selects how the isolated runtime is created.
type EnvTool string

const (
	EnvVenv       EnvTool = "venv"
	EnvVirtualenv EnvTool = "virtualenv"
	EnvPoetry     EnvTool = "poetry"
)

var envTools = domain[EnvTool]{flag: "env", values: []EnvTool{EnvVenv, EnvVirtualenv, EnvPoetry}}

// ParseEnvTool validates an --env value.
func ParseEnvTool(s string) (EnvTool, error) { return envTools.parse(s) }

// License is a license identifier. Unlike the other choices it is not a
// closed domain: an unsupported identifier only suppresses the LICENSE file.
type License string

const (
	LicenseMIT        License = "MIT"
	LicenseApache2    License = "Apache-2.0"
	LicenseGPL3       License = "GPL-3.0"
	LicenseBSD3Clause License = "BSD-3-Clause"
)

// SupportedLicenses lists the identifiers a LICENSE file can be produced for.
var SupportedLicenses = []License{LicenseMIT, LicenseApache2, LicenseGPL3, LicenseBSD3Clause}

// Supported reports whether a LICENSE file can be produced for l.
func (l License) Supported() bool {
	for _, s := range SupportedLicenses {
		if s == l {
			return true
		}
	}
	return false
}

var pythonVersionPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// PythonVersion is a major[.minor] interpreter version. The precision the
// user chose is kept, so "3" stays "3", while leading zeros are dropped.
type PythonVersion struct {
	raw      string
	major    uint64
	minor    uint64
	hasMinor bool
}

// ParsePythonVersion validates a --python value.
func ParsePythonVersion(s string) (PythonVersion, error) {
	if !pythonVersionPattern.MatchString(s) {
		return PythonVersion{}, clierrors.InvalidPythonVersion(s)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return PythonVersion{}, clierrors.InvalidPythonVersion(s)
	}
	pv := PythonVersion{
		major:    v.Major(),
		minor:    v.Minor(),
		hasMinor: strings.Contains(s, "."),
	}
	pv.raw = strconv.FormatUint(pv.major, 10)
	if pv.hasMinor {
		pv.raw += "." + strconv.FormatUint(pv.minor, 10)
	}
	return pv, nil
}

// MustPythonVersion is ParsePythonVersion for known-good literals.
func MustPythonVersion(s string) PythonVersion {
	v, err := ParsePythonVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the normalized version, e.g. "3" or "3.10".
func (v PythonVersion) String() string { return v.raw }

// MinimumConstraint is the setuptools python_requires expression.
func (v PythonVersion) MinimumConstraint() string { return ">=" + v.raw }

// PoetryConstraint is the caret constraint passed to poetry init.
func (v PythonVersion) PoetryConstraint() string { return "^" + v.raw }

// Interpreter is the executable name for this version, e.g. python3.11.
func (v PythonVersion) Interpreter() string { return "python" + v.raw }
