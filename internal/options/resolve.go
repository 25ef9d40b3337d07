package options

import (
	"strings"

	"github.com/go-playground/validator/v10"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
)

// Raw holds the command-line tokens exactly as received. Changed records the
// value flags that were given explicitly, so a swallowed flag token can be
// told apart from a default.
type Raw struct {
	Args []string

	Remote      string
	License     string
	BuildSystem string
	Layout      string
	Tests       string
	CI          string
	Format      string
	Lint        string
	Env         string
	Python      string

	Author      string
	Email       string
	Description string
	URL         string

	Git        bool
	CreateRepo bool
	Docs       bool

	Changed map[string]bool
}

// valueFlags lists the flags that take an argument, in CLI table order.
var valueFlags = []string{
	"remote", "license", "build-system", "layout", "tests", "ci",
	"format", "lint", "env", "python", "author", "email", "description", "url",
}

// Resolve validates every flag against its domain, then scans the positional
// tokens for exactly one package name. The first failure is returned and no
// partial Config is ever handed out.
func Resolve(raw Raw) (Config, error) {
	if err := checkFlagArguments(raw); err != nil {
		return Config{}, err
	}

	var (
		cfg Config
		err error
	)

	cfg.RemoteURL = raw.Remote
	cfg.License = License(raw.License)
	if cfg.BuildSystem, err = ParseBuildSystem(raw.BuildSystem); err != nil {
		return Config{}, err
	}
	if cfg.Layout, err = ParseLayout(raw.Layout); err != nil {
		return Config{}, err
	}
	if cfg.Tests, err = ParseTestFramework(raw.Tests); err != nil {
		return Config{}, err
	}
	if cfg.CI, err = ParseCIService(raw.CI); err != nil {
		return Config{}, err
	}
	if cfg.Formatter, err = ParseFormatter(raw.Format); err != nil {
		return Config{}, err
	}
	if cfg.Linter, err = ParseLinter(raw.Lint); err != nil {
		return Config{}, err
	}
	if cfg.Env, err = ParseEnvTool(raw.Env); err != nil {
		return Config{}, err
	}
	if cfg.Python, err = ParsePythonVersion(raw.Python); err != nil {
		return Config{}, err
	}

	cfg.InitGit = raw.Git
	cfg.CreateRepo = raw.CreateRepo
	cfg.SetupDocs = raw.Docs

	cfg.Author = Author{Name: strings.TrimSpace(raw.Author), Email: strings.TrimSpace(raw.Email)}
	cfg.Description = strings.TrimSpace(raw.Description)
	cfg.ProjectURL = strings.TrimSpace(raw.URL)
	if err := ValidateFields(cfg); err != nil {
		return Config{}, err
	}

	name, err := packageName(raw.Args)
	if err != nil {
		return Config{}, err
	}
	cfg.PackageName = name

	return cfg, nil
}

// checkFlagArguments rejects value flags whose argument is another flag or
// empty. The flag parser hands the next token over verbatim, so
// "--remote --git" arrives here as Remote == "--git".
func checkFlagArguments(raw Raw) error {
	values := map[string]string{
		"remote": raw.Remote, "license": raw.License, "build-system": raw.BuildSystem,
		"layout": raw.Layout, "tests": raw.Tests, "ci": raw.CI, "format": raw.Format,
		"lint": raw.Lint, "env": raw.Env, "python": raw.Python, "author": raw.Author,
		"email": raw.Email, "description": raw.Description, "url": raw.URL,
	}
	for _, flag := range valueFlags {
		if !raw.Changed[flag] {
			continue
		}
		v := values[flag]
		if strings.TrimSpace(v) == "" || strings.HasPrefix(v, "-") {
			return clierrors.MissingFlagValue(flag)
		}
	}
	return nil
}

func packageName(args []string) (string, error) {
	if len(args) != 1 {
		return "", clierrors.PositionalArgs(args)
	}
	name := args[0]
	if !ValidPackageName(name) {
		return "", clierrors.InvalidPackageName(name)
	}
	return name, nil
}

var validate = validator.New()

// ValidateFields checks the free-text fields that have a format: the author
// email and the project URL. Blank values are accepted.
func ValidateFields(cfg Config) error {
	if err := validate.Var(cfg.Author.Email, "omitempty,email"); err != nil {
		return clierrors.InvalidField("author email", cfg.Author.Email, "email address")
	}
	if err := validate.Var(cfg.ProjectURL, "omitempty,url"); err != nil {
		return clierrors.InvalidField("project URL", cfg.ProjectURL, "absolute URL")
	}
	return nil
}

// DefaultProjectURL derives the project URL offered when the prompt is left blank.
func DefaultProjectURL(user, packageName string) string {
	if user == "" {
		user = "your-username"
	}
	return "https://github.com/" + user + "/" + packageName
}

// Complete returns a copy of cfg with the prompted values applied. A blank
// project URL falls back to the GitHub URL of owner.
func (c Config) Complete(author Author, description, projectURL, owner string) (Config, error) {
	out := c
	if out.Author.Name == "" {
		out.Author.Name = strings.TrimSpace(author.Name)
	}
	if out.Author.Email == "" {
		out.Author.Email = strings.TrimSpace(author.Email)
	}
	if out.Description == "" {
		out.Description = strings.TrimSpace(description)
	}
	if out.ProjectURL == "" {
		out.ProjectURL = strings.TrimSpace(projectURL)
	}
	if out.ProjectURL == "" {
		out.ProjectURL = DefaultProjectURL(owner, out.PackageName)
	}
	if err := ValidateFields(out); err != nil {
		return Config{}, err
	}
	return out, nil
}
