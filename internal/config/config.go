// Package config provides layered tool configuration for pyinit using koanf.
// Values are loaded with priority: environment variables (PYINIT_*) > user
// config (~/.config/pyinit/config.yml, or config.json) > defaults. The
// resolved values seed the command-line flag defaults, so an explicit flag
// always wins.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "PYINIT_"

// Configuration represents the pyinit tool configuration.
type Configuration struct {
	// AuthorName and AuthorEmail pre-fill the author prompts.
	AuthorName  string `koanf:"author_name"`
	AuthorEmail string `koanf:"author_email" validate:"omitempty,email"`
	// GitHubUser is used to derive the default project URL.
	GitHubUser string `koanf:"github_user"`

	// Flag defaults. Each one must lie in the flag's domain, except the
	// license, which is an open set.
	License     string `koanf:"license" validate:"required"`
	BuildSystem string `koanf:"build_system" validate:"oneof=setuptools poetry"`
	Layout      string `koanf:"layout" validate:"oneof=src direct"`
	Tests       string `koanf:"tests" validate:"oneof=unittest pytest"`
	CI          string `koanf:"ci" validate:"oneof=github travis circleci none"`
	Format      string `koanf:"format" validate:"oneof=black autopep8 none"`
	Lint        string `koanf:"lint" validate:"oneof=flake8 pylint none"`
	Env         string `koanf:"env" validate:"oneof=venv virtualenv poetry"`
	Python      string `koanf:"python" validate:"required,python_version"`

	// LogFile is the append-only run log, relative to the working directory.
	LogFile string `koanf:"log_file" validate:"required"`
	// LicenseURL is the license text source; {id} is replaced by the
	// lower-cased license identifier.
	LicenseURL string `koanf:"license_url" validate:"required,contains={id}"`
	// FetchTimeout bounds the license download, e.g. "10s".
	FetchTimeout string `koanf:"fetch_timeout" validate:"required"`

	// VCSBackend selects the git binary or the built-in go-git implementation.
	VCSBackend    string `koanf:"vcs_backend" validate:"oneof=git go-git"`
	CommitMessage string `koanf:"commit_message" validate:"required"`
	// PythonCommand overrides the interpreter used to create the virtual
	// environment, e.g. "uv run --python 3.11 python". Empty means
	// python<version>.
	PythonCommand string `koanf:"python_command"`
	// RequiredTools must be on PATH before anything is created.
	RequiredTools []string `koanf:"required_tools" validate:"dive,required"`

	// NoInput disables interactive prompts (also set via PYINIT_NO_INPUT).
	NoInput bool `koanf:"no_input"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// UserConfigPath overrides the user config path (default: UserConfigPath()).
	UserConfigPath string
	// WarningWriter receives warnings about ignored files (default: os.Stderr)
	WarningWriter io.Writer
	// SkipEnv ignores PYINIT_* environment variables.
	SkipEnv bool
}

// Load loads configuration from the user config file and the environment.
// Priority: Environment variables > User config > Defaults
func Load() (*Configuration, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath, warningWriter); err != nil {
		return nil, err
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k); err != nil {
			return nil, err
		}
	}

	return finalizeConfig(k)
}

func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level config. YAML is preferred; a JSON file
// next to it is used only when no YAML file exists.
func loadUserConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer) error {
	yamlPath := customPath
	if yamlPath == "" {
		yamlPath, _ = UserConfigPath()
	}

	if filepath.Ext(yamlPath) == ".json" {
		if !fileExists(yamlPath) {
			return nil
		}
		return loadJSONConfig(k, yamlPath)
	}

	jsonPath := strings.TrimSuffix(yamlPath, filepath.Ext(yamlPath)) + ".json"
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath); err != nil {
			return err
		}
		if jsonExists {
			fmt.Fprintf(warningWriter, "Warning: JSON config found at %s (ignored, using %s)\n", jsonPath, yamlPath)
		}
	case jsonExists:
		return loadJSONConfig(k, jsonPath)
	}
	return nil
}

func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := checkYAMLSyntax(path); err != nil {
		return clierrors.ConfigParseError(path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return clierrors.ConfigParseError(path, err)
	}
	return nil
}

func loadJSONConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return clierrors.ConfigParseError(path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides. List values
// are given as whitespace-separated words.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	if s, ok := k.Get("required_tools").(string); ok {
		k.Set("required_tools", strings.Fields(s))
	}
	return nil
}

func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := checkValues(&cfg, "config"); err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration,
			"invalid configuration",
			"Fix the value in the user config file or the matching PYINIT_* variable")
	}

	cfg.LogFile = expandHomePath(cfg.LogFile)
	return &cfg, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: PYINIT_BUILD_SYSTEM -> build_system
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Timeout returns the license fetch timeout. Validation guarantees it parses.
func (c *Configuration) Timeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return DefaultFetchTimeout
	}
	return d
}

// PythonArgv splits PythonCommand into argv. It returns nil when no override
// is configured.
func (c *Configuration) PythonArgv() ([]string, error) {
	if strings.TrimSpace(c.PythonCommand) == "" {
		return nil, nil
	}
	argv, err := shlex.Split(c.PythonCommand)
	if err != nil {
		return nil, fmt.Errorf("parsing python_command %q: %w", c.PythonCommand, err)
	}
	return argv, nil
}
