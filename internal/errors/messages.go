package errors

import (
	"fmt"
	"strings"
)

// Usage is the canonical invocation shown with validation errors.
const Usage = "pyinit <package_name> [flags]"

// InvalidOption creates an error for a flag value outside its domain.
func InvalidOption(flag, value string, domain []string) *CLIError {
	return NewValidationErrorWithUsage(
		fmt.Sprintf("invalid value %q for --%s", value, flag),
		Usage,
		fmt.Sprintf("Valid values for --%s: %s", flag, strings.Join(domain, ", ")),
	)
}

// MissingFlagValue creates an error for a flag whose argument is absent or is another flag.
func MissingFlagValue(flag string) *CLIError {
	return NewValidationErrorWithUsage(
		fmt.Sprintf("flag --%s requires an argument", flag),
		Usage,
		fmt.Sprintf("Pass a value right after --%s (e.g. --%s <value>)", flag, flag),
	)
}

// InvalidPythonVersion creates an error for a malformed --python value.
func InvalidPythonVersion(value string) *CLIError {
	return NewValidationErrorWithUsage(
		fmt.Sprintf("invalid python version %q", value),
		Usage,
		"Use a numeric major[.minor] version, e.g. --python 3 or --python 3.11",
	)
}

// InvalidPackageName creates an error for a package name outside the identifier grammar.
func InvalidPackageName(name string) *CLIError {
	return NewValidationErrorWithUsage(
		fmt.Sprintf("invalid package name %q", name),
		Usage,
		"Package names must start with a letter or underscore",
		"Only letters, digits and underscores are allowed, at least 2 characters",
		"Example: pyinit my_package",
	)
}

// PositionalArgs creates an error for a wrong number of positional tokens.
func PositionalArgs(got []string) *CLIError {
	msg := "package name is required"
	if len(got) > 1 {
		msg = fmt.Sprintf("expected exactly one package name, got %d: %s", len(got), strings.Join(got, " "))
	}
	return NewValidationErrorWithUsage(msg, Usage,
		"Provide exactly one package name before or after the flags",
		"Run 'pyinit --help' to see all flags",
	)
}

// InvalidField creates an error for a malformed author email or project URL.
func InvalidField(field, value, rule string) *CLIError {
	return NewValidationError(
		fmt.Sprintf("invalid %s %q: must be a valid %s", field, value, rule),
		fmt.Sprintf("Correct the %s or leave it blank", field),
	)
}

// MissingTool creates an error when a mandatory external tool is not on PATH.
func MissingTool(tool, reason string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("required tool %q not found in PATH (%s)", tool, reason),
		fmt.Sprintf("Install %s and make sure it is on your PATH", tool),
		fmt.Sprintf("Verify with: command -v %s", tool),
	)
}

// TargetExists creates an error when the project root already exists.
func TargetExists(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("target directory already exists: %s", path),
		"Choose a different package name",
		"Or remove the existing directory: rm -rf "+path,
	)
}

// StepFailed creates an error when an orchestrated external step fails.
// No rollback happens, so the remediation points at the partial tree.
func StepFailed(step string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("step %q failed", step),
		"The project directory may be partially initialized",
		"Check the run log for the failing command output",
	)
}

// ConfigParseError creates an error for an invalid configuration file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config %s", path),
		"Check the file for YAML/JSON syntax errors",
		"Or move it aside to fall back to defaults",
	)
}
