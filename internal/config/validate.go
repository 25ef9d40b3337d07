package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileError points at a bad value in a configuration source.
type FileError struct {
	// Source is the config file path, or "config" for the merged layers.
	Source string
	// Line is 1-based; 0 when the problem is not tied to a line.
	Line int
	// Key is the koanf key of the offending value, if known.
	Key     string
	Problem string
}

func (e *FileError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Problem)
	case e.Key != "":
		return fmt.Sprintf("%s: field '%s': %s", e.Source, e.Key, e.Problem)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Problem)
	}
}

var yamlLinePrefix = regexp.MustCompile(`^yaml: line (\d+): `)

// checkYAMLSyntax parses path into a node tree so that a syntax error is
// reported with its line before koanf sees the file. Missing and blank files
// pass.
func checkYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return &FileError{Source: path, Problem: err.Error()}
	case strings.TrimSpace(string(data)) == "":
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		fe := &FileError{Source: path, Problem: err.Error()}
		if m := yamlLinePrefix.FindStringSubmatch(fe.Problem); m != nil {
			fe.Line, _ = strconv.Atoi(m[1])
			fe.Problem = strings.TrimPrefix(fe.Problem, m[0])
		}
		return fe
	}
	return nil
}

var pythonVersionPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// newValidator reports fields by their koanf key and knows the
// python_version rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	_ = v.RegisterValidation("python_version", func(fl validator.FieldLevel) bool {
		return pythonVersionPattern.MatchString(fl.Field().String())
	})
	return v
}

// checkValues reports the first value of cfg that a flag or step could not
// use.
func checkValues(cfg *Configuration, source string) error {
	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &FileError{Source: source, Key: keyOf(fe), Problem: describe(fe)}
		}
		return &FileError{Source: source, Problem: err.Error()}
	}

	if _, err := time.ParseDuration(cfg.FetchTimeout); err != nil {
		return &FileError{Source: source, Key: "fetch_timeout", Problem: "must be a duration such as 10s or 1m"}
	}
	if _, err := cfg.PythonArgv(); err != nil {
		return &FileError{Source: source, Key: "python_command", Problem: err.Error()}
	}
	return nil
}

// keyOf strips the slice index validator adds for dive rules, so
// required_tools[2] reports as required_tools.
func keyOf(fe validator.FieldError) string {
	key := fe.Field()
	if i := strings.IndexByte(key, '['); i > 0 {
		key = key[:i]
	}
	return key
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "contains":
		return "must contain " + fe.Param()
	case "python_version":
		return "must be a numeric major[.minor] version"
	default:
		return "failed validation: " + fe.Tag()
	}
}
