package options

import (
	"path/filepath"
	"regexp"
)

var packageNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]+$`)

// ValidPackageName reports whether name matches the identifier grammar
// (letter or underscore first, then at least one identifier character).
func ValidPackageName(name string) bool {
	return packageNamePattern.MatchString(name)
}

// Author identifies the person the project is generated for.
type Author struct {
	Name  string
	Email string
}

// Config is the resolved set of choices for one invocation. It is built once
// by Resolve (and completed by prompts) and passed by value afterwards.
type Config struct {
	PackageName string
	BuildSystem BuildSystem
	Layout      Layout
	Tests       TestFramework
	CI          CIService
	Formatter   Formatter
	Linter      Linter
	Env         EnvTool
	Python      PythonVersion
	License     License

	InitGit    bool
	CreateRepo bool
	SetupDocs  bool
	RemoteURL  string

	Author      Author
	Description string
	ProjectURL  string
}

// PackageDir is the package code directory relative to the project root.
func (c Config) PackageDir() string {
	if c.Layout == LayoutSrc {
		return filepath.Join("src", c.PackageName)
	}
	return c.PackageName
}

// PackageRoot is the directory package discovery starts from ("" for direct).
func (c Config) PackageRoot() string {
	if c.Layout == LayoutSrc {
		return "src"
	}
	return ""
}

// UsesPoetry reports whether poetry takes part in the run at all.
func (c Config) UsesPoetry() bool {
	return c.BuildSystem == BuildPoetry || c.Env == EnvPoetry
}

// WantsRepository reports whether a local repository is initialized.
func (c Config) WantsRepository() bool {
	return c.InitGit || c.CreateRepo
}

// WantsPreCommit reports whether any hook-backed tool was selected.
func (c Config) WantsPreCommit() bool {
	return c.Formatter != FormatNone || c.Linter != LintNone
}

// WantsCI reports whether a CI definition is generated.
func (c Config) WantsCI() bool {
	return c.CI != CINone
}

// Missing lists the prompt-able fields that are still blank.
func (c Config) Missing() []Field {
	var fields []Field
	if c.Author.Name == "" {
		fields = append(fields, FieldAuthorName)
	}
	if c.Author.Email == "" {
		fields = append(fields, FieldAuthorEmail)
	}
	if c.Description == "" {
		fields = append(fields, FieldDescription)
	}
	if c.ProjectURL == "" {
		fields = append(fields, FieldProjectURL)
	}
	return fields
}

// Field names a free-text value that may be filled interactively.
type Field string

const (
	FieldAuthorName  Field = "author name"
	FieldAuthorEmail Field = "author email"
	FieldDescription Field = "description"
	FieldProjectURL  Field = "project URL"
)
