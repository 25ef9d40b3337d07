package toolchain

import (
	"context"
	"fmt"
)

// PackageManager installs the project and its development tools.
type PackageManager interface {
	Name() string
	// Prepare brings the installer itself up to date.
	Prepare(ctx context.Context, dir string) error
	// InstallProject installs the project in development mode.
	InstallProject(ctx context.Context, dir string) error
	// AddDev installs development-only packages.
	AddDev(ctx context.Context, dir string, packages ...string) error
}

// Pip installs into an Environment with pip.
type Pip struct {
	Runner Runner
	Env    Environment
}

// Name implements PackageManager.
func (p Pip) Name() string { return "pip" }

func (p Pip) run(ctx context.Context, dir, name string, args ...string) error {
	_, err := p.Runner.Run(ctx, p.Env.Command(dir, name, args...))
	return err
}

// Prepare implements PackageManager.
func (p Pip) Prepare(ctx context.Context, dir string) error {
	return p.run(ctx, dir, "python", "-m", "pip", "install", "--upgrade", "pip")
}

// InstallProject implements PackageManager.
func (p Pip) InstallProject(ctx context.Context, dir string) error {
	return p.run(ctx, dir, "pip", "install", "-e", ".")
}

// AddDev implements PackageManager.
func (p Pip) AddDev(ctx context.Context, dir string, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	return p.run(ctx, dir, "pip", append([]string{"install"}, packages...)...)
}

// ManifestInfo is what poetry init records in pyproject.toml.
type ManifestInfo struct {
	Name        string
	Description string
	Author      string
	Python      string
	License     string
}

// Poetry drives the poetry binary.
type Poetry struct {
	Runner Runner
}

// Name implements PackageManager.
func (p Poetry) Name() string { return "poetry" }

func (p Poetry) poetry(ctx context.Context, dir string, args ...string) error {
	_, err := p.Runner.Run(ctx, Command{Name: "poetry", Args: args, Dir: dir})
	return err
}

// Init writes pyproject.toml non-interactively.
func (p Poetry) Init(ctx context.Context, dir string, m ManifestInfo) error {
	args := []string{"init", "--no-interaction", "--name", m.Name}
	if m.Description != "" {
		args = append(args, "--description", m.Description)
	}
	if m.Author != "" {
		args = append(args, "--author", m.Author)
	}
	if m.Python != "" {
		args = append(args, "--python", m.Python)
	}
	if m.License != "" {
		args = append(args, "--license", m.License)
	}
	if err := p.poetry(ctx, dir, args...); err != nil {
		return fmt.Errorf("poetry init: %w", err)
	}
	return nil
}

// Prepare implements PackageManager. Poetry manages its own installer.
func (p Poetry) Prepare(context.Context, string) error { return nil }

// InstallProject implements PackageManager.
func (p Poetry) InstallProject(ctx context.Context, dir string) error {
	return p.poetry(ctx, dir, "install")
}

// AddDev implements PackageManager.
func (p Poetry) AddDev(ctx context.Context, dir string, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	return p.poetry(ctx, dir, append([]string{"add", "--group", "dev"}, packages...)...)
}
