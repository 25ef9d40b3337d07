// Package skeleton creates the project tree on disk. The project root must
// not exist beforehand, and every later write is confined to it.
package skeleton

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
	"github.com/ariel-frischer/pyinit/internal/options"
	"github.com/ariel-frischer/pyinit/internal/render"
)

// InitFile is the package initializer placed in every Python package directory.
const InitFile = "__init__.py"

// Tree is a created project root and everything written into it so far.
type Tree struct {
	Root         string
	FilesCreated []string
	DirsCreated  []string
}

// Create makes the project root at root, then the package directory for the
// configured layout and tests/, each with an empty initializer, plus the
// sample test. An existing root is a TargetExists error and is left untouched.
func Create(root string, cfg options.Config) (*Tree, error) {
	if err := os.Mkdir(root, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, clierrors.TargetExists(root)
		}
		return nil, fmt.Errorf("creating project root: %w", err)
	}

	t := &Tree{
		Root:         root,
		FilesCreated: make([]string, 0),
		DirsCreated:  make([]string, 0),
	}

	sample, err := render.SampleTest(cfg)
	if err != nil {
		return t, err
	}

	for _, a := range []render.Artifact{
		{Path: filepath.ToSlash(filepath.Join(cfg.PackageDir(), InitFile))},
		{Path: "tests/" + InitFile},
		sample,
	} {
		if err := t.Write(a); err != nil {
			return t, err
		}
	}
	return t, nil
}

// Path resolves a slash-separated path relative to the root.
func (t *Tree) Path(rel string) string {
	return filepath.Join(t.Root, filepath.FromSlash(rel))
}

// Write creates a.Path under the root with a.Content, making parent
// directories as needed. Paths that would escape the root are rejected.
func (t *Tree) Write(a render.Artifact) error {
	rel := filepath.FromSlash(a.Path)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("refusing to write outside the project root: %s", a.Path)
	}

	if err := t.mkdirAll(filepath.Dir(rel)); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(t.Root, rel), []byte(a.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", a.Path, err)
	}
	t.FilesCreated = append(t.FilesCreated, filepath.ToSlash(rel))
	return nil
}

// WriteAll writes artifacts in order and stops at the first failure.
func (t *Tree) WriteAll(artifacts []render.Artifact) error {
	for _, a := range artifacts {
		if err := t.Write(a); err != nil {
			return err
		}
	}
	return nil
}

// mkdirAll creates rel and its missing parents, recording each new one.
func (t *Tree) mkdirAll(rel string) error {
	if rel == "." || rel == "" {
		return nil
	}
	if err := t.mkdirAll(filepath.Dir(rel)); err != nil {
		return err
	}

	full := filepath.Join(t.Root, rel)
	err := os.Mkdir(full, 0o755)
	switch {
	case err == nil:
		t.DirsCreated = append(t.DirsCreated, filepath.ToSlash(rel))
		return nil
	case errors.Is(err, fs.ErrExist):
		return nil
	default:
		return fmt.Errorf("creating directory %s: %w", rel, err)
	}
}
