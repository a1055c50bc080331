// Package workspace locates the Rust source to minify inside a Cargo project
// and answers which paths belong to it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"rsmin/internal/core/errors"
)

// Manifest is the subset of Cargo.toml rsmin reads.
type Manifest struct {
	Package Package  `toml:"package"`
	Bins    []Target `toml:"bin"`
}

type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type Target struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Workspace is a resolved project: its root, its display name and the entry
// file the minifier reads.
type Workspace struct {
	Root  string
	Name  string
	Entry string // absolute path

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

// Options selects the workspace. Entry, when set, wins over manifest
// resolution; Manifest defaults to Cargo.toml under the root.
type Options struct {
	Root         string
	Manifest     string
	Entry        string
	ExcludeDirs  []string
	ExcludeFiles []string
}

const defaultEntry = "src/main.rs"

// Load resolves the entry file. Without an override it reads the manifest:
// the first [[bin]] target with an explicit path wins, else the conventional
// src/main.rs.
func Load(opts Options) (*Workspace, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root %q: %w", root, err)
	}

	w := &Workspace{Root: absRoot, Name: filepath.Base(absRoot)}

	if w.excludeDirs, err = compileGlobs(opts.ExcludeDirs); err != nil {
		return nil, err
	}
	if w.excludeFiles, err = compileGlobs(opts.ExcludeFiles); err != nil {
		return nil, err
	}

	entry := opts.Entry
	if entry == "" {
		entry, err = w.entryFromManifest(opts.Manifest)
		if err != nil {
			return nil, err
		}
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(absRoot, entry)
	}

	info, err := os.Stat(entry)
	if err != nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotFound, "entry file does not exist"),
			errors.CtxPath, entry)
	}
	if info.IsDir() {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "entry path is a directory"),
			errors.CtxPath, entry)
	}
	w.Entry = entry

	return w, nil
}

func (w *Workspace) entryFromManifest(manifest string) (string, error) {
	if manifest == "" {
		manifest = "Cargo.toml"
	}
	path := manifest
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.Root, path)
	}

	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if os.IsNotExist(err) {
			// Bare-file projects have no manifest; fall back to convention.
			return defaultEntry, nil
		}
		return "", fmt.Errorf("read manifest %q: %w", path, err)
	}

	if m.Package.Name != "" {
		w.Name = m.Package.Name
	}
	for _, bin := range m.Bins {
		if bin.Path != "" {
			return bin.Path, nil
		}
	}
	return defaultEntry, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ExcludedDir reports whether a directory is outside the workspace's
// interest, by base name.
func (w *Workspace) ExcludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// RelevantFile reports whether a change to the path should retrigger
// minification: Rust sources and the manifest, minus excluded files.
func (w *Workspace) RelevantFile(path string) bool {
	base := filepath.Base(path)
	if filepath.Ext(base) != ".rs" && base != "Cargo.toml" {
		return false
	}
	for _, g := range w.excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	return true
}

// ReadEntry returns the entry file's current content.
func (w *Workspace) ReadEntry() (string, error) {
	data, err := os.ReadFile(w.Entry)
	if err != nil {
		return "", errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "read entry file"),
			errors.CtxPath, w.Entry)
	}
	return string(data), nil
}
