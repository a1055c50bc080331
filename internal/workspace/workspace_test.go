package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"rsmin/internal/core/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadResolvesConventionalEntry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), `
[package]
name = "shapes"
version = "0.1.0"
`)
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() {}\n")

	w, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "shapes" {
		t.Errorf("name = %q", w.Name)
	}
	if w.Entry != filepath.Join(root, "src", "main.rs") {
		t.Errorf("entry = %q", w.Entry)
	}
}

func TestLoadHonorsBinTargetPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), `
[package]
name = "tool"
version = "0.1.0"

[[bin]]
name = "tool"
path = "src/bin/tool.rs"
`)
	writeFile(t, filepath.Join(root, "src", "bin", "tool.rs"), "fn main() {}\n")

	w, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if w.Entry != filepath.Join(root, "src", "bin", "tool.rs") {
		t.Errorf("entry = %q", w.Entry)
	}
}

func TestLoadEntryOverrideWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), `
[package]
name = "tool"

[[bin]]
name = "tool"
path = "src/bin/tool.rs"
`)
	writeFile(t, filepath.Join(root, "lib.rs"), "fn main() {}\n")

	w, err := Load(Options{Root: root, Entry: "lib.rs"})
	if err != nil {
		t.Fatal(err)
	}
	if w.Entry != filepath.Join(root, "lib.rs") {
		t.Errorf("entry = %q", w.Entry)
	}
}

func TestLoadWithoutManifestFallsBack(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() {}\n")

	w, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if w.Entry != filepath.Join(root, "src", "main.rs") {
		t.Errorf("entry = %q", w.Entry)
	}
}

func TestLoadMissingEntryIsNotFound(t *testing.T) {
	_, err := Load(Options{Root: t.TempDir()})
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestExclusionRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() {}\n")

	w, err := Load(Options{
		Root:         root,
		ExcludeDirs:  []string{"target", ".git"},
		ExcludeFiles: []string{"*.expanded.rs"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !w.ExcludedDir(filepath.Join(root, "target")) {
		t.Error("target should be excluded")
	}
	if w.ExcludedDir(filepath.Join(root, "src")) {
		t.Error("src should not be excluded")
	}
	if !w.RelevantFile(filepath.Join(root, "src", "main.rs")) {
		t.Error("main.rs should be relevant")
	}
	if !w.RelevantFile(filepath.Join(root, "Cargo.toml")) {
		t.Error("Cargo.toml should be relevant")
	}
	if w.RelevantFile(filepath.Join(root, "src", "macro.expanded.rs")) {
		t.Error("excluded pattern should not be relevant")
	}
	if w.RelevantFile(filepath.Join(root, "README.md")) {
		t.Error("non-source file should not be relevant")
	}
}

func TestReadEntry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() { let x = 1; }\n")

	w, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	src, err := w.ReadEntry()
	if err != nil {
		t.Fatal(err)
	}
	if src != "fn main() { let x = 1; }\n" {
		t.Errorf("source = %q", src)
	}
}
