package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkSkipsDenylistedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.go"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"))
	writeFile(t, filepath.Join(root, ".git", "HEAD"))
	writeFile(t, filepath.Join(root, "__pycache__", "mod.pyc"))

	w := NewWalker(nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(files), files)
	}
	if !strings.HasSuffix(files[0].Path, filepath.Join("src", "main.go")) {
		t.Errorf("unexpected file: %s", files[0].Path)
	}
}

func TestWalkSkipsBinaryExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logo.PNG"))
	writeFile(t, filepath.Join(root, "archive.zip"))
	writeFile(t, filepath.Join(root, "lib.so"))
	writeFile(t, filepath.Join(root, "readme.md"))

	w := NewWalker(nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if !strings.HasSuffix(files[0].Path, "readme.md") {
		t.Errorf("unexpected file: %s", files[0].Path)
	}
}

func TestWalkUserExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.go"))
	writeFile(t, filepath.Join(root, "generated", "api.go"))
	writeFile(t, filepath.Join(root, "app.min.js"))

	w := NewWalker([]string{"generated/**", "**/*.min.js"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if !strings.HasSuffix(files[0].Path, "keep.go") {
		t.Errorf("unexpected file: %s", files[0].Path)
	}
}

func TestWalkNonExistentRoot(t *testing.T) {
	w := NewWalker(nil)
	files, _ := w.Walk(filepath.Join(t.TempDir(), "missing"))
	if len(files) != 0 {
		t.Errorf("expected no files for missing root, got %d", len(files))
	}
}
