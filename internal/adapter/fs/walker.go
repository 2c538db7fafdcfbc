package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"reposage/internal/port"
)

// skipDirs are directory names never descended into: version-control
// metadata and dependency/build/cache trees.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".vscode":      true,
	".idea":        true,
	"target":       true,
	"build":        true,
	"dist":         true,
	"bin":          true,
	"__pycache__":  true,
}

// skipExtensions are binary and media formats that are never indexed.
var skipExtensions = map[string]bool{
	".git":   true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".ico":   true,
	".svg":   true,
	".pdf":   true,
	".zip":   true,
	".tar":   true,
	".gz":    true,
	".exe":   true,
	".dll":   true,
	".bin":   true,
	".so":    true,
	".dylib": true,
}

// Walker selects files eligible for indexing under a root directory.
// Beyond the fixed denylists, user-configured glob patterns can exclude
// additional paths.
type Walker struct {
	excludes []string
}

func NewWalker(excludes []string) *Walker {
	return &Walker{excludes: excludes}
}

// Walk traverses root depth-first and returns the eligible files.
// Unreadable entries are logged and skipped; one bad subtree never fails
// the whole walk.
func (w *Walker) Walk(root string) ([]port.FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []port.FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipDirs[d.Name()] || w.matchesExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks are skipped rather than followed, which also rules
		// out symlink cycles.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if skipExtensions[ext] {
			return nil
		}
		if w.matchesExclude(relPath) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, infoErr)
			return nil
		}

		files = append(files, port.FileInfo{
			Path: path,
			Size: info.Size(),
		})
		return nil
	})

	return files, err
}

func (w *Walker) matchesExclude(relPath string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, relPath)
		if err == nil && matched {
			return true
		}
	}
	return false
}
