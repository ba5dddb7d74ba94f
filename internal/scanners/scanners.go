// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

// Package scanners provides the signal scanner implementations for locus,
// one per signal family. Scanners are read-only, bound their directory
// walks, and absorb expected filesystem failures by emitting fewer signals.
package scanners

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/locus/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// maxWalkDepth bounds recursive walks below the scanned root so pathological
// trees stay cheap. Evidence deeper than this is too speculative anyway.
const maxWalkDepth = 6

// headReadSize is how many leading bytes a scanner may read from a file.
// Scanners never load whole files.
const headReadSize = 512

// defaultExcludePatterns are directory globs skipped unless overridden.
// These are vendored or generated trees that carry no placement intent.
var defaultExcludePatterns = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"target/**",
	"dist/**",
	"build/**",
	"out/**",
	"__pycache__/**",
	"third_party/**",
	"3rdparty/**",
	"extern/**",
	"external/**",
	"bower_components/**",
	"testdata/**",
}

// shouldExclude reports whether relPath matches any of the given glob
// patterns. Patterns ending in "/**" match the directory itself and
// everything below it, at the root or as an interior segment.
func shouldExclude(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, relPath)
		if err == nil && matched {
			return true
		}
		// Match the pattern against just the basename for non-path patterns
		// like "*.min.js" that should apply in any directory.
		if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
			matched, err = filepath.Match(pattern, filepath.Base(relPath))
			if err == nil && matched {
				return true
			}
		}
		if strings.HasSuffix(pattern, "/**") {
			dir := strings.TrimSuffix(pattern, "/**")
			sep := string(filepath.Separator)
			if relPath == dir || strings.HasPrefix(relPath, dir+sep) {
				return true
			}
			if strings.Contains(relPath, sep+dir+sep) || strings.HasSuffix(relPath, sep+dir) {
				return true
			}
		}
	}
	return false
}

// mergeExcludes returns the union of default and user-provided exclude
// patterns. User patterns are appended to (not replacing) the defaults.
func mergeExcludes(userPatterns []string) []string {
	merged := make([]string, len(defaultExcludePatterns))
	copy(merged, defaultExcludePatterns)
	merged = append(merged, userPatterns...)
	return merged
}

// walkBounded walks the tree under root, calling fn for every entry that
// survives the shared filters: excluded and hidden directories are pruned,
// depth is capped at maxWalkDepth, symlinks escaping root are skipped, and
// unreadable entries are absorbed. Hidden files are passed through since
// several marker conventions are dotfiles. fn receives the absolute path,
// the path relative to root, and the entry. Returning filepath.SkipDir from
// fn prunes a directory as usual.
func walkBounded(ctx context.Context, root string, excludes []string, fn func(path, rel string, d os.DirEntry) error) error {
	return FS.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Debug("skipping unreadable entry", "path", path, "error", walkErr)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if hiddenName(d.Name()) || shouldExclude(rel, excludes) {
				return filepath.SkipDir
			}
			if pathComponents(rel) > maxWalkDepth {
				return filepath.SkipDir
			}
			return fn(path, rel, d)
		}

		if shouldExclude(rel, excludes) {
			return nil
		}

		// Skip symlinks that resolve outside the tree to prevent traversal.
		if d.Type()&os.ModeSymlink != 0 {
			resolved, resolveErr := FS.EvalSymlinks(path)
			if resolveErr != nil {
				return nil
			}
			if !strings.HasPrefix(resolved, root+string(filepath.Separator)) && resolved != root {
				return nil
			}
		}

		return fn(path, rel, d)
	})
}

// hiddenName reports whether a basename is a dotfile or dotdir.
func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != string(filepath.Separator)
}

// pathComponents counts the components of a relative path.
func pathComponents(rel string) int {
	if rel == "" || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// readHead returns up to headReadSize leading bytes of the named file.
func readHead(path string) ([]byte, error) {
	f, err := FS.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file, close error is inconsequential

	buf := make([]byte, headReadSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// fileExists returns true if path exists and is a regular file.
func fileExists(path string) bool {
	info, err := FS.Stat(path)
	return err == nil && !info.IsDir()
}

// dirExists returns true if path exists and is a directory.
func dirExists(path string) bool {
	info, err := FS.Stat(path)
	return err == nil && info.IsDir()
}
