package validate

import "path/filepath"

// projectRootMarkers anchor the walk-up search for an enclosing project
// root, checked in order at each level.
var projectRootMarkers = []string{
	".git",
	"go.mod",
	"go.work",
	"package.json",
	"Cargo.toml",
	"pyproject.toml",
	"setup.py",
}

// projectRootFor finds the project root enclosing path. The search starts at
// the deepest existing ancestor, so a proposal for a not-yet-created
// directory still resolves. Without any marker the deepest existing ancestor
// itself is the root.
func projectRootFor(path string) string {
	start := deepestExistingDir(path)

	for current := start; ; current = filepath.Dir(current) {
		for _, marker := range projectRootMarkers {
			if _, err := FS.Stat(filepath.Join(current, marker)); err == nil {
				return current
			}
		}
		if filepath.Dir(current) == current {
			return start
		}
	}
}

// deepestExistingDir walks up from path until it finds a directory that
// exists.
func deepestExistingDir(path string) string {
	for current := path; ; current = filepath.Dir(current) {
		if info, err := FS.Stat(current); err == nil && info.IsDir() {
			return current
		}
		if filepath.Dir(current) == current {
			return current
		}
	}
}
