package detect

import "fmt"

// InvalidRootError reports a detection root that does not exist or is not a
// directory. It is the only error Detect returns.
type InvalidRootError struct {
	// Path is the root as the caller provided it.
	Path string
	// Reason describes why the root cannot be scanned.
	Reason string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid root %q: %s", e.Path, e.Reason)
}

// resolveRoot resolves a root path to its absolute, symlink-resolved form so
// every signal location shares a stable prefix. An empty path means the
// current directory.
func resolveRoot(path string) (string, error) {
	orig := path
	if path == "" {
		path = "."
	}

	abs, err := FS.Abs(path)
	if err != nil {
		return "", &InvalidRootError{Path: orig, Reason: "cannot resolve to an absolute path"}
	}

	resolved, err := FS.EvalSymlinks(abs)
	if err != nil {
		return "", &InvalidRootError{Path: orig, Reason: "path does not exist"}
	}

	info, err := FS.Stat(resolved)
	if err != nil {
		return "", &InvalidRootError{Path: orig, Reason: "path does not exist"}
	}
	if !info.IsDir() {
		return "", &InvalidRootError{Path: orig, Reason: "path is not a directory"}
	}

	return resolved, nil
}
