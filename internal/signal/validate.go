package signal

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError describes a single validation failure for a Signal.
type ValidationError struct {
	// Field is the struct field that failed validation.
	Field string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks a Signal against the scanned root and returns all
// validation errors found. An empty slice means the signal is valid.
// Signals that escape the root are rejected here so containment is enforced
// in one place rather than trusted to each scanner.
func Validate(s Signal, root string) []ValidationError {
	var errs []ValidationError

	if !KnownFamily(s.Family) {
		errs = append(errs, ValidationError{
			Field:   "Family",
			Message: fmt.Sprintf("unknown family %q", s.Family),
		})
	}

	if !filepath.IsAbs(s.Location) {
		errs = append(errs, ValidationError{
			Field:   "Location",
			Message: "must be an absolute path",
		})
	} else if !WithinRoot(s.Location, root) {
		errs = append(errs, ValidationError{
			Field:   "Location",
			Message: fmt.Sprintf("escapes scanned root %q", root),
		})
	}

	if s.Strength < 0.0 || s.Strength > 1.0 {
		errs = append(errs, ValidationError{
			Field:   "Strength",
			Message: fmt.Sprintf("must be between 0.0 and 1.0, got %v", s.Strength),
		})
	}

	if strings.TrimSpace(s.Evidence) == "" {
		errs = append(errs, ValidationError{
			Field:   "Evidence",
			Message: "must not be empty",
		})
	}

	return errs
}

// WithinRoot reports whether path equals root or is a descendant of it.
// Both paths are expected to be absolute and cleaned.
func WithinRoot(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
