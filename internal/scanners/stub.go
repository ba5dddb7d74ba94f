// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/davetashner/locus/internal/scanner"
	"github.com/davetashner/locus/internal/signal"
)

// stubNameStrengths maps exact placeholder basenames to signal strength.
// An explicit stub name is the strongest possible statement of intent.
var stubNameStrengths = map[string]float64{
	"__stub__":       0.95,
	".stub":          0.9,
	"PLACEHOLDER":    0.9,
	"PLACEHOLDER.md": 0.85,
	".gitkeep":       0.6,
	".keep":          0.6,
}

// stubSuffixStrength applies to any "<name>.stub" file.
const stubSuffixStrength = 0.85

// contentMarkerStrength applies when a file's leading bytes flag a stub.
const contentMarkerStrength = 0.8

// initOnlyStrength applies to a package directory holding only __init__.py.
const initOnlyStrength = 0.75

// maxStubFileSize bounds which files get a content check. Placeholder files
// are tiny; anything larger is real code.
const maxStubFileSize = 4096

// stubContentPattern matches leading content that explicitly asks for an
// implementation at this location.
var stubContentPattern = regexp.MustCompile(`(?i)\bimplement\s+(?:me|here)\b`)

// stubLinePattern matches a leading line that is nothing but a stub marker.
var stubLinePattern = regexp.MustCompile(`(?im)^\s*(?://|#|--|/\*)?\s*stub\s*(?:\*/)?\s*$`)

func init() {
	scanner.Register(&StubScanner{})
}

// StubScanner finds placeholder files and directories whose name or leading
// content explicitly flags an intended location.
type StubScanner struct{}

// Compile-time interface check.
var _ scanner.Scanner = (*StubScanner)(nil)

// Family returns the signal family this scanner produces.
func (s *StubScanner) Family() signal.Family { return signal.FamilyStubMarker }

// Scan walks the tree and emits one signal per stub marker found. The signal
// location is the directory holding the marker.
func (s *StubScanner) Scan(ctx context.Context, root string, opts signal.ScanOpts) ([]signal.Signal, error) {
	excludes := mergeExcludes(opts.ExcludePatterns)

	var signals []signal.Signal
	err := walkBounded(ctx, root, excludes, func(path, rel string, d os.DirEntry) error {
		if d.IsDir() {
			// A marker directory like src/widget/__stub__ flags its parent.
			if strength, ok := stubNameStrengths[d.Name()]; ok {
				signals = append(signals, signal.Signal{
					Family:   s.Family(),
					Location: filepath.Dir(path),
					Strength: strength,
					Evidence: fmt.Sprintf("placeholder directory %s", rel),
				})
				return filepath.SkipDir
			}
			if sig, ok := initOnlyPackage(path, rel, s.Family()); ok {
				signals = append(signals, sig)
			}
			return nil
		}

		name := d.Name()
		location := filepath.Dir(path)

		if strength, ok := stubNameStrengths[name]; ok {
			signals = append(signals, signal.Signal{
				Family:   s.Family(),
				Location: location,
				Strength: strength,
				Evidence: fmt.Sprintf("placeholder file %s", rel),
			})
			return nil
		}
		if strings.HasSuffix(name, ".stub") {
			signals = append(signals, signal.Signal{
				Family:   s.Family(),
				Location: location,
				Strength: stubSuffixStrength,
				Evidence: fmt.Sprintf("stub file %s", rel),
			})
			return nil
		}

		if sig, ok := contentMarker(path, rel, location, s.Family(), d); ok {
			signals = append(signals, sig)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tree: %w", err)
	}
	return signals, nil
}

// initOnlyPackage reports a directory whose only entry is __init__.py: a
// Python package scaffolded but not yet filled in.
func initOnlyPackage(path, rel string, family signal.Family) (signal.Signal, bool) {
	entries, err := FS.ReadDir(path)
	if err != nil || len(entries) != 1 {
		return signal.Signal{}, false
	}
	if entries[0].IsDir() || entries[0].Name() != "__init__.py" {
		return signal.Signal{}, false
	}
	return signal.Signal{
		Family:   family,
		Location: path,
		Strength: initOnlyStrength,
		Evidence: fmt.Sprintf("package %s contains only __init__.py", rel),
	}, true
}

// contentMarker checks the leading bytes of a small file for an explicit
// implementation marker.
func contentMarker(path, rel, location string, family signal.Family, d os.DirEntry) (signal.Signal, bool) {
	info, err := d.Info()
	if err != nil || info.Size() > maxStubFileSize {
		return signal.Signal{}, false
	}

	head, err := readHead(path)
	if err != nil {
		return signal.Signal{}, false
	}

	if !stubContentPattern.Match(head) && !stubLinePattern.Match(head) {
		return signal.Signal{}, false
	}
	return signal.Signal{
		Family:   family,
		Location: location,
		Strength: contentMarkerStrength,
		Evidence: fmt.Sprintf("leading content of %s flags a stub", rel),
	}, true
}
