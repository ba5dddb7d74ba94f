// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/locus/internal/scanner"
	"github.com/davetashner/locus/internal/signal"
)

// testDirNames are directory basenames conventionally holding tests.
var testDirNames = map[string]bool{
	"tests":     true,
	"test":      true,
	"spec":      true,
	"__tests__": true,
}

// sourceSiblingNames are conventional implementation directories checked as
// siblings of a test directory, in preference order.
var sourceSiblingNames = []string{"src", "lib", "app", "pkg", "internal"}

// Test layout signal strengths. Structural evidence is hard to fake
// accidentally but still an inference, so strengths sit mid-range.
const (
	siblingSourceStrength = 0.6  // tests/ with a conventional source sibling
	testDirStrength       = 0.5  // bare tests/ directory, parent inferred
	mirroredFileStrength  = 0.55 // test file mirrored to an existing source dir
	orphanFileStrength    = 0.45 // test file with no mirrored source dir
	inlineTestStrength    = 0.5  // foo_test.go style file beside implementation
	mavenLayoutStrength   = 0.6  // src/test -> src/main mirror
)

func init() {
	scanner.Register(&TestLayoutScanner{})
}

// TestLayoutScanner infers implementation locations from conventional test
// directories and test file names: the implementation belongs beside the
// tests that exercise it.
type TestLayoutScanner struct{}

// Compile-time interface check.
var _ scanner.Scanner = (*TestLayoutScanner)(nil)

// Family returns the signal family this scanner produces.
func (s *TestLayoutScanner) Family() signal.Family { return signal.FamilyTestLayout }

// Scan walks the tree for test directories and test files and emits signals
// pointing at the inferred sibling implementation locations.
func (s *TestLayoutScanner) Scan(ctx context.Context, root string, opts signal.ScanOpts) ([]signal.Signal, error) {
	excludes := mergeExcludes(opts.ExcludePatterns)

	var signals []signal.Signal
	err := walkBounded(ctx, root, excludes, func(path, rel string, d os.DirEntry) error {
		if d.IsDir() {
			if testDirNames[d.Name()] {
				signals = append(signals, s.testDirSignals(path, rel)...)
			}
			if sig, ok := s.mavenLayout(path, rel, d.Name()); ok {
				signals = append(signals, sig)
			}
			return nil
		}

		if sig, ok := s.testFileSignal(root, path, rel, d.Name()); ok {
			signals = append(signals, sig)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tree: %w", err)
	}
	return signals, nil
}

// testDirSignals emits signals for one test directory: the parent directory
// is the inferred implementation container, and a conventional source
// sibling, when present, is a stronger candidate.
func (s *TestLayoutScanner) testDirSignals(path, rel string) []signal.Signal {
	parent := filepath.Dir(path)
	name := filepath.Base(path)

	signals := []signal.Signal{{
		Family:   s.Family(),
		Location: parent,
		Strength: testDirStrength,
		Evidence: fmt.Sprintf("test directory %s implies implementation beside it", rel),
	}}

	for _, sibling := range sourceSiblingNames {
		candidate := filepath.Join(parent, sibling)
		if dirExists(candidate) {
			signals = append(signals, signal.Signal{
				Family:   s.Family(),
				Location: candidate,
				Strength: siblingSourceStrength,
				Evidence: fmt.Sprintf("%s sits beside source directory %s", name, sibling),
			})
			break
		}
	}

	return signals
}

// mavenLayout recognizes the src/test <-> src/main mirror used by JVM builds.
func (s *TestLayoutScanner) mavenLayout(path, rel, name string) (signal.Signal, bool) {
	if name != "test" || filepath.Base(filepath.Dir(path)) != "src" {
		return signal.Signal{}, false
	}
	main := filepath.Join(filepath.Dir(path), "main")
	if !dirExists(main) {
		return signal.Signal{}, false
	}
	return signal.Signal{
		Family:   s.Family(),
		Location: main,
		Strength: mavenLayoutStrength,
		Evidence: fmt.Sprintf("%s mirrors src/main", rel),
	}, true
}

// testFileSignal maps one test file to its implied implementation location.
func (s *TestLayoutScanner) testFileSignal(root, path, rel, name string) (signal.Signal, bool) {
	if !isTestFileName(name) {
		return signal.Signal{}, false
	}

	dir := filepath.Dir(path)
	inTestDir, testRoot := enclosingTestDir(root, dir)

	if !inTestDir {
		// foo_test.go style: the implementation lives in the same directory.
		return signal.Signal{
			Family:   s.Family(),
			Location: dir,
			Strength: inlineTestStrength,
			Evidence: fmt.Sprintf("test file %s sits beside its implementation", rel),
		}, true
	}

	// Mirror tests/<sub> onto a source tree: prefer <parent>/src/<sub> and
	// friends, fall back to <parent>/<sub>, then to the test root's parent.
	parent := filepath.Dir(testRoot)
	sub, err := filepath.Rel(testRoot, dir)
	if err != nil {
		sub = "."
	}

	candidates := make([]string, 0, len(sourceSiblingNames)+1)
	for _, sibling := range sourceSiblingNames {
		candidates = append(candidates, filepath.Join(parent, sibling, sub))
	}
	if sub != "." {
		candidates = append(candidates, filepath.Join(parent, sub))
	}
	for _, candidate := range candidates {
		if dirExists(candidate) {
			return signal.Signal{
				Family:   s.Family(),
				Location: filepath.Clean(candidate),
				Strength: mirroredFileStrength,
				Evidence: fmt.Sprintf("test file %s mirrors it", rel),
			}, true
		}
	}

	return signal.Signal{
		Family:   s.Family(),
		Location: parent,
		Strength: orphanFileStrength,
		Evidence: fmt.Sprintf("test file %s implies implementation beside %s", rel, filepath.Base(testRoot)),
	}, true
}

// isTestFileName recognizes test file naming conventions across the common
// languages.
func isTestFileName(name string) bool {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	switch ext {
	case ".go":
		return strings.HasSuffix(stem, "_test")
	case ".py":
		return strings.HasPrefix(name, "test_") || strings.HasSuffix(stem, "_test")
	case ".js", ".jsx", ".ts", ".tsx":
		return strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec")
	case ".rb":
		return strings.HasSuffix(stem, "_spec") || strings.HasSuffix(stem, "_test")
	case ".java", ".kt", ".scala":
		return strings.HasSuffix(stem, "Test") || strings.HasSuffix(stem, "Tests") || strings.HasSuffix(stem, "Spec")
	case ".rs":
		return strings.HasSuffix(stem, "_test")
	case ".exs":
		return strings.HasSuffix(stem, "_test")
	case ".php", ".cs":
		return strings.HasSuffix(stem, "Test") || strings.HasSuffix(stem, "Tests")
	}
	return false
}

// enclosingTestDir walks from dir up to root looking for a conventional test
// directory. It returns the deepest such ancestor.
func enclosingTestDir(root, dir string) (bool, string) {
	for current := dir; strings.HasPrefix(current, root); current = filepath.Dir(current) {
		if testDirNames[filepath.Base(current)] {
			return true, current
		}
		if current == root || filepath.Dir(current) == current {
			break
		}
	}
	return false, ""
}
