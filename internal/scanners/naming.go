// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/davetashner/locus/internal/scanner"
	"github.com/davetashner/locus/internal/signal"
	"github.com/davetashner/locus/internal/testable"
)

// GitOpener is the git access used to resolve the repository name.
// Override in tests with a testable.MockGitOpener.
var GitOpener testable.GitOpener = testable.DefaultGitOpener

// semanticDirStrengths maps conventional source-layout directory names to
// signal strength. Naming is the lowest-trust family: it fills gaps and
// breaks ties, nothing more.
var semanticDirStrengths = map[string]float64{
	"src":      0.5,
	"lib":      0.45,
	"pkg":      0.4,
	"app":      0.4,
	"internal": 0.4,
	"source":   0.35,
	"cmd":      0.35,
}

const (
	// repoNameStrength applies when a directory name matches the repository name.
	repoNameStrength = 0.5

	// requirementHintStrength applies when a directory name matches a token
	// from the caller's requirement text.
	requirementHintStrength = 0.45

	// indexFileBoost is added when a matched directory carries a language
	// index file, tightening a weak name-only match.
	indexFileBoost = 0.15

	// maxNamingDepth bounds how deep name matching looks. Deep directories
	// rarely carry layout meaning in their bare name.
	maxNamingDepth = 3

	// minHintTokenLen filters requirement tokens too short to mean anything.
	minHintTokenLen = 3
)

// indexFileNames are per-language entry files whose presence marks a
// directory as a real source package rather than an incidental name match.
var indexFileNames = []string{
	"index.ts", "index.js", "lib.rs", "mod.rs", "__init__.py", "main.go", "doc.go",
}

// hintTokenPattern splits requirement text into candidate directory tokens.
var hintTokenPattern = regexp.MustCompile(`[a-z0-9_\-]+`)

// sshRemotePattern matches git@host:owner/repo.git SSH URLs.
var sshRemotePattern = regexp.MustCompile(`^git@[^:]+:(?:[^/]+/)*([^/]+?)(?:\.git)?$`)

func init() {
	scanner.Register(&NamingScanner{})
}

// NamingScanner matches directory names against common source-layout idioms:
// conventional names like src/, a directory named after the repository, and
// names drawn from the caller's requirement hint.
type NamingScanner struct{}

// Compile-time interface check.
var _ scanner.Scanner = (*NamingScanner)(nil)

// Family returns the signal family this scanner produces.
func (s *NamingScanner) Family() signal.Family { return signal.FamilyNamingConvention }

// Scan walks directories down to maxNamingDepth and emits a signal for every
// conventional, repository-name, or requirement-hint match.
func (s *NamingScanner) Scan(ctx context.Context, root string, opts signal.ScanOpts) ([]signal.Signal, error) {
	excludes := mergeExcludes(opts.ExcludePatterns)
	repoName := normalizeName(repositoryName(root))
	hints := hintTokens(opts.Requirement)

	var signals []signal.Signal
	err := walkBounded(ctx, root, excludes, func(path, rel string, d os.DirEntry) error {
		if !d.IsDir() {
			return nil
		}
		if pathComponents(rel) > maxNamingDepth {
			return filepath.SkipDir
		}

		name := d.Name()
		boost := 0.0
		if hasIndexFile(path) {
			boost = indexFileBoost
		}

		if strength, ok := semanticDirStrengths[name]; ok {
			signals = append(signals, signal.Signal{
				Family:   s.Family(),
				Location: path,
				Strength: capStrength(strength + boost),
				Evidence: fmt.Sprintf("conventional source directory name %s", rel),
			})
		}

		if repoName != "" && normalizeName(name) == repoName {
			signals = append(signals, signal.Signal{
				Family:   s.Family(),
				Location: path,
				Strength: capStrength(repoNameStrength + boost),
				Evidence: fmt.Sprintf("directory %s matches the repository name", rel),
			})
		}

		if hints[strings.ToLower(name)] {
			signals = append(signals, signal.Signal{
				Family:   s.Family(),
				Location: path,
				Strength: capStrength(requirementHintStrength + boost),
				Evidence: fmt.Sprintf("directory %s matches the requirement hint", rel),
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tree: %w", err)
	}
	return signals, nil
}

// repositoryName resolves the project's name, preferring the git origin
// remote over the root directory's basename. Any git failure falls back to
// the basename; a missing remote is expected, not an error.
func repositoryName(root string) string {
	repo, err := GitOpener.PlainOpen(root)
	if err != nil {
		return filepath.Base(root)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return filepath.Base(root)
	}

	for _, r := range remotes {
		if r.Config().Name != "origin" || len(r.Config().URLs) == 0 {
			continue
		}
		if name := repoNameFromURL(r.Config().URLs[0]); name != "" {
			return name
		}
	}
	return filepath.Base(root)
}

// repoNameFromURL extracts the repository name from an HTTPS or SSH remote URL.
func repoNameFromURL(rawURL string) string {
	if m := sshRemotePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return ""
	}
	return strings.TrimSuffix(parts[len(parts)-1], ".git")
}

// normalizeName lowercases a name and strips separators so "my-widget",
// "my_widget", and "MyWidget" all compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

// hintTokens extracts usable directory-name tokens from requirement text.
func hintTokens(requirement string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range hintTokenPattern.FindAllString(strings.ToLower(requirement), -1) {
		if len(tok) >= minHintTokenLen {
			tokens[tok] = true
		}
	}
	return tokens
}

// hasIndexFile reports whether dir carries a per-language entry file.
func hasIndexFile(dir string) bool {
	for _, name := range indexFileNames {
		if fileExists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

// capStrength clamps a boosted strength back into [0,1].
func capStrength(strength float64) float64 {
	if strength > 1.0 {
		return 1.0
	}
	return strength
}
