// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/davetashner/locus/internal/signal"
)

// nodePackageJSON is the subset of package.json fields we need.
type nodePackageJSON struct {
	Main       string          `json:"main"`
	Module     string          `json:"module"`
	Workspaces json.RawMessage `json:"workspaces"`
}

// probeNodePackage reads a root package.json. Workspace globs and the
// main/module entry points all declare source directories; a bare manifest
// still marks the root.
func probeNodePackage(root string) []signal.Signal {
	pkgPath := filepath.Join(root, "package.json")
	if !fileExists(pkgPath) {
		return nil
	}

	data, err := FS.ReadFile(pkgPath)
	if err != nil {
		slog.Debug("unreadable package.json", "path", pkgPath, "error", err)
		return nil
	}

	var pkg nodePackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		slog.Debug("unparseable package.json", "path", pkgPath, "error", err)
		return nil
	}

	var signals []signal.Signal

	for _, dir := range expandWorkspaceGlobs(root, parseWorkspacesField(pkg.Workspaces)) {
		rel, _ := filepath.Rel(root, dir)
		signals = append(signals, signal.Signal{
			Family:   signal.FamilyDeclaredConfig,
			Location: dir,
			Strength: workspaceMemberStrength,
			Evidence: fmt.Sprintf("package.json workspace %s", rel),
		})
	}

	for _, entry := range []struct{ field, value string }{
		{"main", pkg.Main},
		{"module", pkg.Module},
	} {
		if entry.value == "" {
			continue
		}
		dir := filepath.Join(root, filepath.Dir(filepath.FromSlash(entry.value)))
		if !dirExists(dir) || filepath.Clean(dir) == filepath.Clean(root) {
			continue
		}
		rel, _ := filepath.Rel(root, dir)
		signals = append(signals, signal.Signal{
			Family:   signal.FamilyDeclaredConfig,
			Location: dir,
			Strength: conventionalDirStrength,
			Evidence: fmt.Sprintf("package.json %s points into %s", entry.field, rel),
		})
	}

	if len(signals) == 0 {
		signals = append(signals, signal.Signal{
			Family:   signal.FamilyDeclaredConfig,
			Location: root,
			Strength: manifestPresenceStrength,
			Evidence: "package.json present at root",
		})
	}
	return signals
}

// parseWorkspacesField handles both the array form ["packages/*"] and the
// object form {"packages": ["packages/*"]}.
func parseWorkspacesField(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}

	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj.Packages
}

// expandWorkspaceGlobs resolves workspace glob patterns to existing
// directories under root. Unresolvable patterns are skipped.
func expandWorkspaceGlobs(root string, patterns []string) []string {
	var dirs []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			slog.Debug("invalid workspace glob", "pattern", pattern, "error", err)
			continue
		}
		for _, m := range matches {
			if dirExists(m) {
				dirs = append(dirs, filepath.Clean(m))
			}
		}
	}
	return dirs
}
