// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/davetashner/locus/internal/signal"
)

// cargoManifest is the subset of Cargo.toml fields we need.
type cargoManifest struct {
	Package   *cargoPackage   `toml:"package"`
	Lib       *cargoLib       `toml:"lib"`
	Workspace *cargoWorkspace `toml:"workspace"`
}

type cargoPackage struct {
	Name string `toml:"name"`
}

type cargoLib struct {
	Path string `toml:"path"`
}

type cargoWorkspace struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
}

// probeCargo reads a root Cargo.toml. Workspace members and an explicit
// [lib] path declare directories outright; a plain package falls back to the
// src/ convention.
func probeCargo(root string) []signal.Signal {
	cargoPath := filepath.Join(root, "Cargo.toml")
	if !fileExists(cargoPath) {
		return nil
	}

	data, err := FS.ReadFile(cargoPath)
	if err != nil {
		slog.Debug("unreadable Cargo.toml", "path", cargoPath, "error", err)
		return nil
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		slog.Debug("unparseable Cargo.toml", "path", cargoPath, "error", err)
		return nil
	}

	var signals []signal.Signal

	if manifest.Workspace != nil && len(manifest.Workspace.Members) > 0 {
		excluded := make(map[string]bool)
		for _, dir := range expandWorkspaceGlobs(root, manifest.Workspace.Exclude) {
			excluded[dir] = true
		}
		for _, dir := range expandWorkspaceGlobs(root, manifest.Workspace.Members) {
			if excluded[dir] {
				continue
			}
			rel, _ := filepath.Rel(root, dir)
			signals = append(signals, signal.Signal{
				Family:   signal.FamilyDeclaredConfig,
				Location: dir,
				Strength: workspaceMemberStrength,
				Evidence: fmt.Sprintf("Cargo.toml workspace member %s", rel),
			})
		}
	}

	if manifest.Lib != nil && manifest.Lib.Path != "" {
		dir := filepath.Join(root, filepath.Dir(filepath.FromSlash(manifest.Lib.Path)))
		if dirExists(dir) {
			rel, _ := filepath.Rel(root, dir)
			signals = append(signals, signal.Signal{
				Family:   signal.FamilyDeclaredConfig,
				Location: dir,
				Strength: declaredDirStrength,
				Evidence: fmt.Sprintf("Cargo.toml [lib] path points into %s", rel),
			})
		}
	}

	if len(signals) == 0 && manifest.Package != nil {
		src := filepath.Join(root, "src")
		if fileExists(filepath.Join(src, "lib.rs")) || fileExists(filepath.Join(src, "main.rs")) {
			signals = append(signals, signal.Signal{
				Family:   signal.FamilyDeclaredConfig,
				Location: src,
				Strength: conventionalDirStrength,
				Evidence: fmt.Sprintf("Cargo package %s uses the src/ convention", manifest.Package.Name),
			})
		} else {
			signals = append(signals, signal.Signal{
				Family:   signal.FamilyDeclaredConfig,
				Location: root,
				Strength: manifestPresenceStrength,
				Evidence: "Cargo.toml present at root",
			})
		}
	}

	return signals
}
