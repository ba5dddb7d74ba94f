// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/davetashner/locus/internal/signal"
)

// probeGoModule reads a root go.mod. The module declaration marks the root
// itself as the Go source root.
func probeGoModule(root string) []signal.Signal {
	modPath := filepath.Join(root, "go.mod")
	if !fileExists(modPath) {
		return nil
	}

	data, err := FS.ReadFile(modPath)
	if err != nil {
		slog.Debug("unreadable go.mod", "path", modPath, "error", err)
		return nil
	}

	mf, err := modfile.ParseLax(modPath, data, nil)
	if err != nil || mf.Module == nil {
		slog.Debug("unparseable go.mod", "path", modPath, "error", err)
		return nil
	}

	return []signal.Signal{{
		Family:   signal.FamilyDeclaredConfig,
		Location: root,
		Strength: declaredDirStrength,
		Evidence: fmt.Sprintf("go.mod declares module %s", mf.Module.Mod.Path),
	}}
}

// probeGoWorkspace reads a root go.work and emits one signal per existing
// use directory.
func probeGoWorkspace(root string) []signal.Signal {
	workPath := filepath.Join(root, "go.work")
	if !fileExists(workPath) {
		return nil
	}

	data, err := FS.ReadFile(workPath)
	if err != nil {
		slog.Debug("unreadable go.work", "path", workPath, "error", err)
		return nil
	}

	wf, err := modfile.ParseWork(workPath, data, nil)
	if err != nil {
		slog.Debug("unparseable go.work", "path", workPath, "error", err)
		return nil
	}

	var signals []signal.Signal
	for _, use := range wf.Use {
		rel := filepath.Clean(use.Path)
		abs := rel
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, rel)
		}
		if !dirExists(abs) {
			continue
		}
		signals = append(signals, signal.Signal{
			Family:   signal.FamilyDeclaredConfig,
			Location: abs,
			Strength: workspaceMemberStrength,
			Evidence: fmt.Sprintf("go.work uses %s", rel),
		})
	}
	return signals
}
