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

// pyProject is the subset of pyproject.toml fields we need.
type pyProject struct {
	Project *struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Setuptools struct {
			Packages struct {
				Find struct {
					Where []string `toml:"where"`
				} `toml:"find"`
			} `toml:"packages"`
		} `toml:"setuptools"`
		Poetry struct {
			Packages []struct {
				Include string `toml:"include"`
				From    string `toml:"from"`
			} `toml:"packages"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// probePyProject reads a root pyproject.toml. Setuptools "where" and poetry
// "from" entries declare source directories; otherwise a src/ layout or the
// manifest's presence marks the location.
func probePyProject(root string) []signal.Signal {
	pyPath := filepath.Join(root, "pyproject.toml")
	if !fileExists(pyPath) {
		return nil
	}

	data, err := FS.ReadFile(pyPath)
	if err != nil {
		slog.Debug("unreadable pyproject.toml", "path", pyPath, "error", err)
		return nil
	}

	var project pyProject
	if err := toml.Unmarshal(data, &project); err != nil {
		slog.Debug("unparseable pyproject.toml", "path", pyPath, "error", err)
		return nil
	}

	var signals []signal.Signal

	for _, where := range project.Tool.Setuptools.Packages.Find.Where {
		dir := filepath.Join(root, filepath.FromSlash(where))
		if !dirExists(dir) {
			continue
		}
		rel, _ := filepath.Rel(root, dir)
		signals = append(signals, signal.Signal{
			Family:   signal.FamilyDeclaredConfig,
			Location: dir,
			Strength: declaredDirStrength,
			Evidence: fmt.Sprintf("pyproject.toml setuptools packages under %s", rel),
		})
	}

	for _, pkg := range project.Tool.Poetry.Packages {
		if pkg.From == "" {
			continue
		}
		dir := filepath.Join(root, filepath.FromSlash(pkg.From))
		if !dirExists(dir) {
			continue
		}
		rel, _ := filepath.Rel(root, dir)
		signals = append(signals, signal.Signal{
			Family:   signal.FamilyDeclaredConfig,
			Location: dir,
			Strength: declaredDirStrength,
			Evidence: fmt.Sprintf("pyproject.toml poetry packages from %s", rel),
		})
	}

	if len(signals) == 0 {
		if src := filepath.Join(root, "src"); dirExists(src) {
			signals = append(signals, signal.Signal{
				Family:   signal.FamilyDeclaredConfig,
				Location: src,
				Strength: conventionalDirStrength,
				Evidence: "pyproject.toml with a src/ layout",
			})
		} else {
			signals = append(signals, signal.Signal{
				Family:   signal.FamilyDeclaredConfig,
				Location: root,
				Strength: manifestPresenceStrength,
				Evidence: "pyproject.toml present at root",
			})
		}
	}

	return signals
}

// probePythonSetup marks the root when a legacy setup.py or setup.cfg exists
// and no pyproject.toml already spoke for the tree.
func probePythonSetup(root string) []signal.Signal {
	if fileExists(filepath.Join(root, "pyproject.toml")) {
		return nil
	}

	for _, name := range []string{"setup.py", "setup.cfg"} {
		if fileExists(filepath.Join(root, name)) {
			return []signal.Signal{{
				Family:   signal.FamilyDeclaredConfig,
				Location: root,
				Strength: manifestPresenceStrength,
				Evidence: fmt.Sprintf("%s present at root", name),
			}}
		}
	}
	return nil
}
