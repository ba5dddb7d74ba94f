// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/locus/internal/classify"
	"github.com/davetashner/locus/internal/detect"
)

// InitAction records the outcome of writing a starter config file.
type InitAction struct {
	File        string // ".locus.yaml"
	Operation   string // "created" or "skipped"
	Description string // human-readable detail
}

// Init writes a commented starter .locus.yaml to the given project root.
// An existing file is left alone unless force is set.
func Init(root string, force bool) (InitAction, error) {
	path := filepath.Join(root, FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return InitAction{
			File:        FileName,
			Operation:   "skipped",
			Description: "already exists (use --force to regenerate)",
		}, nil
	}

	if err := os.WriteFile(path, []byte(DefaultYAML()), 0o600); err != nil {
		return InitAction{}, err
	}

	desc := "commented defaults"
	if force {
		desc = "regenerated with commented defaults"
	}
	return InitAction{File: FileName, Operation: "created", Description: desc}, nil
}

// DefaultYAML returns the commented starter config written by locus config
// init. Every value matches a built-in default, so the file changes nothing
// until edited.
func DefaultYAML() string {
	var b strings.Builder
	b.WriteString("# locus configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Command-line flags override these values; delete a line to fall back\n")
	b.WriteString("# to the built-in default.\n\n")

	b.WriteString("# Scan time budget in milliseconds.\n")
	fmt.Fprintf(&b, "default_budget_ms: %d\n\n", detect.DefaultBudget.Milliseconds())

	b.WriteString("# Fallback candidates reported after the primary location.\n")
	fmt.Fprintf(&b, "max_fallbacks: %d\n\n", classify.DefaultMaxFallbacks)

	b.WriteString("# Output format: text, json, or markdown.\n")
	b.WriteString("format: text\n\n")

	b.WriteString("# Globs excluded from every scan, on top of the built-in vendor and\n")
	b.WriteString("# build-output exclusions.\n")
	b.WriteString("#exclude_patterns:\n")
	b.WriteString("#  - generated/**\n\n")

	b.WriteString("# Per-scanner settings, keyed by family.\n")
	b.WriteString("scanners:\n")
	for _, key := range ScannerKeys() {
		fmt.Fprintf(&b, "  %s:\n    enabled: true\n", key)
	}
	return b.String()
}
