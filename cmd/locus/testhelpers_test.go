// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// initTestProject creates a small project tree in t.TempDir() with evidence
// for several scanner families: a go.mod (declared config), a stub marker
// under src/widget, a conventional tests/ directory, and a src/ layout
// (naming convention). Returns the resolved project root.
func initTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	// Resolve symlinks so paths match what the detector resolves internally
	// (e.g., macOS /var -> /private/var).
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err, "eval symlinks")

	writeTestFile(t, dir, "go.mod", "module example.com/widgets\n\ngo 1.22\n")
	writeTestFile(t, dir, "src/widget/__stub__", "implement the widget parser here\n")
	writeTestFile(t, dir, "src/widget/doc.txt", "widget package\n")
	writeTestFile(t, dir, "tests/test_widget.py", "def test_widget():\n    pass\n")

	return dir
}

// writeTestFile writes content to a path relative to dir, creating parents.
func writeTestFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// isolateGlobalConfig points the global config lookup at an empty temp
// directory so developer machines' ~/.config/locus does not leak into tests.
func isolateGlobalConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// runLocus executes the root command with the given args and returns the
// combined output. Command flag state is restored afterwards so tests stay
// independent.
func runLocus(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetCommandState)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetCommandState clears flag-bound package variables between tests.
// Cobra re-parses args on every Execute, but values from a previous run
// survive in the bound variables when the next run omits the flag.
func resetCommandState() {
	detectRequirement = ""
	detectBudget = 0
	detectFormat = ""
	detectOutput = ""
	detectMaxFallbacks = 0
	detectExclude = nil
	detectScanners = ""
	detectFailDegraded = false

	validateRoot = ""
	validateBudget = 0
	validateRequirement = ""
	validateJSON = false

	verbose = false
	quiet = false
	noColor = false

	resetConfigFlags()
}
