// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_TextOutput(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	out, err := runLocus(t, "detect", dir, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "Detected root:")
	assert.Contains(t, out, dir)
}

func TestDetect_JSONOutput(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	out, err := runLocus(t, "detect", dir, "--format", "json", "--budget", "5s")
	require.NoError(t, err)

	var envelope struct {
		ID             string `json:"id"`
		DetectedRoot   string `json:"detected_root"`
		ConfidenceTier string `json:"confidence_tier"`
		Primary        struct {
			Path      string `json:"path"`
			Rationale string `json:"rationale"`
		} `json:"primary"`
		DegradedFamilies  []string `json:"degraded_families"`
		SignalsConsidered int      `json:"signals_considered"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope), "output is not valid JSON:\n%s", out)

	assert.NotEmpty(t, envelope.ID)
	assert.Contains(t, envelope.DetectedRoot, dir, "winning location must live inside the scanned tree")
	assert.NotEqual(t, "NONE", envelope.ConfidenceTier, "fixture tree carries strong evidence")
	assert.NotEmpty(t, envelope.Primary.Path)
	assert.NotEmpty(t, envelope.Primary.Rationale)
	assert.Empty(t, envelope.DegradedFamilies)
	assert.Positive(t, envelope.SignalsConsidered)
}

func TestDetect_MarkdownOutput(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	out, err := runLocus(t, "detect", dir, "-f", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Detected location")
	assert.Contains(t, out, "**Root:**")
}

func TestDetect_OutputFile(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)
	outFile := filepath.Join(t.TempDir(), "result.json")

	stdout, err := runLocus(t, "detect", dir, "--format", "json", "-o", outFile)
	require.NoError(t, err)
	assert.Empty(t, stdout, "result should go to the file, not stdout")

	data, err := os.ReadFile(outFile) //nolint:gosec // test fixture
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "output file is not valid JSON")
}

func TestDetect_ScannerSubset(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	out, err := runLocus(t, "detect", dir, "--scanners", "stub_marker", "--format", "json")
	require.NoError(t, err)

	var envelope struct {
		Primary struct {
			Path string `json:"path"`
		} `json:"primary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))

	// Only the stub scanner ran, so the stub directory must win outright.
	assert.Equal(t, filepath.Join(dir, "src", "widget"), envelope.Primary.Path)
}

func TestDetect_EmptyTree(t *testing.T) {
	isolateGlobalConfig(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	out, err := runLocus(t, "detect", dir, "--format", "json")
	require.NoError(t, err, "empty tree must still produce a result")

	var envelope struct {
		ConfidenceTier string `json:"confidence_tier"`
		Primary        struct {
			Path string `json:"path"`
		} `json:"primary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, "NONE", envelope.ConfidenceTier)
	assert.Equal(t, dir, envelope.Primary.Path, "with no signals the root itself is the answer")
}

func TestDetect_Errors(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{
			name:     "nonexistent path",
			args:     []string{"detect", "/no/such/path"},
			wantCode: ExitInvalidArgs,
		},
		{
			name:     "path is a file",
			args:     []string{"detect", filepath.Join(dir, "go.mod")},
			wantCode: ExitInvalidArgs,
		},
		{
			name:     "unknown format",
			args:     []string{"detect", dir, "--format", "xml"},
			wantCode: ExitInvalidArgs,
		},
		{
			name:     "unknown scanner",
			args:     []string{"detect", dir, "--scanners", "bogus"},
			wantCode: ExitInvalidArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runLocus(t, tt.args...)
			require.Error(t, err)

			var ece *exitCodeError
			require.ErrorAs(t, err, &ece)
			assert.Equal(t, tt.wantCode, ece.ExitCode())
		})
	}
}

func TestDetect_ConfigFormatDefault(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)
	writeTestFile(t, dir, ".locus.yaml", "format: json\n")

	out, err := runLocus(t, "detect", dir)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "config format: json should switch output, got:\n%s", out)
}

func TestDetect_DisabledScannerFromConfig(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)
	writeTestFile(t, dir, ".locus.yaml", "scanners:\n  stub_marker:\n    enabled: false\n")

	out, err := runLocus(t, "detect", dir, "--format", "json")
	require.NoError(t, err)

	var envelope struct {
		Primary struct {
			Rationale string `json:"rationale"`
		} `json:"primary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.NotContains(t, envelope.Primary.Rationale, "STUB_MARKER")
}

func TestDetectFlagRegistration(t *testing.T) {
	wantFlags := []string{
		"requirement", "budget", "format", "output",
		"max-fallbacks", "exclude", "scanners", "fail-degraded",
	}
	for _, name := range wantFlags {
		assert.NotNil(t, detectCmd.Flags().Lookup(name), "flag --%s not registered", name)
	}

	// Flags default to zero values so config-file settings show through.
	detectCmd.Flags().VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "format", "requirement", "output", "scanners":
			assert.Equal(t, "", f.DefValue, "--%s default", f.Name)
		case "fail-degraded":
			assert.Equal(t, "false", f.DefValue, "--%s default", f.Name)
		}
	})
}
