// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsLocationInsideDetectedStructure(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	out, err := runLocus(t, "validate", filepath.Join(dir, "src", "widget"), "--root", dir, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "valid:")
}

func TestValidate_AcceptsPathThatDoesNotExistYet(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	// The proposal itself need not exist; only its project does.
	proposed := filepath.Join(dir, "src", "widget", "parser.go")
	out, err := runLocus(t, "validate", proposed, "--root", dir, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "valid:")
}

func TestValidate_RejectsTestDirectoryForImplementation(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	out, err := runLocus(t, "validate", filepath.Join(dir, "tests", "widget"), "--root", dir, "--no-color")
	require.Error(t, err)
	assert.Contains(t, out, "invalid:")

	var ece *exitCodeError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, ExitDegradedOrFailed, ece.ExitCode())
}

func TestValidate_WalksUpToProjectRootWithoutExplicitRoot(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	// go.mod marks the project root; the validator finds it from the proposal.
	out, err := runLocus(t, "validate", filepath.Join(dir, "src", "widget"), "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "valid:")
}

func TestValidate_JSONOutput(t *testing.T) {
	isolateGlobalConfig(t)
	dir := initTestProject(t)

	proposed := filepath.Join(dir, "src", "widget")
	out, err := runLocus(t, "validate", proposed, "--root", dir, "--json")
	require.NoError(t, err)

	var result struct {
		Path      string `json:"path"`
		Valid     bool   `json:"valid"`
		Rationale string `json:"rationale"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output is not valid JSON:\n%s", out)
	assert.Equal(t, proposed, result.Path)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Rationale)
}

func TestValidate_InvalidRoot(t *testing.T) {
	isolateGlobalConfig(t)

	_, err := runLocus(t, "validate", "somewhere/new.go", "--root", "/no/such/root")
	require.Error(t, err)

	var ece *exitCodeError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, ExitInvalidArgs, ece.ExitCode())
}

func TestValidate_RequiresExactlyOnePath(t *testing.T) {
	_, err := runLocus(t, "validate")
	require.Error(t, err)

	_, err = runLocus(t, "validate", "a", "b")
	require.Error(t, err)
}
