// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/locus/internal/config"
	"github.com/davetashner/locus/internal/scanner"
)

func TestScannersList(t *testing.T) {
	out, err := runLocus(t, "scanners", "list", "--no-color")
	require.NoError(t, err)

	for _, key := range config.ScannerKeys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "SCANNER")
	assert.Contains(t, out, "WEIGHT")
	assert.Contains(t, out, "enabled")
}

func TestScannersList_ReliabilityOrder(t *testing.T) {
	out, err := runLocus(t, "scanners", "list", "--no-color")
	require.NoError(t, err)

	// Rows follow the registry's reliability order: strongest family first.
	stub := strings.Index(out, "stub_marker")
	tests := strings.Index(out, "test_layout")
	declared := strings.Index(out, "declared_config")
	naming := strings.Index(out, "naming_convention")
	assert.True(t, stub < tests && tests < declared && declared < naming,
		"scanners out of reliability order:\n%s", out)
}

func TestScannersInfo(t *testing.T) {
	for _, key := range config.ScannerKeys() {
		t.Run(key, func(t *testing.T) {
			out, err := runLocus(t, "scanners", "info", key, "--no-color")
			require.NoError(t, err)

			assert.Contains(t, out, key)
			assert.Contains(t, out, "Priority weight:")
			assert.Contains(t, out, "Evidence:")
			assert.Contains(t, out, "exclude_patterns:")
		})
	}
}

func TestScannersInfo_AcceptsFamilyNameSpelling(t *testing.T) {
	out, err := runLocus(t, "scanners", "info", "TEST_LAYOUT", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "test_layout")
}

func TestScannersInfo_UnknownScanner(t *testing.T) {
	_, err := runLocus(t, "scanners", "info", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scanner")
}

func TestKnownScannersCoverRegistry(t *testing.T) {
	// Every registered family needs presentation metadata, and no metadata
	// entry may point at a family that no longer exists.
	for _, family := range scanner.Families() {
		key := config.KeyForFamily(family)
		assert.Contains(t, knownScanners, key, "missing metadata for %s", key)
	}
	assert.Len(t, knownScanners, len(scanner.Families()))
}
