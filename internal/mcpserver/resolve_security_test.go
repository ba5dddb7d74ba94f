// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath_SecurityTraversalAttempts(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"parent traversal", "../../../etc"},
		{"absolute etc passwd", "/etc/passwd"},
		{"absolute etc shadow", "/etc/shadow"},
		{"dot dot slash", "../../.."},
		{"encoded traversal literal", "..%2f..%2f.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolvePath(tt.path)
			if err == nil {
				// If it resolved, it must NOT point to a sensitive system path.
				assert.NotEqual(t, "/etc/passwd", result.AbsPath)
				assert.NotEqual(t, "/etc/shadow", result.AbsPath)
				// And it must be a directory (ResolvePath validates this).
				info, statErr := os.Stat(result.AbsPath)
				if statErr == nil {
					assert.True(t, info.IsDir(), "resolved path must be a directory")
				}
			}
			// Either returns error or resolves to a safe directory — both acceptable.
		})
	}
}

func TestResolvePath_SecurityNullBytesInPath(t *testing.T) {
	_, err := ResolvePath("some\x00path")
	require.Error(t, err, "paths with null bytes must be rejected")
}
