// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes locus's detection and validation operations as tools over
// stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathInfo is a tool-call path argument resolved into the directory a
// detection will scan.
type PathInfo struct {
	// AbsPath is the absolute, symlink-resolved scan target.
	AbsPath string
	// GitRoot is the enclosing repository root, used to locate a project
	// .locus.yaml when the scan targets a subdirectory. Equals AbsPath
	// outside a repository.
	GitRoot string
}

// ResolvePath resolves a tool-call path into the directory to scan plus its
// enclosing git root. It returns an error if the path does not exist or is
// not a directory; detection needs a real tree to walk.
func ResolvePath(path string) (*PathInfo, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", path)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", path)
	}

	// Walk up to the enclosing repository root.
	gitRoot := absPath
	for {
		if _, err := os.Stat(filepath.Join(gitRoot, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(gitRoot)
		if parent == gitRoot {
			gitRoot = absPath
			break
		}
		gitRoot = parent
	}

	return &PathInfo{
		AbsPath: absPath,
		GitRoot: gitRoot,
	}, nil
}
