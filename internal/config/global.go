// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfigDir returns the directory holding the user-wide locus
// configuration, the layer below every project's .locus.yaml. It uses
// $XDG_CONFIG_HOME/locus if set, otherwise ~/.config/locus.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "locus")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "locus")
}

// GlobalConfigPath returns the path to the user-wide config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the user-wide config. A missing file is the common case
// and returns a zero-value Config, not an error: most users configure locus
// per project, if at all.
func LoadGlobal() (*Config, error) {
	path := GlobalConfigPath()
	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
