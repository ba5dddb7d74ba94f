// Package config handles .locus.yaml configuration files.
package config

import (
	"strings"

	"github.com/davetashner/locus/internal/signal"
)

// Config represents the contents of a .locus.yaml file.
type Config struct {
	DefaultBudgetMS int                      `yaml:"default_budget_ms,omitempty"`
	MaxFallbacks    int                      `yaml:"max_fallbacks,omitempty"`
	Format          string                   `yaml:"format,omitempty"`
	ExcludePatterns []string                 `yaml:"exclude_patterns,omitempty"`
	Scanners        map[string]ScannerConfig `yaml:"scanners,omitempty"`
}

// ScannerConfig holds per-scanner settings in the config file. Entries under
// scanners: are keyed by lowercase family name (stub_marker, test_layout,
// declared_config, naming_convention).
type ScannerConfig struct {
	Enabled         *bool    `yaml:"enabled,omitempty"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
}

// FileName is the expected config file name in a project root.
const FileName = ".locus.yaml"

// FamilyForKey maps a scanners: config key to its signal family.
func FamilyForKey(key string) (signal.Family, bool) {
	family := signal.Family(strings.ToUpper(key))
	return family, signal.KnownFamily(family)
}

// KeyForFamily maps a signal family to its scanners: config key.
func KeyForFamily(family signal.Family) string {
	return strings.ToLower(string(family))
}

// ScannerKeys returns the valid scanners: config keys in family reliability
// order.
func ScannerKeys() []string {
	families := signal.Families()
	keys := make([]string, len(families))
	for i, family := range families {
		keys[i] = KeyForFamily(family)
	}
	return keys
}
