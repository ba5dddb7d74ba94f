package config

import (
	"time"

	"github.com/davetashner/locus/internal/detect"
	"github.com/davetashner/locus/internal/signal"
)

// Merge combines file-based config with CLI-provided detection options.
// CLI values take precedence; zero-value CLI fields fall through to file
// config.
func Merge(fileCfg *Config, opts detect.Options) detect.Options {
	result := opts

	// Budget: CLI wins if set.
	if result.Budget == 0 && fileCfg.DefaultBudgetMS > 0 {
		result.Budget = time.Duration(fileCfg.DefaultBudgetMS) * time.Millisecond
	}

	// MaxFallbacks: CLI wins if non-zero.
	if result.MaxFallbacks == 0 && fileCfg.MaxFallbacks > 0 {
		result.MaxFallbacks = fileCfg.MaxFallbacks
	}

	// Shared exclude patterns accumulate, CLI patterns first.
	if len(fileCfg.ExcludePatterns) > 0 {
		merged := make([]string, 0, len(result.ExcludePatterns)+len(fileCfg.ExcludePatterns))
		merged = append(merged, result.ExcludePatterns...)
		merged = append(merged, fileCfg.ExcludePatterns...)
		result.ExcludePatterns = merged
	}

	// An explicit CLI family selection overrides per-scanner enabled flags.
	// Otherwise, disabled scanners narrow the family set.
	if len(result.Families) == 0 {
		if families, narrowed := enabledFamilies(fileCfg); narrowed {
			result.Families = families
		}
	}

	// Per-scanner exclude patterns fold into the per-family map.
	for key, sc := range fileCfg.Scanners {
		family, ok := FamilyForKey(key)
		if !ok || len(sc.ExcludePatterns) == 0 {
			continue
		}
		if result.ScannerExcludes == nil {
			result.ScannerExcludes = make(map[signal.Family][]string)
		}
		result.ScannerExcludes[family] = append(result.ScannerExcludes[family], sc.ExcludePatterns...)
	}

	return result
}

// enabledFamilies returns the families left enabled by the config, and
// whether the config narrowed the set at all.
func enabledFamilies(fileCfg *Config) ([]signal.Family, bool) {
	var families []signal.Family
	narrowed := false
	for _, family := range signal.Families() {
		sc, ok := fileCfg.Scanners[KeyForFamily(family)]
		if ok && sc.Enabled != nil && !*sc.Enabled {
			narrowed = true
			continue
		}
		families = append(families, family)
	}
	return families, narrowed
}
