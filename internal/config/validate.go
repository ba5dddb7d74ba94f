package config

import (
	"fmt"
	"strings"

	"github.com/davetashner/locus/internal/output"
	"github.com/davetashner/locus/internal/signal"
)

// maxBudgetMS caps default_budget_ms at one minute. A budget that long means
// the caller wants an unbounded scan and should say so on the command line.
const maxBudgetMS = 60_000

// maxFallbacksLimit caps max_fallbacks. Chains longer than this stop being
// candidate lists and start being directory listings.
const maxFallbacksLimit = 50

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Format != "" {
		if _, err := output.GetFormatter(cfg.Format); err != nil {
			errs = append(errs, fmt.Sprintf("format: %v", err))
		}
	}

	if cfg.DefaultBudgetMS < 0 {
		errs = append(errs, fmt.Sprintf("default_budget_ms: must be non-negative, got %d", cfg.DefaultBudgetMS))
	}
	if cfg.DefaultBudgetMS > maxBudgetMS {
		errs = append(errs, fmt.Sprintf("default_budget_ms: must be at most %d, got %d", maxBudgetMS, cfg.DefaultBudgetMS))
	}

	if cfg.MaxFallbacks < 0 {
		errs = append(errs, fmt.Sprintf("max_fallbacks: must be non-negative, got %d", cfg.MaxFallbacks))
	}
	if cfg.MaxFallbacks > maxFallbacksLimit {
		errs = append(errs, fmt.Sprintf("max_fallbacks: must be at most %d, got %d", maxFallbacksLimit, cfg.MaxFallbacks))
	}

	disabled := 0
	for key, sc := range cfg.Scanners {
		if _, ok := FamilyForKey(key); !ok {
			errs = append(errs, fmt.Sprintf("scanners.%s: unknown scanner family (valid: %s)",
				key, strings.Join(ScannerKeys(), ", ")))
			continue
		}
		if sc.Enabled != nil && !*sc.Enabled {
			disabled++
		}
	}
	if disabled >= len(signal.Families()) {
		errs = append(errs, "scanners: every scanner is disabled; at least one must remain enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
