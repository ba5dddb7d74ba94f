// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

// Package scanner defines the Scanner interface and a registry for
// managing available signal scanners.
//
// The scanner set is a closed tagged-variant design: each scanner produces
// exactly one signal family, and registration is explicit rather than
// reflective so the family set and the priority table stay in lock-step.
package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/davetashner/locus/internal/signal"
)

// Scanner detects evidence of one signal family under a project root.
type Scanner interface {
	// Family returns the signal family this scanner produces. Exactly one
	// scanner is registered per family.
	Family() signal.Family

	// Scan inspects the tree rooted at root and returns discovered signals.
	// Scan must be read-only, hold no shared mutable state, and absorb
	// expected filesystem failures (missing dirs, permission errors) by
	// returning fewer signals rather than an error.
	Scan(ctx context.Context, root string, opts signal.ScanOpts) ([]signal.Signal, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[signal.Family]Scanner)
)

// Register adds a scanner to the global registry.
// It panics if a scanner for the same family is already registered or if the
// family is outside the closed set.
func Register(s Scanner) {
	mu.Lock()
	defer mu.Unlock()
	family := s.Family()
	if !signal.KnownFamily(family) {
		panic(fmt.Sprintf("scanner family not in closed set: %s", family))
	}
	if _, exists := registry[family]; exists {
		panic(fmt.Sprintf("scanner already registered for family: %s", family))
	}
	registry[family] = s
}

// Get returns the scanner for the given family, or nil if not registered.
func Get(family signal.Family) Scanner {
	mu.RLock()
	defer mu.RUnlock()
	return registry[family]
}

// List returns all registered scanners in descending family reliability
// order, so callers iterate deterministically.
func List() []Scanner {
	mu.RLock()
	defer mu.RUnlock()
	scanners := make([]Scanner, 0, len(registry))
	for _, family := range signal.Families() {
		if s, ok := registry[family]; ok {
			scanners = append(scanners, s)
		}
	}
	return scanners
}

// Families returns the families with a registered scanner, in reliability order.
func Families() []signal.Family {
	mu.RLock()
	defer mu.RUnlock()
	families := make([]signal.Family, 0, len(registry))
	for _, family := range signal.Families() {
		if _, ok := registry[family]; ok {
			families = append(families, family)
		}
	}
	return families
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[signal.Family]Scanner)
}
