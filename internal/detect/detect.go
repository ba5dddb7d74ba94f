// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

// Package detect orchestrates the signal scanners and turns their combined
// evidence into a single structure detection. Scanners run concurrently
// under a time budget; a scanner that misses the budget is abandoned, not
// canceled, and its family is reported as degraded.
package detect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/locus/internal/classify"
	"github.com/davetashner/locus/internal/priority"
	"github.com/davetashner/locus/internal/scanner"
	"github.com/davetashner/locus/internal/signal"
	"github.com/davetashner/locus/internal/testable"
)

// FS is the file system implementation used for root resolution.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// DefaultBudget is the scan time budget used when Options.Budget is zero.
const DefaultBudget = 100 * time.Millisecond

// scannerGrace bounds how long an abandoned scanner may keep running past
// the budget after its results stopped mattering.
const scannerGrace = 2 * time.Second

// Options configures a detection run.
type Options struct {
	// Requirement is free-form text describing what the caller wants to
	// place. It only biases which directory names the naming scanner checks.
	Requirement string

	// Budget caps how long Detect waits for scanners. Zero means
	// DefaultBudget.
	Budget time.Duration

	// MaxFallbacks caps the fallback chain length. Zero means the
	// classifier default.
	MaxFallbacks int

	// ExcludePatterns are extra directory globs scanners skip, on top of
	// the built-in vendored-tree defaults.
	ExcludePatterns []string

	// ScannerExcludes adds exclude patterns for a single family on top of
	// the shared ExcludePatterns.
	ScannerExcludes map[signal.Family][]string

	// Families restricts the run to specific scanner families. Empty means
	// every registered scanner.
	Families []signal.Family
}

// Detector runs a fixed set of scanners against project roots.
type Detector struct {
	opts     Options
	scanners []scanner.Scanner
	table    priority.Table
}

// New creates a Detector, resolving scanners from the global registry.
// If opts.Families is empty, all registered scanners are used in family
// reliability order. Returns an error if a requested family has no
// registered scanner.
func New(opts Options) (*Detector, error) {
	scanners, err := resolveScanners(opts.Families)
	if err != nil {
		return nil, err
	}
	return NewWithScanners(opts, scanners), nil
}

// NewWithScanners creates a Detector with explicitly provided scanners,
// bypassing the global registry. This is primarily useful for testing.
func NewWithScanners(opts Options, scanners []scanner.Scanner) *Detector {
	return &Detector{
		opts:     opts,
		scanners: scanners,
		table:    priority.DefaultTable(),
	}
}

// Detect scans the tree rooted at root and classifies the combined evidence.
// The only error it returns is *InvalidRootError; scanner failures and
// missed budgets degrade the result instead of failing it.
func (d *Detector) Detect(ctx context.Context, root string) (*signal.Detection, error) {
	start := time.Now()

	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	budget := d.opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	received := d.collect(ctx, resolved, budget)

	var degraded []signal.Family
	var considered []signal.Signal
	for _, sc := range d.scanners {
		family := sc.Family()
		res, ok := received[family]
		switch {
		case !ok:
			slog.Debug("scanner missed the budget", "family", family, "budget", budget)
			degraded = append(degraded, family)
		case res.Err != nil:
			slog.Debug("scanner failed", "family", family, "error", res.Err)
			degraded = append(degraded, family)
		default:
			for _, s := range res.Signals {
				if errs := signal.Validate(s, resolved); len(errs) > 0 {
					slog.Debug("dropping invalid signal",
						"family", family, "location", s.Location, "errors", errs)
					continue
				}
				considered = append(considered, s)
			}
		}
	}

	scores := priority.Aggregate(priority.Rank(d.table, considered))
	det := classify.Classify(resolved, scores, classify.Options{MaxFallbacks: d.opts.MaxFallbacks})
	det.ScanDuration = time.Since(start)
	det.DegradedFamilies = degraded
	det.SignalsConsidered = len(considered)
	return &det, nil
}

// collect runs every scanner concurrently and gathers results until all
// scanners report or the budget expires, whichever comes first. Scanners
// still running at budget expiry keep going under a grace deadline beyond
// the budget; their late results land in a buffered channel nobody reads.
func (d *Detector) collect(ctx context.Context, root string, budget time.Duration) map[signal.Family]signal.ScannerResult {
	received := make(map[signal.Family]signal.ScannerResult, len(d.scanners))
	if len(d.scanners) == 0 {
		return received
	}

	scanCtx, cancel := context.WithTimeout(ctx, budget+scannerGrace)

	// The buffer holds one slot per scanner so abandoned scanners can still
	// deliver without blocking and be collected with the channel.
	results := make(chan signal.ScannerResult, len(d.scanners))

	var g errgroup.Group
	g.SetLimit(len(d.scanners))
	for _, sc := range d.scanners {
		opts := d.scanOpts(sc.Family())
		g.Go(func() error {
			results <- runScanner(scanCtx, sc, root, opts)
			return nil
		})
	}
	go func() {
		g.Wait() //nolint:errcheck // scan goroutines never return errors
		cancel()
		close(results)
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	for len(received) < len(d.scanners) {
		select {
		case res, ok := <-results:
			if !ok {
				return received
			}
			received[res.Family] = res
		case <-timer.C:
			return received
		case <-ctx.Done():
			return received
		}
	}
	return received
}

// scanOpts builds the per-scanner options, folding family-specific exclude
// patterns into the shared set.
func (d *Detector) scanOpts(family signal.Family) signal.ScanOpts {
	opts := signal.ScanOpts{
		Requirement:     d.opts.Requirement,
		ExcludePatterns: d.opts.ExcludePatterns,
	}
	if extra := d.opts.ScannerExcludes[family]; len(extra) > 0 {
		merged := make([]string, 0, len(opts.ExcludePatterns)+len(extra))
		merged = append(merged, opts.ExcludePatterns...)
		merged = append(merged, extra...)
		opts.ExcludePatterns = merged
	}
	return opts
}

// runScanner executes a single scanner and captures its result and timing.
func runScanner(ctx context.Context, sc scanner.Scanner, root string, opts signal.ScanOpts) signal.ScannerResult {
	start := time.Now()

	signals, err := sc.Scan(ctx, root, opts)

	return signal.ScannerResult{
		Family:   sc.Family(),
		Signals:  signals,
		Duration: time.Since(start),
		Err:      err,
	}
}

// resolveScanners looks up scanners by family from the global registry.
// If families is empty, all registered scanners are returned in reliability
// order.
func resolveScanners(families []signal.Family) ([]scanner.Scanner, error) {
	if len(families) == 0 {
		return scanner.List(), nil
	}

	scanners := make([]scanner.Scanner, len(families))
	for i, family := range families {
		sc := scanner.Get(family)
		if sc == nil {
			return nil, fmt.Errorf("unknown scanner family: %q", family)
		}
		scanners[i] = sc
	}
	return scanners, nil
}
