// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/locus/internal/config"
	"github.com/davetashner/locus/internal/detect"
	"github.com/davetashner/locus/internal/signal"
	"github.com/davetashner/locus/internal/validate"
)

// Validate-specific flag values.
var (
	validateRoot        string
	validateBudget      time.Duration
	validateRequirement string
	validateJSON        bool
)

// validateCmd is the subcommand for checking a proposed target location.
var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a proposed target location against detected structure",
	Long: `Check whether a proposed path is a sensible place to put new code, given
the structure evidence in its project. The path does not need to exist yet.

With --root, a detection runs against that project root first and the
proposal is checked against its result. Without it, the validator walks up
from the proposal to the nearest project root and scans from there.

Exits 0 when the location is consistent, 2 when it is not.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateRoot, "root", "", "project root to detect against (default: walk up from the proposal)")
	validateCmd.Flags().DurationVar(&validateBudget, "budget", 0, "scan time budget (e.g. 100ms, 1s); 0 = default")
	validateCmd.Flags().StringVarP(&validateRequirement, "requirement", "r", "", "free-text hint forwarded to the scan")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "machine-readable output")
}

func runValidate(cmd *cobra.Command, args []string) error {
	proposed := args[0]

	var prior *signal.Detection
	if validateRoot != "" {
		absRoot, gitRoot, err := resolveScanPath(validateRoot)
		if err != nil {
			return err
		}

		fileCfg, err := loadMergedConfig(absRoot, gitRoot)
		if err != nil {
			return exitError(ExitInvalidArgs, "locus: %v", err)
		}

		opts := config.Merge(fileCfg, detect.Options{
			Requirement: validateRequirement,
			Budget:      validateBudget,
		})

		d, err := detect.New(opts)
		if err != nil {
			return exitError(ExitInvalidArgs, "locus: %v", err)
		}
		prior, err = d.Detect(cmd.Context(), absRoot)
		if err != nil {
			var invalidRoot *detect.InvalidRootError
			if errors.As(err, &invalidRoot) {
				return exitError(ExitInvalidArgs, "locus: %v", err)
			}
			return exitError(ExitInternal, "locus: detection failed (%v)", err)
		}
	}

	valid, rationale := validate.TargetLocation(cmd.Context(), proposed, prior, validate.Options{
		Budget:      validateBudget,
		Requirement: validateRequirement,
	})

	w := cmd.OutOrStdout()
	if validateJSON {
		data, err := json.MarshalIndent(map[string]any{
			"path":      proposed,
			"valid":     valid,
			"rationale": rationale,
		}, "", "  ")
		if err != nil {
			return exitError(ExitInternal, "locus: marshal result (%v)", err)
		}
		_, _ = fmt.Fprintln(w, string(data))
	} else if valid {
		_, _ = fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen).Sprint("valid:"), rationale)
	} else {
		_, _ = fmt.Fprintf(w, "%s %s\n", color.New(color.FgRed).Sprint("invalid:"), rationale)
	}

	if !valid {
		return exitError(ExitDegradedOrFailed, "")
	}
	return nil
}
