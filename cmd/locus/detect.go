// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/locus/internal/config"
	"github.com/davetashner/locus/internal/detect"
	"github.com/davetashner/locus/internal/output"
	_ "github.com/davetashner/locus/internal/scanners"
	"github.com/davetashner/locus/internal/signal"
)

// Detect-specific flag values.
var (
	detectRequirement  string
	detectBudget       time.Duration
	detectFormat       string
	detectOutput       string
	detectMaxFallbacks int
	detectExclude      []string
	detectScanners     string
	detectFailDegraded bool
)

// detectCmd is the subcommand for detecting a project's structure.
var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Detect where a new artifact belongs",
	Long: `Scan a project tree and report the most probable location for a new
artifact, with a confidence tier and an ordered fallback chain.

Scanners run concurrently under the time budget; any scanner that misses the
budget is abandoned and its family reported as degraded. The command always
produces a result — an empty tree classifies as NONE at the project root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVarP(&detectRequirement, "requirement", "r", "", "free-text hint describing the artifact; biases naming checks only")
	detectCmd.Flags().DurationVar(&detectBudget, "budget", 0, "scan time budget (e.g. 100ms, 1s); 0 = default")
	detectCmd.Flags().StringVarP(&detectFormat, "format", "f", "", "output format (text, json, markdown)")
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", "", "output file path (default: stdout)")
	detectCmd.Flags().IntVar(&detectMaxFallbacks, "max-fallbacks", 0, "cap fallback chain length (0 = default)")
	detectCmd.Flags().StringSliceVarP(&detectExclude, "exclude", "e", nil, "glob patterns to exclude from scanning (e.g. \"docs/**,examples/**\")")
	detectCmd.Flags().StringVar(&detectScanners, "scanners", "", "comma-separated scanner families to run (default: all)")
	detectCmd.Flags().BoolVar(&detectFailDegraded, "fail-degraded", false, "exit non-zero when any scanner family is degraded")
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, gitRoot, err := resolveScanPath(path)
	if err != nil {
		return err
	}

	families, err := parseFamilies(detectScanners)
	if err != nil {
		return exitError(ExitInvalidArgs, "locus: %v", err)
	}

	fileCfg, err := loadMergedConfig(absPath, gitRoot)
	if err != nil {
		return exitError(ExitInvalidArgs, "locus: %v", err)
	}

	opts := detect.Options{
		Requirement:     detectRequirement,
		Budget:          detectBudget,
		MaxFallbacks:    detectMaxFallbacks,
		ExcludePatterns: detectExclude,
		Families:        families,
	}
	opts = config.Merge(fileCfg, opts)

	format := detectFormat
	if format == "" {
		format = fileCfg.Format
	}
	if format == "" {
		format = "text"
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return exitError(ExitInvalidArgs, "locus: %v", err)
	}

	d, err := detect.New(opts)
	if err != nil {
		return exitError(ExitInvalidArgs, "locus: %v", err)
	}

	det, err := d.Detect(cmd.Context(), absPath)
	if err != nil {
		var invalidRoot *detect.InvalidRootError
		if errors.As(err, &invalidRoot) {
			return exitError(ExitInvalidArgs, "locus: %v", err)
		}
		return exitError(ExitInternal, "locus: detection failed (%v)", err)
	}

	w := cmd.OutOrStdout()
	if detectOutput != "" {
		f, createErr := os.Create(detectOutput) //nolint:gosec // user-provided output path is expected
		if createErr != nil {
			return exitError(ExitInvalidArgs, "locus: cannot create output file %q (%v)", detectOutput, createErr)
		}
		defer f.Close() //nolint:errcheck // best-effort close on output file
		w = f
	}

	if err := formatter.Format(det, w); err != nil {
		return exitError(ExitInternal, "locus: formatting failed (%v)", err)
	}

	if detectFailDegraded && det.Degraded() {
		return exitError(ExitDegradedOrFailed,
			"locus: degraded scanner families: %s", joinFamilies(det.DegradedFamilies))
	}
	return nil
}

// parseFamilies converts a comma-separated scanner list into signal families.
// Both config keys (test_layout) and family names (TEST_LAYOUT) are accepted.
func parseFamilies(s string) ([]signal.Family, error) {
	if s == "" {
		return nil, nil
	}

	var families []signal.Family
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		family, ok := config.FamilyForKey(part)
		if !ok {
			return nil, fmt.Errorf("unknown scanner %q (valid: %s)",
				part, strings.Join(config.ScannerKeys(), ", "))
		}
		families = append(families, family)
	}
	return families, nil
}

// joinFamilies renders a family list for error messages.
func joinFamilies(families []signal.Family) string {
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// loadMergedConfig loads the effective config for a scan: global defaults,
// overridden by the project's .locus.yaml. The project file is looked up at
// the scanned path first, then at the enclosing git root.
func loadMergedConfig(absPath, gitRoot string) (*config.Config, error) {
	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	cfgRoot := absPath
	if _, statErr := cmdFS.Stat(filepath.Join(absPath, config.FileName)); statErr != nil && gitRoot != absPath {
		if _, rootErr := cmdFS.Stat(filepath.Join(gitRoot, config.FileName)); rootErr == nil {
			cfgRoot = gitRoot
		}
	}

	repoCfg, err := config.Load(cfgRoot)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := mergeConfigs(globalCfg, repoCfg)
	if err := config.Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// resolveScanPath resolves the given path argument into an absolute path and
// finds the nearest git root by walking up the directory tree. For non-git
// directories, gitRoot equals absPath.
func resolveScanPath(path string) (absPath, gitRoot string, err error) {
	absPath, err = cmdFS.Abs(path)
	if err != nil {
		return "", "", exitError(ExitInvalidArgs, "locus: cannot resolve path %q (%v)", path, err)
	}

	absPath, err = cmdFS.EvalSymlinks(absPath)
	if err != nil {
		return "", "", exitError(ExitInvalidArgs, "locus: cannot resolve path %q (%v)", path, err)
	}

	info, err := cmdFS.Stat(absPath)
	if err != nil {
		return "", "", exitError(ExitInvalidArgs, "locus: path %q does not exist (check the path and try again)", path)
	}
	if !info.IsDir() {
		return "", "", exitError(ExitInvalidArgs, "locus: %q is not a directory", path)
	}

	gitRoot = absPath
	for {
		if _, err := cmdFS.Stat(filepath.Join(gitRoot, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(gitRoot)
		if parent == gitRoot {
			gitRoot = absPath
			break
		}
		gitRoot = parent
	}

	return absPath, gitRoot, nil
}
