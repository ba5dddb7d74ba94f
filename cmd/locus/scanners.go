// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/locus/internal/config"
	"github.com/davetashner/locus/internal/priority"
	"github.com/davetashner/locus/internal/scanner"
	_ "github.com/davetashner/locus/internal/scanners"
)

// scannerMeta holds presentation metadata for each scanner family.
type scannerMeta struct {
	Description string
	Evidence    []string
}

// knownScanners maps config keys to their metadata. The common config fields
// (enabled, exclude_patterns) apply to every scanner and are not listed per
// scanner.
var knownScanners = map[string]scannerMeta{
	"stub_marker": {
		Description: "Finds placeholder files and directories flagging an intended location",
		Evidence: []string{
			"__stub__ / .stub / *.stub files and PLACEHOLDER markers",
			"packages containing only __init__.py",
			"leading file content asking to 'implement here'",
		},
	},
	"test_layout": {
		Description: "Infers implementation locations from conventional test directories and file names",
		Evidence: []string{
			"tests/, test/, spec/, __tests__/ directories and their source siblings",
			"test_*.py, *_test.go, *.test.ts, *Test.java style files",
			"src/test mirroring src/main",
		},
	},
	"declared_config": {
		Description: "Reads build manifests that declare a source root or module path",
		Evidence: []string{
			"go.mod / go.work module declarations",
			"package.json workspaces and entry points",
			"Cargo.toml workspace members, pyproject.toml src layouts",
		},
	},
	"naming_convention": {
		Description: "Matches directory names against common source-layout idioms (lowest trust)",
		Evidence: []string{
			"src/, lib/, pkg/, app/, cmd/, internal/ directories",
			"package directory matching the repository name",
			"directory names matching tokens of the requirement text",
		},
	},
}

// scannersCmd is the parent command for scanner introspection.
var scannersCmd = &cobra.Command{
	Use:   "scanners",
	Short: "List and inspect available scanners",
	Long: `Commands for listing and inspecting the signal scanners registered in
locus.

Each scanner detects one family of evidence about where a new artifact
belongs (stub markers, test layout, declared config, naming conventions).
Families are weighted by reliability when their signals are reconciled.`,
}

// scannersListCmd shows all registered scanners.
var scannersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered scanners",
	Long: `List all registered scanners in reliability order with their priority
weight, enabled status, and description.

The enabled/disabled status reflects the current .locus.yaml config in the
working directory. Scanners are enabled by default unless explicitly
disabled in config.`,
	Args: cobra.NoArgs,
	RunE: runScannersList,
}

// scannersInfoCmd shows detailed info about a specific scanner.
var scannersInfoCmd = &cobra.Command{
	Use:   "info <family>",
	Short: "Show detailed info about a scanner",
	Long: `Show detailed information about a specific scanner: its description, the
evidence it looks for, its priority weight, and its configuration from
.locus.yaml. Accepts config keys (test_layout) or family names (TEST_LAYOUT).`,
	Args: cobra.ExactArgs(1),
	RunE: runScannersInfo,
}

func init() {
	scannersCmd.AddCommand(scannersListCmd)
	scannersCmd.AddCommand(scannersInfoCmd)

	// Registry and priority table must stay in lock-step: every registered
	// scanner needs a weight. Scanner packages register during their own
	// init, which runs before this one.
	if err := priority.DefaultTable().Validate(scanner.Families()); err != nil {
		panic(err)
	}
}

func runScannersList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	cfg, _ := config.Load(".") // best-effort; zero config if missing
	table := priority.DefaultTable()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	_, _ = fmt.Fprintln(tw, bold.Sprint("SCANNER")+"\t"+bold.Sprint("WEIGHT")+"\t"+bold.Sprint("STATUS")+"\t"+bold.Sprint("DESCRIPTION"))

	for _, s := range scanner.List() {
		family := s.Family()
		key := config.KeyForFamily(family)

		status := green.Sprint("enabled")
		if sc, ok := cfg.Scanners[key]; ok && sc.Enabled != nil && !*sc.Enabled {
			status = red.Sprint("disabled")
		}

		desc := string(family)
		if meta, ok := knownScanners[key]; ok {
			desc = meta.Description
		}

		_, _ = fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", key, table.Weight(family), status, desc)
	}

	return tw.Flush()
}

func runScannersInfo(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	family, ok := config.FamilyForKey(args[0])
	if !ok {
		return fmt.Errorf("unknown scanner %q; registered scanners: %s",
			args[0], strings.Join(config.ScannerKeys(), ", "))
	}
	if scanner.Get(family) == nil {
		return fmt.Errorf("scanner %q is not registered", args[0])
	}

	key := config.KeyForFamily(family)
	meta := knownScanners[key]
	bold := color.New(color.Bold)

	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Scanner:"), key)
	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Family:"), family)
	if meta.Description != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Description:"), meta.Description)
	}
	_, _ = fmt.Fprintf(w, "%s %.2f\n", bold.Sprint("Priority weight:"), priority.DefaultTable().Weight(family))

	cfg, _ := config.Load(".")
	status := "enabled"
	if sc, ok := cfg.Scanners[key]; ok && sc.Enabled != nil && !*sc.Enabled {
		status = "disabled"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Status:"), status)

	if len(meta.Evidence) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", bold.Sprint("Evidence:"))
		for _, e := range meta.Evidence {
			_, _ = fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", bold.Sprint("Configuration options:"))
	var sc config.ScannerConfig
	if cfgSC, ok := cfg.Scanners[key]; ok {
		sc = cfgSC
	}
	enabledVal := "(default)"
	if sc.Enabled != nil {
		enabledVal = fmt.Sprintf("%v", *sc.Enabled)
	}
	excludeVal := "(none)"
	if len(sc.ExcludePatterns) > 0 {
		excludeVal = strings.Join(sc.ExcludePatterns, ", ")
	}
	_, _ = fmt.Fprintf(w, "  %-28s %s\n", "enabled:", enabledVal)
	_, _ = fmt.Fprintf(w, "  %-28s %s\n", "exclude_patterns:", excludeVal)

	return nil
}
