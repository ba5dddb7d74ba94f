package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	locuslog "github.com/davetashner/locus/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for locus.
var rootCmd = &cobra.Command{
	Use:   "locus",
	Short: "Detect where new code belongs in a project",
	Long: `Locus inspects a project tree and infers, without user input, the most
probable location for a new artifact (file, module, test), together with a
calibrated confidence tier. It scans for stub markers, test layout, declared
configuration, and naming conventions concurrently under a strict time
budget, reconciles the evidence deterministically, and always returns a
best-effort, explainable answer — even when some scanners time out or find
nothing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		locuslog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scannersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
