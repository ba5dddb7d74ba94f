package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/locus/internal/config"
)

// Config command flags.
var (
	configGlobal bool
	configForce  bool
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify locus configuration",
	Long: `View and modify locus configuration.

Locus reads configuration from .locus.yaml in the project root.
A global config at ~/.config/locus/config.yaml provides defaults.
Project-level settings override global settings.

Note: config set does a YAML round-trip and will not preserve comments.
If you need to keep comments, edit the file directly.`,
}

// configInitCmd writes a commented starter config.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter .locus.yaml",
	Long: `Write a commented starter .locus.yaml to the given project root (default:
current directory). Every value in the file matches a built-in default, so
the file changes nothing until edited.

This command is non-destructive by default: an existing file is left alone.
Use --force to regenerate it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// configShowCmd prints the effective merged configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration as YAML: global defaults merged with the
project's .locus.yaml, project values winning.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configGetCmd retrieves a configuration value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by dot-notation key path.

Examples:
  locus config get format
  locus config get default_budget_ms
  locus config get scanners.naming_convention.enabled
  locus config get --global max_fallbacks`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are auto-detected as bool, int, float, or string.
By default, writes to .locus.yaml in the current directory.
Use --global to write to ~/.config/locus/config.yaml.

Note: This does a YAML round-trip and will not preserve comments.

Examples:
  locus config set format json
  locus config set default_budget_ms 250
  locus config set scanners.naming_convention.enabled false
  locus config set --global max_fallbacks 10`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List all set configuration values, annotated with whether each comes from
the project config (.locus.yaml) or the global config
(~/.config/locus/config.yaml). Project values override global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing .locus.yaml")
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/locus/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/locus/config.yaml)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal = false
	configForce = false
	if f := configGetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
	}
	if f := configSetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
	}
	if f := configInitCmd.Flags().Lookup("force"); f != nil {
		_ = f.Value.Set("false")
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, _, err := resolveScanPath(path)
	if err != nil {
		return err
	}

	action, err := config.Init(absPath, configForce)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", action.Operation, action.File, action.Description)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	repoCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}

	merged := mergeConfigs(globalCfg, repoCfg)
	m, err := configToMapViaYAML(merged)
	if err != nil {
		return err
	}
	if len(m) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No configuration set; built-in defaults apply.")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'locus config init' to create a starter .locus.yaml.")
		return nil
	}

	return config.Write(cmd.OutOrStdout(), merged)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]

	var cfg *config.Config
	var err error

	if configGlobal {
		cfg, err = config.LoadGlobal()
	} else {
		// Load project config, falling back to merged view.
		repoCfg, repoErr := config.Load(".")
		if repoErr != nil {
			return fmt.Errorf("loading project config: %w", repoErr)
		}
		globalCfg, globalErr := config.LoadGlobal()
		if globalErr != nil {
			return fmt.Errorf("loading global config: %w", globalErr)
		}
		cfg = mergeConfigs(globalCfg, repoCfg)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	val, err := config.GetValue(cfg, keyPath)
	if err != nil {
		return err
	}

	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	// Determine target file path.
	targetPath := filepath.Join(".", config.FileName)
	if configGlobal {
		targetPath = config.GlobalConfigPath()
	}

	// Load existing file as raw map.
	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	// Set the value.
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip validate: unmarshal to Config and validate.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	// Write back.
	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	repoCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}

	globalMap, err := configToFlatMap(globalCfg)
	if err != nil {
		return err
	}
	repoMap, err := configToFlatMap(repoCfg)
	if err != nil {
		return err
	}

	// Merge: project overrides global, track source.
	type entry struct {
		key    string
		value  any
		source string
	}

	seen := make(map[string]entry)
	for k, v := range globalMap {
		seen[k] = entry{key: k, value: v, source: "global"}
	}
	for k, v := range repoMap {
		seen[k] = entry{key: k, value: v, source: "project"}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'locus config init' to create a config, or 'locus config set <key> <value>' to set values.")
		return nil
	}

	// Sort keys for stable output.
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	globalColor := color.New(color.FgCyan)
	projectColor := color.New(color.FgGreen)

	for _, k := range keys {
		e := seen[k]
		sourceLabel := formatSource(e.source, globalColor, projectColor)
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, sourceLabel)
	}

	return nil
}

// printValue outputs a value: scalars as plain text, maps/slices as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// mergeConfigs merges global and project configs. Project values take
// precedence; only non-zero project values override global values.
func mergeConfigs(global, repo *config.Config) *config.Config {
	merged := *global

	if repo.DefaultBudgetMS != 0 {
		merged.DefaultBudgetMS = repo.DefaultBudgetMS
	}
	if repo.MaxFallbacks != 0 {
		merged.MaxFallbacks = repo.MaxFallbacks
	}
	if repo.Format != "" {
		merged.Format = repo.Format
	}
	if len(repo.ExcludePatterns) > 0 {
		merged.ExcludePatterns = repo.ExcludePatterns
	}

	// Merge scanner configs: project overrides global per scanner.
	if len(repo.Scanners) > 0 {
		if merged.Scanners == nil {
			merged.Scanners = make(map[string]config.ScannerConfig)
		}
		for key, sc := range repo.Scanners {
			merged.Scanners[key] = sc
		}
	}

	return &merged
}

// configToFlatMap converts a Config to a flat dot-notation map, omitting zero values.
func configToFlatMap(cfg *config.Config) (map[string]any, error) {
	m, err := configToMapViaYAML(cfg)
	if err != nil {
		return nil, err
	}
	return config.FlattenMap(m, ""), nil
}

// configToMapViaYAML converts a Config to a map via YAML round-trip.
func configToMapViaYAML(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// formatSource returns a colorized source annotation.
func formatSource(source string, globalColor, projectColor *color.Color) string {
	switch source {
	case "global":
		return globalColor.Sprintf("(global)")
	case "project":
		return projectColor.Sprintf("(project)")
	default:
		return fmt.Sprintf("(%s)", source)
	}
}
