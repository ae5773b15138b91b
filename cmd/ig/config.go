package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/config"
)

var (
	configShow bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and manage gate configuration.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (INTENTGATE_*)
  3. Project config (.intentgate/config.yaml)
  4. Home config (~/.intentgate/config.yaml)
  5. Defaults

Environment variables:
  INTENTGATE_CONFIG            - Explicit config file path (overrides default project config location)
  INTENTGATE_OUTPUT            - Default output format (table, json)
  INTENTGATE_BASE_DIR          - Sidecar data directory path
  INTENTGATE_VERBOSE           - Enable verbose output (true/1)
  INTENTGATE_SESSION           - Session id used when -s is not passed
  INTENTGATE_FRESHNESS_WINDOW  - Staleness observation lifetime (e.g. 15m)
  INTENTGATE_UNKNOWN_PATH      - Gate policy for unobserved files (allow|deny)
  INTENTGATE_RECENT_TRACE_LIMIT - History attached to a context bundle
  INTENTGATE_REQUIRE_PLANNING  - Enable the planning prerequisites (true/1)
  INTENTGATE_ARCHITECTURE_DOC  - Artifact checked by the planning gate

Examples:
  ig config --show           # Show resolved configuration
  ig config --show -o json   # Output as JSON`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show resolved configuration with sources")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configShow {
		// Show help if no flags
		return cmd.Help()
	}

	// Get resolved config with sources
	resolved := config.Resolve(GetOutput(), "", GetVerbose())

	if GetOutput() == "json" {
		return printJSON(resolved)
	}

	fmt.Println("IntentGate Configuration")
	fmt.Println("========================")
	fmt.Println()

	fmt.Println("Config files:")
	home, _ := os.UserHomeDir()
	homeConfig := filepath.Join(home, ".intentgate", "config.yaml")
	if _, err := os.Stat(homeConfig); err == nil {
		fmt.Printf("  + Home:    %s\n", homeConfig)
	} else {
		fmt.Printf("  - Home:    %s (not found)\n", homeConfig)
	}

	cwd, _ := os.Getwd()
	projectConfig := filepath.Join(cwd, ".intentgate", "config.yaml")
	if _, err := os.Stat(projectConfig); err == nil {
		fmt.Printf("  + Project: %s\n", projectConfig)
	} else {
		fmt.Printf("  - Project: %s (not found)\n", projectConfig)
	}

	fmt.Println()
	fmt.Println("Resolved values:")
	fmt.Printf("  output:           %v  (from %s)\n", resolved.Output.Value, resolved.Output.Source)
	fmt.Printf("  base_dir:         %v  (from %s)\n", resolved.BaseDir.Value, resolved.BaseDir.Source)
	fmt.Printf("  verbose:          %v  (from %s)\n", resolved.Verbose.Value, resolved.Verbose.Source)
	fmt.Printf("  freshness_window: %v  (from %s)\n", resolved.FreshnessWindow.Value, resolved.FreshnessWindow.Source)
	fmt.Printf("  unknown_path:     %v  (from %s)\n", resolved.UnknownPath.Value, resolved.UnknownPath.Source)
	fmt.Printf("  architecture_doc: %v  (from %s)\n", resolved.ArchitectureDoc.Value, resolved.ArchitectureDoc.Source)

	fmt.Println()
	fmt.Println("Environment variables (if set):")
	envVars := []string{
		"INTENTGATE_CONFIG",
		"INTENTGATE_OUTPUT",
		"INTENTGATE_BASE_DIR",
		"INTENTGATE_VERBOSE",
		"INTENTGATE_SESSION",
		"INTENTGATE_FRESHNESS_WINDOW",
		"INTENTGATE_UNKNOWN_PATH",
		"INTENTGATE_RECENT_TRACE_LIMIT",
		"INTENTGATE_REQUIRE_PLANNING",
		"INTENTGATE_ARCHITECTURE_DOC",
	}
	anySet := false
	for _, name := range envVars {
		if v := os.Getenv(name); v != "" {
			fmt.Printf("  %s=%s\n", name, v)
			anySet = true
		}
	}
	if !anySet {
		fmt.Println("  (none)")
	}

	return nil
}
