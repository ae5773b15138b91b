package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dryRun    bool
	verbose   bool
	output    string
	cfgFile   string
	sessionID string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ig",
	Short: "IntentGate mutation governance CLI",
	Long: `ig gates an autonomous agent's code mutations behind declared intents.

Every mutating operation must run under a selected intent whose owned scope
covers the target. The gate checks staleness, scope, and a one-time operator
approval before the change, and records an append-only trace after it.

Core Commands:
  init         Initialize the sidecar store in this repository
  intent       Declare, list, and select intents
  precheck     Gate a proposed operation
  record       Record a completed operation
  observe      Refresh a staleness baseline after reading a file
  approve      Clear the one-time approval gate for a session
  trace        Inspect the append-only trace ledger
  lesson       Capture lessons into the shared knowledge log
  hooks        Install the agent-host hook wiring
  status       Show current governance state

State lives in .agents/ig/ as plain text: reviewable, diffable, and safe to
regenerate.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		syncConfigFlagToEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (json, table, yaml)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.intentgate/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Session id (default: $INTENTGATE_SESSION or \"default\")")
}

// GetDryRun returns the dry-run flag value for use by subcommands.
func GetDryRun() bool {
	return dryRun
}

// GetVerbose returns the verbose flag value for use by subcommands.
func GetVerbose() bool {
	return verbose
}

// GetOutput returns the output format for use by subcommands.
func GetOutput() string {
	return output
}

// GetSessionID returns the effective session id for use by subcommands.
func GetSessionID() string {
	if sessionID != "" {
		return sessionID
	}
	if env := strings.TrimSpace(os.Getenv("INTENTGATE_SESSION")); env != "" {
		return env
	}
	return "default"
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format, args...)
	}
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(cfgFile)
	if path == "" {
		return
	}
	_ = os.Setenv("INTENTGATE_CONFIG", path)
}
