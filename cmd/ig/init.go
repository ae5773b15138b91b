package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the sidecar store in the current repository",
	Long: `Set up a repository for intent-gated governance.

This creates:
  .agents/ig/intents.yaml     - Intent registry
  .agents/ig/trace.log        - Append-only trace ledger
  .agents/ig/intent_map.md    - Regenerable intent map projection
  .agents/ig/knowledge.md     - Shared lessons log
  .agents/ig/protected.list   - Protected intent deny-list
  .agents/ig/sessions/        - Per-session hook state (gitignored)

Run in your project root. Safe to run multiple times (idempotent).`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	if GetDryRun() {
		fmt.Printf("Would initialize sidecar store at %s\n", store.BaseDir)
		return nil
	}

	if err := store.Init(); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	// Session state is per-machine working state, never shared history.
	ignoreEntry := filepath.ToSlash(store.SessionsPath()) + "/"
	if err := appendGitignore(".gitignore", ignoreEntry); err != nil {
		VerbosePrintf("gitignore not updated: %v\n", err)
	}

	fmt.Printf("Initialized sidecar store at %s\n", store.BaseDir)
	return nil
}

// appendGitignore adds entry to the gitignore file unless already present.
func appendGitignore(path, entry string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}
	_, err = fmt.Fprintf(f, "%s%s\n", prefix, entry)
	return err
}
