package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:     "map",
	Aliases: []string{"intentmap"},
	Short:   "Inspect and rebuild the intent map projection",
	Long: `The intent map is a human-readable projection of the trace ledger:
which intent touched which files, and when. It is derived state, safe to
delete and rebuild at any time.`,
}

var mapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the intent map",
	RunE:  runMapShow,
}

var mapRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate the intent map from the trace ledger",
	RunE:  runMapRebuild,
}

func init() {
	mapCmd.AddCommand(mapShowCmd)
	mapCmd.AddCommand(mapRebuildCmd)
	rootCmd.AddCommand(mapCmd)
}

func runMapShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	data, err := os.ReadFile(store.IntentMapPath())
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runMapRebuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	if err := store.RebuildIntentMap(); err != nil {
		return err
	}
	fmt.Printf("Rebuilt %s\n", store.IntentMapPath())
	return nil
}
