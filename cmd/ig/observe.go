package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/contenthash"
)

var observeCmd = &cobra.Command{
	Use:   "observe <path>...",
	Short: "Refresh the staleness baseline after reading a file",
	Long: `Record that this session has read the current content of each path.

The staleness guard compares a target's content at mutation time against the
last observation. A stale-file denial clears once the file is re-observed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
}

func runObserve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}
	engine := buildEngine(cfg, store)

	state, session, err := loadSession(cfg, store)
	if err != nil {
		return err
	}

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		engine.TrackObservation(path, content, session)
		VerbosePrintf("Observed %s (%s)\n", path, contenthash.Digest(content))
	}

	if err := saveSession(store, state, session); err != nil {
		return err
	}

	fmt.Printf("Observed %d file(s)\n", len(args))
	return nil
}
