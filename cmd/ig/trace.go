package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/formatter"
	"github.com/intentgate/cli/internal/types"
)

var (
	traceIntentID string
	traceLimit    int
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Inspect the append-only trace ledger",
	Long: `List trace ledger entries, newest last.

Corrupt ledger lines are skipped, never fatal: one bad write must not make
history unreadable.`,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceIntentID, "intent", "", "Only entries attributed to this intent")
	traceCmd.Flags().IntVar(&traceLimit, "limit", 0, "Show at most N newest entries (0 = all)")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	var entries []types.TraceEntry
	if traceIntentID != "" && traceLimit > 0 {
		entries, err = store.RecentTracesForIntent(traceIntentID, traceLimit)
	} else {
		entries, err = store.ScanTraces()
		if err == nil {
			if traceIntentID != "" {
				entries = filterTraces(entries, traceIntentID)
			}
			if traceLimit > 0 && len(entries) > traceLimit {
				entries = entries[len(entries)-traceLimit:]
			}
		}
	}
	if err != nil {
		return err
	}

	if GetOutput() == "json" {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No trace entries.")
		return nil
	}

	tbl := formatter.NewTable(os.Stdout, "TIME", "INTENT", "CLASS", "REVISION", "FILES")
	tbl.SetMaxWidth(3, 12)
	tbl.SetMaxWidth(4, 50)
	for i := range entries {
		e := &entries[i]
		tbl.AddRow(
			e.Timestamp.Format("2006-01-02 15:04"),
			e.IntentID(),
			string(e.MutationClass),
			e.RevisionID,
			traceFileSummary(e),
		)
	}
	return tbl.Render()
}

func filterTraces(entries []types.TraceEntry, intentID string) []types.TraceEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.IntentID() == intentID {
			out = append(out, e)
		}
	}
	return out
}
