package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/governance"
	"github.com/intentgate/cli/internal/types"
)

var (
	recordOp      string
	recordTarget  string
	recordOutcome string
	recordRanges  []string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed operation",
	Long: `Record the outcome of an executed operation under the active intent.

A successful mutation appends one trace ledger entry, refreshes the
staleness baseline for the target, updates the intent map, and promotes a
TODO intent to IN_PROGRESS on its first recorded change. Failed operations
and non-mutating operations record nothing.

Recording is best effort: the operation already happened, so bookkeeping
problems are logged, never fatal.

Examples:
  ig record --op write --target src/config.ts
  ig record --op edit --target src/parser.ts --range 42-60 --range 101-110`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordOp, "op", "write", "Operation kind")
	recordCmd.Flags().StringVar(&recordTarget, "target", "", "Workspace-relative target path")
	recordCmd.Flags().StringVar(&recordOutcome, "outcome", "success", "Operation outcome (success, failure)")
	recordCmd.Flags().StringArrayVar(&recordRanges, "range", nil, "Changed line range as start-end, repeatable")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}
	engine := buildEngine(cfg, store)

	ranges, err := parseLineRanges(recordRanges)
	if err != nil {
		return err
	}

	state, session, err := loadSession(cfg, store)
	if err != nil {
		return err
	}

	engine.PostRecord(types.OperationKind(recordOp), recordTarget, types.Outcome(recordOutcome), ranges, session)

	if err := saveSession(store, state, session); err != nil {
		return err
	}

	VerbosePrintf("Recorded %s %s (%s)\n", recordOp, recordTarget, recordOutcome)
	return nil
}

// parseLineRanges parses repeatable "start-end" flags.
func parseLineRanges(specs []string) ([]governance.LineRange, error) {
	ranges := make([]governance.LineRange, 0, len(specs))
	for _, spec := range specs {
		start, end, ok := strings.Cut(spec, "-")
		if !ok {
			return nil, fmt.Errorf("invalid range %q: want start-end", spec)
		}
		s, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", spec, err)
		}
		e, err := strconv.Atoi(strings.TrimSpace(end))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", spec, err)
		}
		if s < 1 || e < s {
			return nil, fmt.Errorf("invalid range %q: start must be >= 1 and end >= start", spec)
		}
		ranges = append(ranges, governance.LineRange{StartLine: s, EndLine: e})
	}
	return ranges, nil
}
