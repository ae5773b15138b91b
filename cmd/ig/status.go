package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current governance state",
	Long: `Summarize the sidecar store and the current session: intent counts by
status, ledger size, active intent, and granted approvals.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	BaseDir      string                     `json:"base_dir"`
	SessionID    string                     `json:"session_id"`
	ActiveIntent string                     `json:"active_intent,omitempty"`
	Approved     []string                   `json:"approved,omitempty"`
	Intents      map[types.IntentStatus]int `json:"intents"`
	TraceCount   int                        `json:"trace_count"`
	Observed     int                        `json:"observed_files"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	intents, err := store.LoadIntents()
	if err != nil {
		return err
	}
	traceCount, err := store.TraceCount()
	if err != nil {
		return err
	}

	_, session, err := loadSession(cfg, store)
	if err != nil {
		return err
	}

	report := statusReport{
		BaseDir:      store.BaseDir,
		SessionID:    GetSessionID(),
		ActiveIntent: session.ActiveIntentID,
		Intents:      map[types.IntentStatus]int{},
		TraceCount:   traceCount,
		Observed:     session.Guard.Len(),
	}
	for _, in := range intents {
		report.Intents[in.Status]++
	}
	for id := range session.Approved {
		report.Approved = append(report.Approved, id)
	}

	if GetOutput() == "json" {
		return printJSON(report)
	}

	fmt.Printf("Store:    %s\n", report.BaseDir)
	fmt.Printf("Session:  %s\n", report.SessionID)
	if report.ActiveIntent != "" {
		fmt.Printf("Active:   %s\n", report.ActiveIntent)
	} else {
		fmt.Printf("Active:   (none selected)\n")
	}
	fmt.Printf("Intents:  %d TODO, %d IN_PROGRESS, %d DONE, %d BLOCKED\n",
		report.Intents[types.StatusTodo],
		report.Intents[types.StatusInProgress],
		report.Intents[types.StatusDone],
		report.Intents[types.StatusBlocked])
	fmt.Printf("Traces:   %d\n", report.TraceCount)
	fmt.Printf("Observed: %d file(s) this session\n", report.Observed)
	return nil
}
