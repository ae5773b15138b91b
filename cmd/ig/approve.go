package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var approveCmd = &cobra.Command{
	Use:   "approve [intent-id]",
	Short: "Clear the one-time approval gate for a session",
	Long: `Grant the one-time operator approval for an intent in this session.

Non-interactive callers (the hook adapter in particular) cannot prompt, so
the operator approves ahead of time with this command. The approval covers
every subsequent mutation under that intent for the session; a fresh session
needs a fresh approval.

Defaults to the session's active intent when no id is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	state, session, err := loadSession(cfg, store)
	if err != nil {
		return err
	}

	intentID := session.ActiveIntentID
	if len(args) == 1 {
		intentID = args[0]
	}
	if intentID == "" {
		return fmt.Errorf("no intent to approve: select one or pass an id")
	}

	// Approving an unregistered id would silently do nothing useful later.
	if _, err := store.GetIntent(intentID); err != nil {
		return err
	}

	session.MarkApproved(intentID)
	if err := saveSession(store, state, session); err != nil {
		return err
	}

	fmt.Printf("Approved %s for session %s\n", intentID, GetSessionID())
	return nil
}
