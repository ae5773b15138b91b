package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/hookio"
	"github.com/intentgate/cli/internal/types"
)

var hookCmd = &cobra.Command{
	Use:    "hook",
	Short:  "Host-invoked hook adapters (not for interactive use)",
	Hidden: true,
}

var hookPreCmd = &cobra.Command{
	Use:   "pre",
	Short: "Gate one tool call from a PreToolUse event on stdin",
	Long: `Read a PreToolUse event from stdin, run the pre-operation gate, and
write the permission decision to stdout.

Hooks cannot prompt, so the approval gate only passes when the operator has
already run 'ig approve' for the session's active intent. Denials embed the
structured error in the decision reason so the agent can self-correct.`,
	RunE: runHookPre,
}

var hookPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Record one tool call from a PostToolUse event on stdin",
	RunE:  runHookPost,
}

func init() {
	hookCmd.AddCommand(hookPreCmd)
	hookCmd.AddCommand(hookPostCmd)
	rootCmd.AddCommand(hookCmd)
}

func runHookPre(cmd *cobra.Command, args []string) error {
	payload, err := hookio.ParsePayload(os.Stdin)
	if err != nil {
		return err
	}

	op := payload.Operation()
	if !op.IsMutating() {
		return hookio.WriteAllow(os.Stdout)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		// A host without an initialized store gets a structured denial, not
		// a crash the agent cannot read.
		return hookio.WriteDeny(os.Stdout, types.NewGovernanceInternal("store", err))
	}
	engine := buildEngine(cfg, store)

	state, err := hookio.LoadSessionState(store, payload.SessionID)
	if err != nil {
		return hookio.WriteDeny(os.Stdout, types.NewGovernanceInternal("session-state", err))
	}
	session := state.Restore(guardOptions(cfg)...)

	// nil approver: without a terminal the only way through the approval
	// gate is a persisted prior 'ig approve'.
	decision := engine.PreCheck(op, payload.Target(), session, nil)

	state.Capture(session)
	if err := hookio.SaveSessionState(store, state); err != nil {
		return hookio.WriteDeny(os.Stdout, types.NewGovernanceInternal("session-state", err))
	}

	if decision.Allowed {
		return hookio.WriteAllow(os.Stdout)
	}
	return hookio.WriteDeny(os.Stdout, decision.Deny)
}

func runHookPost(cmd *cobra.Command, args []string) error {
	payload, err := hookio.ParsePayload(os.Stdin)
	if err != nil {
		return err
	}

	op := payload.Operation()
	if !op.IsMutating() {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		// Recording is best effort end to end; a missing store is not the
		// host's problem.
		VerbosePrintf("post hook skipped: %v\n", err)
		return nil
	}
	engine := buildEngine(cfg, store)

	state, err := hookio.LoadSessionState(store, payload.SessionID)
	if err != nil {
		return err
	}
	session := state.Restore(guardOptions(cfg)...)

	outcome := types.OutcomeFailure
	if payload.Succeeded() {
		outcome = types.OutcomeSuccess
	}

	engine.PostRecord(op, payload.Target(), outcome, nil, session)

	state.Capture(session)
	return hookio.SaveSessionState(store, state)
}
