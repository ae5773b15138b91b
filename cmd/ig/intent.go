package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intentgate/cli/internal/formatter"
	"github.com/intentgate/cli/internal/governance"
	"github.com/intentgate/cli/internal/types"
)

var (
	intentCreateID       string
	intentCreateName     string
	intentCreateScope    []string
	intentCreateRules    []string
	intentCreateCriteria []string
)

var intentCmd = &cobra.Command{
	Use:   "intent",
	Short: "Declare, inspect, and select intents",
	Long: `Manage the intent registry.

An intent is a declared, scoped unit of work. Every mutating operation must
run under a selected intent whose owned scope covers the target path.`,
}

var intentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Declare a new intent",
	Long: `Declare a new intent in the registry.

Requires a name and at least one owned-scope glob. An id is generated when
not supplied.

Example:
  ig intent create --name "Refactor config loading" \
    --scope 'internal/config/**' --scope 'cmd/ig/config*.go' \
    --criteria "all config tests pass"`,
	RunE: runIntentCreate,
}

var intentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered intents",
	RunE:  runIntentList,
}

var intentShowCmd = &cobra.Command{
	Use:   "show <intent-id>",
	Short: "Show one intent in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntentShow,
}

var intentSelectCmd = &cobra.Command{
	Use:   "select <intent-id>",
	Short: "Make an intent the session's active intent",
	Long: `Select an intent for the current session and print its context bundle:
scope, constraints, acceptance criteria, and recent trace history.

Selection never changes intent status; promotion to IN_PROGRESS happens on
the first recorded change.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntentSelect,
}

var intentStatusCmd = &cobra.Command{
	Use:   "status <intent-id> <status>",
	Short: "Transition an intent's lifecycle status",
	Long: `Apply a validated status transition.

Allowed: TODO -> IN_PROGRESS -> DONE, and any state -> BLOCKED. BLOCKED is
terminal; park work there only when it will not resume.`,
	Args: cobra.ExactArgs(2),
	RunE: runIntentStatus,
}

func init() {
	intentCreateCmd.Flags().StringVar(&intentCreateID, "id", "", "Explicit intent id (generated when empty)")
	intentCreateCmd.Flags().StringVar(&intentCreateName, "name", "", "Human-readable intent name (required)")
	intentCreateCmd.Flags().StringArrayVar(&intentCreateScope, "scope", nil, "Owned-scope glob, repeatable (required)")
	intentCreateCmd.Flags().StringArrayVar(&intentCreateRules, "constraint", nil, "Free-text constraint, repeatable")
	intentCreateCmd.Flags().StringArrayVar(&intentCreateCriteria, "criteria", nil, "Acceptance criterion, repeatable")

	intentCmd.AddCommand(intentCreateCmd)
	intentCmd.AddCommand(intentListCmd)
	intentCmd.AddCommand(intentShowCmd)
	intentCmd.AddCommand(intentSelectCmd)
	intentCmd.AddCommand(intentStatusCmd)
	rootCmd.AddCommand(intentCmd)
}

func runIntentCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}
	engine := buildEngine(cfg, store)

	intent, err := engine.CreateIntent(governance.IntentDescriptor{
		ID:                 intentCreateID,
		Name:               intentCreateName,
		OwnedScope:         intentCreateScope,
		Constraints:        intentCreateRules,
		AcceptanceCriteria: intentCreateCriteria,
	})
	if err != nil {
		return err
	}

	if GetOutput() == "json" {
		return printJSON(intent)
	}
	fmt.Printf("Created %s: %s\n", intent.ID, intent.Name)
	fmt.Printf("  Scope: %s\n", strings.Join(intent.OwnedScope, ", "))
	return nil
}

func runIntentList(cmd *cobra.Command, args []string) error {
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

	if GetOutput() == "json" {
		return printJSON(intents)
	}

	if len(intents) == 0 {
		fmt.Println("No intents declared. Use 'ig intent create' to declare one.")
		return nil
	}

	tbl := formatter.NewTable(os.Stdout, "ID", "STATUS", "NAME", "SCOPE")
	tbl.SetMaxWidth(2, 40)
	tbl.SetMaxWidth(3, 50)
	for _, in := range intents {
		tbl.AddRow(in.ID, string(in.Status), in.Name, strings.Join(in.OwnedScope, ", "))
	}
	return tbl.Render()
}

func runIntentShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	intent, err := store.GetIntent(args[0])
	if err != nil {
		return err
	}

	if GetOutput() == "json" {
		return printJSON(intent)
	}

	fmt.Printf("%s  %s\n", intent.ID, intent.Name)
	fmt.Printf("  Status:  %s\n", intent.Status)
	fmt.Printf("  Scope:   %s\n", strings.Join(intent.OwnedScope, ", "))
	for _, c := range intent.Constraints {
		fmt.Printf("  Constraint: %s\n", c)
	}
	for _, c := range intent.AcceptanceCriteria {
		fmt.Printf("  Criterion:  %s\n", c)
	}
	fmt.Printf("  Created: %s\n", intent.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  Updated: %s\n", intent.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func runIntentSelect(cmd *cobra.Command, args []string) error {
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

	bundle, err := engine.SelectIntent(args[0], session)
	if err != nil {
		return err
	}
	if err := saveSession(store, state, session); err != nil {
		return err
	}

	if GetOutput() == "json" {
		return printJSON(bundle)
	}

	fmt.Printf("Selected %s: %s (%s)\n", bundle.Intent.ID, bundle.Intent.Name, bundle.Intent.Status)
	fmt.Printf("  Scope: %s\n", strings.Join(bundle.Scope, ", "))
	for _, c := range bundle.Constraints {
		fmt.Printf("  Constraint: %s\n", c)
	}
	for _, c := range bundle.AcceptanceCriteria {
		fmt.Printf("  Criterion:  %s\n", c)
	}
	if len(bundle.RecentTraces) > 0 {
		fmt.Printf("  Recent changes:\n")
		for _, tr := range bundle.RecentTraces {
			fmt.Printf("    %s  %s  %s\n",
				tr.Timestamp.Format("2006-01-02 15:04"), tr.MutationClass, traceFileSummary(&tr))
		}
	}
	return nil
}

func runIntentStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}
	engine := buildEngine(cfg, store)

	to := types.IntentStatus(strings.ToUpper(args[1]))
	intent, err := engine.MarkIntentStatus(args[0], to)
	if err != nil {
		return err
	}

	if GetOutput() == "json" {
		return printJSON(intent)
	}
	fmt.Printf("%s -> %s\n", intent.ID, intent.Status)
	return nil
}

// traceFileSummary names the touched files of a trace entry in one line.
func traceFileSummary(tr *types.TraceEntry) string {
	if len(tr.Files) == 0 {
		return "(no files)"
	}
	paths := make([]string, 0, len(tr.Files))
	for _, f := range tr.Files {
		paths = append(paths, f.RelativePath)
	}
	return strings.Join(paths, ", ")
}
