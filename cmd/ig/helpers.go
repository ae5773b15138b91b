package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/intentgate/cli/internal/classify"
	"github.com/intentgate/cli/internal/config"
	"github.com/intentgate/cli/internal/governance"
	"github.com/intentgate/cli/internal/hookio"
	"github.com/intentgate/cli/internal/sidecar"
	"github.com/intentgate/cli/internal/staleness"
)

// loadConfig resolves the effective configuration, applying global flags.
func loadConfig() (*config.Config, error) {
	overrides := &config.Config{
		Output:  "",
		Verbose: GetVerbose(),
	}
	if GetOutput() != "table" {
		overrides.Output = GetOutput()
	}
	return config.Load(overrides)
}

// openStore opens the sidecar store from config without initializing it.
func openStore(cfg *config.Config) *sidecar.Store {
	return sidecar.New(sidecar.WithBaseDir(cfg.BaseDir))
}

// buildEngine wires a governance engine from config.
func buildEngine(cfg *config.Config, store *sidecar.Store) *governance.Engine {
	opts := []governance.Option{
		governance.WithClassifier(classify.New(cfg.Classifier)),
		governance.WithRecentTraceLimit(cfg.Policy.RecentTraceLimit),
	}
	if cfg.Policy.RequirePlanning {
		opts = append(opts, governance.WithPlanningGate(cfg.Policy.ArchitectureDoc))
	}
	return governance.New(store, opts...)
}

// guardOptions derives the staleness guard configuration.
func guardOptions(cfg *config.Config) []staleness.Option {
	opts := []staleness.Option{
		staleness.WithFreshnessWindow(cfg.FreshnessWindowDuration()),
	}
	if cfg.Policy.UnknownPath == string(staleness.PolicyDeny) {
		opts = append(opts, staleness.WithUnknownPathPolicy(staleness.PolicyDeny))
	}
	return opts
}

// loadSession restores the persisted session for the effective session id.
func loadSession(cfg *config.Config, store *sidecar.Store) (*hookio.SessionState, *governance.Session, error) {
	state, err := hookio.LoadSessionState(store, GetSessionID())
	if err != nil {
		return nil, nil, err
	}
	return state, state.Restore(guardOptions(cfg)...), nil
}

// saveSession captures and persists the session state.
func saveSession(store *sidecar.Store, state *hookio.SessionState, session *governance.Session) error {
	state.Capture(session)
	return hookio.SaveSessionState(store, state)
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// requireInitialized fails with guidance when the store is missing.
func requireInitialized(store *sidecar.Store) error {
	if _, err := os.Stat(store.IntentsPath()); err != nil {
		return fmt.Errorf("sidecar store not found at %s (run 'ig init' first)", store.BaseDir)
	}
	return nil
}
