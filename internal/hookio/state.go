package hookio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/intentgate/cli/internal/governance"
	"github.com/intentgate/cli/internal/sidecar"
	"github.com/intentgate/cli/internal/staleness"
)

// SessionState is the persisted working state for one host session. Hook
// invocations are separate processes, so everything the engine keeps
// in-memory per session round-trips through this file between events.
type SessionState struct {
	// SessionID is the host's session identifier.
	SessionID string `json:"session_id"`

	// ActiveIntentID is the selected intent, "" when none.
	ActiveIntentID string `json:"active_intent_id,omitempty"`

	// Approved lists intents that cleared the one-time approval gate.
	Approved []string `json:"approved,omitempty"`

	// Observations are the staleness baselines this session holds. Only the
	// digests survive persistence; retained content is an in-process
	// optimization and is rebuilt from disk on demand.
	Observations map[string]ObservationState `json:"observations,omitempty"`

	// UpdatedAt is the last write.
	UpdatedAt time.Time `json:"updated_at"`
}

// ObservationState is one persisted staleness baseline.
type ObservationState struct {
	Digest     string    `json:"digest"`
	ObservedAt time.Time `json:"observed_at"`
}

// statePath places session files under the sidecar's sessions directory.
func statePath(store *sidecar.Store, sessionID string) string {
	return filepath.Join(store.SessionsPath(), sessionID+".json")
}

// LoadSessionState reads the persisted state, returning a fresh state when
// none exists yet.
func LoadSessionState(store *sidecar.Store, sessionID string) (*SessionState, error) {
	data, err := os.ReadFile(statePath(store, sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &SessionState{SessionID: sessionID}, nil
		}
		return nil, fmt.Errorf("read session state: %w", err)
	}

	var st SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file must not wedge the session forever; start
		// over and let the gate re-collect approvals and observations.
		return &SessionState{SessionID: sessionID}, nil
	}
	if st.SessionID == "" {
		st.SessionID = sessionID
	}
	return &st, nil
}

// SaveSessionState writes the state file, creating the sessions directory on
// first use.
func SaveSessionState(store *sidecar.Store, st *SessionState) error {
	if err := os.MkdirAll(store.SessionsPath(), 0755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	st.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	path := statePath(store, st.SessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return os.Rename(tmp, path)
}

// Restore builds an in-memory engine session from persisted state.
func (st *SessionState) Restore(guardOpts ...staleness.Option) *governance.Session {
	session := governance.NewSession(st.SessionID, guardOpts...)
	session.ActiveIntentID = st.ActiveIntentID
	for _, id := range st.Approved {
		session.MarkApproved(id)
	}
	for path, obs := range st.Observations {
		session.Guard.RestoreObservation(path, staleness.Observation{
			Digest:     obs.Digest,
			ObservedAt: obs.ObservedAt,
		})
	}
	return session
}

// Capture copies the engine session back into persistable form.
func (st *SessionState) Capture(session *governance.Session) {
	st.ActiveIntentID = session.ActiveIntentID

	st.Approved = st.Approved[:0]
	for id, ok := range session.Approved {
		if ok {
			st.Approved = append(st.Approved, id)
		}
	}

	st.Observations = make(map[string]ObservationState)
	for path, obs := range session.Guard.Snapshot() {
		st.Observations[path] = ObservationState{
			Digest:     obs.Digest,
			ObservedAt: obs.ObservedAt,
		}
	}
}
