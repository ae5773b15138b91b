package governance

import (
	"github.com/intentgate/cli/internal/staleness"
)

// Session is the caller-owned, in-memory working state for one stream of
// operations. Nothing here is persisted by the engine: a multi-process
// caller (like the hook adapter) serializes its own session object and
// rebuilds one of these per invocation. The session is passed explicitly
// into every engine call — never global, never attached to anything else.
type Session struct {
	// ID names the session for logs and trace context.
	ID string

	// ActiveIntentID is the currently selected intent, "" when none.
	ActiveIntentID string

	// Approved records which intents have cleared the one-time operator
	// approval gate in this session.
	Approved map[string]bool

	// Guard is this session's staleness cache. Per-session on purpose: it
	// catches cross-session races by comparing against what this session
	// last observed.
	Guard *staleness.Guard
}

// NewSession creates an empty session with the given guard options.
func NewSession(id string, guardOpts ...staleness.Option) *Session {
	return &Session{
		ID:       id,
		Approved: make(map[string]bool),
		Guard:    staleness.NewGuard(guardOpts...),
	}
}

// MarkApproved records that the operator cleared the gate for an intent.
func (s *Session) MarkApproved(intentID string) {
	if s.Approved == nil {
		s.Approved = make(map[string]bool)
	}
	s.Approved[intentID] = true
}

// IsApproved reports whether the intent already cleared the gate.
func (s *Session) IsApproved(intentID string) bool {
	return s.Approved[intentID]
}
