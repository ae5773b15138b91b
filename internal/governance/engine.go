// Package governance orchestrates the pre-operation gate and post-operation
// recorder around an autonomous agent's mutating operations. The engine owns
// the authorization flow; the durable record set lives in the sidecar store,
// and all per-stream working state lives in the caller's Session.
package governance

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/intentgate/cli/internal/classify"
	"github.com/intentgate/cli/internal/sidecar"
	"github.com/intentgate/cli/internal/types"
)

// DefaultRecentTraceLimit bounds how much ledger history a context bundle
// carries.
const DefaultRecentTraceLimit = 10

// Approver is the one-time human gate consulted before the first mutating
// operation under an intent in a session. Implementations are modal and
// blocking; any timeout or cancellation policy belongs to the caller.
type Approver interface {
	Approve(intent types.Intent, op types.OperationKind, target string) (bool, error)
}

// ApproverFunc adapts a function to the Approver interface.
type ApproverFunc func(intent types.Intent, op types.OperationKind, target string) (bool, error)

// Approve implements Approver.
func (f ApproverFunc) Approve(intent types.Intent, op types.OperationKind, target string) (bool, error) {
	return f(intent, op, target)
}

// Engine is the governance engine. It performs no background work; every
// call runs on the caller's goroutine.
type Engine struct {
	store      *sidecar.Store
	classifier *classify.Classifier
	log        *slog.Logger
	now        func() time.Time
	revision   func() string
	readFile   func(path string) ([]byte, error)

	recentLimit     int
	requirePlanning bool
	architectureDoc string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for swallowed bookkeeping failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRevisionFunc overrides the version-control marker lookup.
func WithRevisionFunc(fn func() string) Option {
	return func(e *Engine) { e.revision = fn }
}

// WithFileReader overrides target content reads (tests, virtual filesystems).
func WithFileReader(fn func(path string) ([]byte, error)) Option {
	return func(e *Engine) { e.readFile = fn }
}

// WithClassifier replaces the default mutation classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithRecentTraceLimit bounds context-bundle history.
func WithRecentTraceLimit(n int) Option {
	return func(e *Engine) { e.recentLimit = n }
}

// WithPlanningGate enables the upstream-artifact checks: the architecture
// document must exist and the active intent must carry acceptance criteria.
func WithPlanningGate(architectureDoc string) Option {
	return func(e *Engine) {
		e.requirePlanning = true
		e.architectureDoc = architectureDoc
	}
}

// New creates an engine over a sidecar store.
func New(store *sidecar.Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		classifier:  classify.New(classify.DefaultThresholds()),
		log:         slog.Default(),
		now:         time.Now,
		revision:    GitRevision,
		readFile:    readWorkspaceFile,
		recentLimit: DefaultRecentTraceLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the underlying sidecar store for callers that render its
// contents (trace listing, map rebuild).
func (e *Engine) Store() *sidecar.Store {
	return e.store
}

// IntentDescriptor is the caller's request to declare a new unit of work.
type IntentDescriptor struct {
	// ID is optional; one is generated when empty.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the human-readable title. Required.
	Name string `json:"name" yaml:"name"`

	// OwnedScope lists the path globs the intent may modify. At least one
	// pattern is required: a scopeless intent could never authorize a write.
	OwnedScope []string `json:"owned_scope" yaml:"owned_scope"`

	// Constraints are optional free-text rules.
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	// AcceptanceCriteria are optional free-text completion conditions.
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty" yaml:"acceptance_criteria,omitempty"`
}

// CreateIntent declares a new intent in the registry.
func (e *Engine) CreateIntent(desc IntentDescriptor) (*types.Intent, error) {
	if strings.TrimSpace(desc.Name) == "" {
		return nil, fmt.Errorf("intent name is required")
	}
	if len(desc.OwnedScope) == 0 {
		return nil, fmt.Errorf("intent owned_scope must contain at least one pattern")
	}

	id := strings.TrimSpace(desc.ID)
	if id == "" {
		id = generateIntentID()
	}

	now := e.now()
	intent := types.Intent{
		ID:                 id,
		Name:               desc.Name,
		Status:             types.StatusTodo,
		OwnedScope:         desc.OwnedScope,
		Constraints:        desc.Constraints,
		AcceptanceCriteria: desc.AcceptanceCriteria,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := e.store.AddIntent(intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// SelectIntent loads an intent, attaches its recent ledger history, and
// makes it the session's active intent. Selection never changes intent
// status; promotion happens on the first recorded change.
func (e *Engine) SelectIntent(id string, session *Session) (*types.ContextBundle, error) {
	// The deny-list wins over everything, including existence: a protected
	// id is refused whether or not it is registered.
	protected, err := e.store.IsProtected(id)
	if err != nil {
		return nil, fmt.Errorf("read protected list: %w", err)
	}
	if protected {
		return nil, types.NewIntentProtected(id)
	}

	intent, err := e.store.GetIntent(id)
	if err != nil {
		if errors.Is(err, sidecar.ErrIntentNotFound) {
			ids, idErr := e.store.IntentIDs()
			if idErr != nil {
				e.log.Warn("listing valid intent ids failed", slog.String("error", idErr.Error()))
			}
			return nil, types.NewIntentNotFound(id, ids)
		}
		return nil, err
	}

	recent, err := e.store.RecentTracesForIntent(id, e.recentLimit)
	if err != nil {
		// History is guidance, not a gate: selection proceeds without it.
		e.log.Warn("loading recent traces failed",
			slog.String("intent", id),
			slog.String("error", err.Error()))
		recent = nil
	}

	session.ActiveIntentID = id

	return &types.ContextBundle{
		Intent:             *intent,
		Scope:              intent.OwnedScope,
		Constraints:        intent.Constraints,
		AcceptanceCriteria: intent.AcceptanceCriteria,
		RecentTraces:       recent,
	}, nil
}

// MarkIntentStatus applies an explicit, validated status transition.
func (e *Engine) MarkIntentStatus(id string, to types.IntentStatus) (*types.Intent, error) {
	return e.store.UpdateIntentStatus(id, to, e.now())
}

// RecordLesson appends a lesson to the shared knowledge log.
func (e *Engine) RecordLesson(text, category, intentID string) error {
	return e.store.AppendLesson(types.LessonEntry{
		Text:       text,
		Category:   category,
		IntentID:   intentID,
		RecordedAt: e.now(),
	})
}

// TrackObservation seeds the session's staleness baseline for a target. The
// caller must invoke this whenever it reads a target's content.
func (e *Engine) TrackObservation(path string, content []byte, session *Session) {
	session.Guard.RecordObservation(path, content)
}

// generateIntentID mints a short, stable intent token.
func generateIntentID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INT-" + strings.ToUpper(raw[:8])
}
