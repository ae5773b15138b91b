// Package types defines all data structures for the IntentGate governance engine.
package types

import (
	"time"
)

// IntentStatus represents the lifecycle state of an intent.
type IntentStatus string

const (
	// StatusTodo is a declared intent with no recorded changes yet.
	StatusTodo IntentStatus = "TODO"

	// StatusInProgress is an intent with at least one recorded change.
	StatusInProgress IntentStatus = "IN_PROGRESS"

	// StatusDone is a completed intent.
	StatusDone IntentStatus = "DONE"

	// StatusBlocked is an intent parked for external reasons. Any state may
	// transition here.
	StatusBlocked IntentStatus = "BLOCKED"
)

// ValidTransition reports whether a status change is allowed.
// Allowed: TODO -> IN_PROGRESS -> DONE, and any state -> BLOCKED.
// BLOCKED is terminal: there is no transition out of it.
func ValidTransition(from, to IntentStatus) bool {
	if to == StatusBlocked {
		return true
	}
	switch from {
	case StatusTodo:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusDone
	}
	return false
}

// Intent is a declared, scoped unit of work that gates and attributes
// mutating operations.
type Intent struct {
	// ID is the unique, stable token for this intent (e.g., "INT-001").
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable title.
	Name string `yaml:"name" json:"name"`

	// Status is the lifecycle state.
	Status IntentStatus `yaml:"status" json:"status"`

	// OwnedScope lists the path-glob patterns this intent may modify.
	OwnedScope []string `yaml:"owned_scope" json:"owned_scope"`

	// Constraints are free-text rules the work must respect.
	Constraints []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`

	// AcceptanceCriteria are free-text completion conditions.
	AcceptanceCriteria []string `yaml:"acceptance_criteria,omitempty" json:"acceptance_criteria,omitempty"`

	// CreatedAt is when the intent was declared.
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`

	// UpdatedAt is the last registry write touching this intent.
	// Monotonically non-decreasing.
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// MutationClass labels the nature of a recorded code change.
type MutationClass string

const (
	// ClassASTRefactor is a structure-preserving change (rename, move,
	// formatting, mechanical rewrite).
	ClassASTRefactor MutationClass = "AST_REFACTOR"

	// ClassIntentEvolution is a functional change (new behavior, new
	// declarations, substantial growth).
	ClassIntentEvolution MutationClass = "INTENT_EVOLUTION"
)

// RevisionUnknown is recorded when no version-control marker is available.
const RevisionUnknown = "unknown"

// TraceRange identifies one changed block within a file.
type TraceRange struct {
	// StartLine is the 1-based first line of the changed block.
	StartLine int `json:"start_line"`

	// EndLine is the 1-based last line of the changed block.
	EndLine int `json:"end_line"`

	// ContentHash is the digest of the block's bytes alone, independent of
	// line position. Moving an unchanged block preserves its hash.
	ContentHash string `json:"content_hash"`
}

// TraceFile lists the changed ranges within one file.
type TraceFile struct {
	// RelativePath is the workspace-relative, slash-normalized path.
	RelativePath string `json:"relative_path"`

	// Ranges are the changed blocks.
	Ranges []TraceRange `json:"ranges"`
}

// TraceRelated is a back-reference from a trace entry to another record.
type TraceRelated struct {
	// Type is the reference kind (currently always "intent").
	Type string `json:"type"`

	// Value is the referenced id.
	Value string `json:"value"`
}

// RelatedTypeIntent is the reference type linking a trace entry to an intent.
const RelatedTypeIntent = "intent"

// TraceEntry is one append-only ledger record of a single mutating operation.
// Entries are immutable once written.
type TraceEntry struct {
	// ID is the locally unique record identifier.
	ID string `json:"id"`

	// Timestamp is when the operation was recorded.
	Timestamp time.Time `json:"timestamp"`

	// RevisionID is the external version-control marker, or "unknown".
	RevisionID string `json:"revision_id"`

	// MutationClass is the heuristic label for this change.
	MutationClass MutationClass `json:"mutation_class"`

	// Files are the touched files with their changed ranges.
	Files []TraceFile `json:"files"`

	// Related carries intent back-references.
	Related []TraceRelated `json:"related"`
}

// IntentID returns the first related intent id, or "".
func (t *TraceEntry) IntentID() string {
	for _, r := range t.Related {
		if r.Type == RelatedTypeIntent {
			return r.Value
		}
	}
	return ""
}

// MapEntry is one row of the human-readable intent map projection.
// Derived from the trace ledger; never authoritative.
type MapEntry struct {
	// IntentID is the projected intent.
	IntentID string `json:"intent_id"`

	// Status is the intent status at last projection.
	Status IntentStatus `json:"status"`

	// Files maps relative path to the most recent touch time.
	Files map[string]time.Time `json:"files"`

	// UpdatedAt is the most recent trace timestamp folded in.
	UpdatedAt time.Time `json:"updated_at"`
}

// LessonEntry is one free-text lesson record in the knowledge log.
type LessonEntry struct {
	// Text is the lesson body.
	Text string `json:"text"`

	// Category is an optional grouping label.
	Category string `json:"category,omitempty"`

	// IntentID optionally links the lesson to an intent.
	IntentID string `json:"intent_id,omitempty"`

	// RecordedAt is when the lesson was captured.
	RecordedAt time.Time `json:"recorded_at"`
}

// OperationKind identifies a host-agent operation presented to the gate.
type OperationKind string

const (
	// OpWrite creates or replaces a file.
	OpWrite OperationKind = "write"

	// OpEdit modifies part of a file.
	OpEdit OperationKind = "edit"

	// OpPatch applies a patch to a file.
	OpPatch OperationKind = "patch"

	// OpExec runs a command. Mutating, but not file-targeted.
	OpExec OperationKind = "exec"

	// OpRead reads a file. Never gated.
	OpRead OperationKind = "read"

	// OpList lists directory contents. Never gated.
	OpList OperationKind = "list"

	// OpSearch searches file contents. Never gated.
	OpSearch OperationKind = "search"
)

// IsMutating reports whether the operation can alter workspace state.
func (k OperationKind) IsMutating() bool {
	switch k {
	case OpWrite, OpEdit, OpPatch, OpExec:
		return true
	}
	return false
}

// IsFileTargeted reports whether the operation names a file target that the
// staleness and scope checks apply to.
func (k OperationKind) IsFileTargeted() bool {
	switch k {
	case OpWrite, OpEdit, OpPatch:
		return true
	}
	return false
}

// Outcome is the caller-reported result of an executed operation.
type Outcome string

const (
	// OutcomeSuccess means the operation completed.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure means the operation did not complete.
	OutcomeFailure Outcome = "failure"
)

// ContextBundle is the consolidated guidance returned by intent selection.
type ContextBundle struct {
	// Intent is the selected intent.
	Intent Intent `json:"intent"`

	// Scope echoes the intent's owned patterns.
	Scope []string `json:"scope"`

	// Constraints echoes the intent's rules.
	Constraints []string `json:"constraints,omitempty"`

	// AcceptanceCriteria echoes the completion conditions.
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`

	// RecentTraces are the newest-first ledger entries referencing the
	// intent, bounded by the engine's history limit.
	RecentTraces []TraceEntry `json:"recent_traces,omitempty"`
}
