package types

import (
	"fmt"
	"strings"
)

// ErrorKind identifies a governance denial. Kinds are stable, machine-parseable
// tokens: an autonomous caller matches on Kind to decide its next action.
type ErrorKind string

const (
	// KindIntentNotSelected means a mutating operation was attempted with no
	// active intent. Recoverable: select or create an intent.
	KindIntentNotSelected ErrorKind = "IntentNotSelected"

	// KindIntentNotFound means the named intent is not in the registry.
	// Recoverable: the details list valid ids.
	KindIntentNotFound ErrorKind = "IntentNotFound"

	// KindIntentProtected means the intent is on the deny-list. Not
	// automatically recoverable; requires operator intervention.
	KindIntentProtected ErrorKind = "IntentProtected"

	// KindScopeViolation means the target falls outside the active intent's
	// owned scope. Recoverable: details name a covering intent if one exists.
	KindScopeViolation ErrorKind = "ScopeViolation"

	// KindStaleFile means the target changed since this session last observed
	// it. Recoverable: re-observe the target and retry.
	KindStaleFile ErrorKind = "StaleFile"

	// KindTargetMissing means a file-targeted operation named no target, so
	// neither the staleness nor the scope check could run. Recoverable:
	// retry with the target path.
	KindTargetMissing ErrorKind = "TargetMissing"

	// KindUserRejected means the operator declined the approval gate. Not
	// automatically recoverable.
	KindUserRejected ErrorKind = "UserRejected"

	// KindArchitectureMissing means the configured architecture artifact does
	// not exist. Recoverable: details name the missing path.
	KindArchitectureMissing ErrorKind = "ArchitectureMissing"

	// KindPlanningPrerequisiteMissing means the active intent lacks a required
	// planning artifact (acceptance criteria). Recoverable.
	KindPlanningPrerequisiteMissing ErrorKind = "PlanningPrerequisiteMissing"

	// KindGovernanceInternal means the gate itself failed (unreadable sidecar
	// store, broken validator). Pre-check fails closed on this kind: the
	// default for "the validator errored" is deny, decided once here.
	KindGovernanceInternal ErrorKind = "GovernanceInternal"
)

// GovernanceError is the structured denial returned by every failed gate
// check. Every field exists so an autonomous caller can self-correct without
// external help; a vague denial is a defect.
type GovernanceError struct {
	// Kind is the stable error token.
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable summary.
	Message string `json:"message"`

	// Details carries kind-specific context (valid ids, covering intent,
	// expected/actual digests, missing artifact path).
	Details map[string]any `json:"details,omitempty"`

	// Recoverable reports whether the caller can retry after remediation
	// without operator involvement.
	Recoverable bool `json:"recoverable"`

	// SuggestedAction names the exact remediation.
	SuggestedAction string `json:"suggested_action"`
}

// Error implements the error interface.
func (e *GovernanceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.SuggestedAction != "" {
		fmt.Fprintf(&b, " (%s)", e.SuggestedAction)
	}
	return b.String()
}

// Is supports errors.Is matching against another GovernanceError by Kind.
func (e *GovernanceError) Is(target error) bool {
	ge, ok := target.(*GovernanceError)
	return ok && ge.Kind == e.Kind
}

// NewIntentNotSelected builds the denial for a gated operation with no
// active intent.
func NewIntentNotSelected(op OperationKind) *GovernanceError {
	return &GovernanceError{
		Kind:        KindIntentNotSelected,
		Message:     fmt.Sprintf("mutating operation %q requires an active intent", op),
		Recoverable: true,
		SuggestedAction: "select an existing intent with 'ig intent select <id>' " +
			"or declare one with 'ig intent create'",
	}
}

// NewIntentNotFound builds the denial for an unknown intent id.
func NewIntentNotFound(id string, validIDs []string) *GovernanceError {
	return &GovernanceError{
		Kind:    KindIntentNotFound,
		Message: fmt.Sprintf("intent %q is not in the registry", id),
		Details: map[string]any{
			"intent_id": id,
			"valid_ids": validIDs,
		},
		Recoverable:     true,
		SuggestedAction: "select one of the listed valid ids or create a new intent",
	}
}

// NewIntentProtected builds the denial for a deny-listed intent.
func NewIntentProtected(id string) *GovernanceError {
	return &GovernanceError{
		Kind:            KindIntentProtected,
		Message:         fmt.Sprintf("intent %q is protected and cannot be selected or mutated", id),
		Details:         map[string]any{"intent_id": id},
		Recoverable:     false,
		SuggestedAction: "ask an operator to remove the id from protected.list if this is intentional",
	}
}

// NewScopeViolation builds the denial for an out-of-scope target.
// coveringIntent may be empty when no other intent owns the target.
func NewScopeViolation(target, intentID string, scope []string, coveringIntent string) *GovernanceError {
	ge := &GovernanceError{
		Kind:    KindScopeViolation,
		Message: fmt.Sprintf("target %q is outside the owned scope of intent %q", target, intentID),
		Details: map[string]any{
			"target":    target,
			"intent_id": intentID,
			"scope":     scope,
		},
		Recoverable: true,
	}
	if coveringIntent != "" {
		ge.Details["covering_intent"] = coveringIntent
		ge.SuggestedAction = fmt.Sprintf("select intent %q, whose scope covers this target", coveringIntent)
	} else {
		ge.SuggestedAction = "create a new intent whose owned_scope covers this target"
	}
	return ge
}

// NewStaleFile builds the denial for a target modified out-of-band since the
// session's last observation.
func NewStaleFile(target, expected, actual string) *GovernanceError {
	return &GovernanceError{
		Kind:    KindStaleFile,
		Message: fmt.Sprintf("target %q changed since this session last observed it", target),
		Details: map[string]any{
			"target":          target,
			"expected_digest": expected,
			"actual_digest":   actual,
		},
		Recoverable:     true,
		SuggestedAction: "re-read the target, call observe to refresh the baseline, then retry",
	}
}

// NewTargetMissing builds the denial for a file-targeted operation that
// named no target path.
func NewTargetMissing(op OperationKind) *GovernanceError {
	return &GovernanceError{
		Kind:            KindTargetMissing,
		Message:         fmt.Sprintf("file-targeted operation %q named no target path", op),
		Details:         map[string]any{"operation": string(op)},
		Recoverable:     true,
		SuggestedAction: "retry with the workspace-relative path of the file being modified",
	}
}

// NewUserRejected builds the denial for a declined approval gate.
func NewUserRejected(intentID string) *GovernanceError {
	return &GovernanceError{
		Kind:            KindUserRejected,
		Message:         fmt.Sprintf("operator rejected the first mutation under intent %q", intentID),
		Details:         map[string]any{"intent_id": intentID},
		Recoverable:     false,
		SuggestedAction: "request a new approval with 'ig approve' or take an alternative approach",
	}
}

// NewArchitectureMissing builds the denial for a missing architecture artifact.
func NewArchitectureMissing(path string) *GovernanceError {
	return &GovernanceError{
		Kind:            KindArchitectureMissing,
		Message:         fmt.Sprintf("architecture document %q does not exist", path),
		Details:         map[string]any{"artifact": path},
		Recoverable:     true,
		SuggestedAction: fmt.Sprintf("write %s before mutating, or disable policy.require_planning", path),
	}
}

// NewGovernanceInternal builds the fail-closed denial for an engine-internal
// failure during a pre-check.
func NewGovernanceInternal(stage string, err error) *GovernanceError {
	return &GovernanceError{
		Kind:            KindGovernanceInternal,
		Message:         fmt.Sprintf("governance check %q failed: %v", stage, err),
		Details:         map[string]any{"stage": stage},
		Recoverable:     true,
		SuggestedAction: "inspect the sidecar store under .agents/ig and retry",
	}
}

// NewPlanningPrerequisiteMissing builds the denial for an intent with no
// acceptance criteria while planning enforcement is on.
func NewPlanningPrerequisiteMissing(intentID string) *GovernanceError {
	return &GovernanceError{
		Kind:            KindPlanningPrerequisiteMissing,
		Message:         fmt.Sprintf("intent %q has no acceptance criteria", intentID),
		Details:         map[string]any{"intent_id": intentID, "artifact": "acceptance_criteria"},
		Recoverable:     true,
		SuggestedAction: "add acceptance_criteria to the intent before mutating under it",
	}
}
