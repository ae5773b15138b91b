package governance

import (
	"github.com/intentgate/cli/internal/types"
)

// Decision is the explicit allow/deny result of a pre-check. Denials always
// carry the structured error; there is no third state. When a validator
// itself fails, the pre-check denies (fail closed) — that default is decided
// here once, not per call site.
type Decision struct {
	// Allowed is true when the operation may proceed.
	Allowed bool `json:"allowed"`

	// Deny is the structured denial, nil when allowed.
	Deny *types.GovernanceError `json:"deny,omitempty"`
}

// Allow is the passing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// DenyWith wraps a structured denial.
func DenyWith(err *types.GovernanceError) Decision {
	return Decision{Allowed: false, Deny: err}
}

// denyInternal is the fail-closed path for engine-internal errors.
func denyInternal(stage string, err error) Decision {
	return DenyWith(types.NewGovernanceInternal(stage, err))
}
