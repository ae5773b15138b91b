package governance

import (
	"errors"
	"os"

	"github.com/intentgate/cli/internal/scope"
	"github.com/intentgate/cli/internal/sidecar"
	"github.com/intentgate/cli/internal/types"
)

// PreCheck runs the full pre-operation gate for one proposed operation and
// returns an explicit allow/deny decision. Check order is fixed: cheap
// structural checks first, then the planning gate, then the file checks
// (staleness before scope), then the one-time approval. The gate fails
// closed: any internal failure during a check denies the operation.
//
// target is the workspace-relative path for file-targeted operations and may
// be empty otherwise. approver may be nil when the approval gate should
// auto-reject.
func (e *Engine) PreCheck(op types.OperationKind, target string, session *Session, approver Approver) Decision {
	if !op.IsMutating() {
		return Allow()
	}

	if session.ActiveIntentID == "" {
		return DenyWith(types.NewIntentNotSelected(op))
	}

	intentID := session.ActiveIntentID

	protected, err := e.store.IsProtected(intentID)
	if err != nil {
		return denyInternal("protected-list", err)
	}
	if protected {
		return DenyWith(types.NewIntentProtected(intentID))
	}

	intent, err := e.store.GetIntent(intentID)
	if err != nil {
		if errors.Is(err, sidecar.ErrIntentNotFound) {
			ids, _ := e.store.IntentIDs()
			return DenyWith(types.NewIntentNotFound(intentID, ids))
		}
		return denyInternal("intent-registry", err)
	}

	if e.requirePlanning {
		if d := e.checkPlanning(intent); !d.Allowed {
			return d
		}
	}

	if op.IsFileTargeted() {
		// An empty target would skip straight past staleness and scope.
		if target == "" {
			return DenyWith(types.NewTargetMissing(op))
		}

		fresh := session.Guard.CheckFresh(target, func() ([]byte, error) {
			return e.readFile(target)
		})
		if !fresh.Fresh {
			return DenyWith(types.NewStaleFile(target, fresh.ExpectedDigest, fresh.ActualDigest))
		}

		if !scope.InScope(target, intent.OwnedScope) {
			covering := e.coveringIntent(target, intentID)
			return DenyWith(types.NewScopeViolation(target, intentID, intent.OwnedScope, covering))
		}
	}

	if !session.IsApproved(intentID) {
		if approver == nil {
			return DenyWith(types.NewUserRejected(intentID))
		}
		ok, err := approver.Approve(*intent, op, target)
		if err != nil {
			return denyInternal("approval", err)
		}
		if !ok {
			return DenyWith(types.NewUserRejected(intentID))
		}
		session.MarkApproved(intentID)
	}

	return Allow()
}

// checkPlanning enforces the upstream-artifact prerequisites.
func (e *Engine) checkPlanning(intent *types.Intent) Decision {
	if e.architectureDoc != "" {
		if _, err := os.Stat(e.architectureDoc); err != nil {
			if os.IsNotExist(err) {
				return DenyWith(types.NewArchitectureMissing(e.architectureDoc))
			}
			return denyInternal("architecture-doc", err)
		}
	}
	if len(intent.AcceptanceCriteria) == 0 {
		return DenyWith(types.NewPlanningPrerequisiteMissing(intent.ID))
	}
	return Allow()
}

// coveringIntent names another registered intent whose scope covers the
// target, for the scope-violation suggestion. Best effort: registry read
// failures yield no suggestion rather than masking the violation.
func (e *Engine) coveringIntent(target, excludeID string) string {
	intents, err := e.store.LoadIntents()
	if err != nil {
		return ""
	}
	order := make([]string, 0, len(intents))
	scopes := make(map[string][]string, len(intents))
	for _, in := range intents {
		if in.ID == excludeID {
			continue
		}
		order = append(order, in.ID)
		scopes[in.ID] = in.OwnedScope
	}
	return scope.CoveringIntentID(target, order, scopes)
}
