package governance

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/intentgate/cli/internal/classify"
	"github.com/intentgate/cli/internal/contenthash"
	"github.com/intentgate/cli/internal/scope"
	"github.com/intentgate/cli/internal/types"
)

// LineRange is a caller-supplied changed block for post-operation recording.
type LineRange struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// PostRecord captures the outcome of an executed operation: one ledger entry,
// a refreshed staleness baseline, an intent-map upsert, and the TODO ->
// IN_PROGRESS promotion on the intent's first recorded change.
//
// Recording is best effort and never returns an error. A mutation that
// already happened cannot be un-happened by a bookkeeping failure, so every
// internal error here is logged and swallowed. That asymmetry with PreCheck
// (which fails closed) is deliberate.
//
// ranges optionally names the changed blocks; when empty, the whole file is
// hashed as a single range.
func (e *Engine) PostRecord(op types.OperationKind, target string, outcome types.Outcome, ranges []LineRange, session *Session) {
	if !op.IsMutating() || outcome != types.OutcomeSuccess {
		return
	}
	if session.ActiveIntentID == "" {
		// Nothing slipped past the gate: non-file mutations with no intent
		// are simply not attributable, so there is nothing to record.
		return
	}

	intentID := session.ActiveIntentID
	now := e.now()

	entry := types.TraceEntry{
		ID:            uuid.NewString(),
		Timestamp:     now,
		RevisionID:    e.revision(),
		MutationClass: types.ClassASTRefactor,
		Related: []types.TraceRelated{
			{Type: types.RelatedTypeIntent, Value: intentID},
		},
	}

	if op.IsFileTargeted() && target != "" {
		content, err := e.readFile(target)
		if err != nil {
			e.log.Warn("post-record read failed",
				slog.String("target", target),
				slog.String("error", err.Error()))
			content = nil
		}

		result := e.classifyChange(target, content, session)
		entry.MutationClass = result.Class

		entry.Files = []types.TraceFile{{
			RelativePath: scope.Normalize(target),
			Ranges:       e.hashRanges(content, ranges),
		}}

		// Our own write becomes the new baseline, so the next gate check
		// compares against what this session just produced.
		session.Guard.RecordObservation(target, content)
	}

	if err := e.store.AppendTrace(entry); err != nil {
		e.log.Warn("trace append failed", slog.String("error", err.Error()))
	}

	e.promoteOnFirstChange(intentID, now)

	if err := e.store.RebuildIntentMap(); err != nil {
		e.log.Warn("intent map rebuild failed", slog.String("error", err.Error()))
	}
}

// classifyChange labels the change at target against what the session's
// guard retained. The guard can know a file existed (its digest survives
// both persistence and the retention cap) while the bytes themselves are
// gone; that is not the same as a new file, so it gets its own low-confidence
// verdict instead of the classifier's "new content" label.
func (e *Engine) classifyChange(target string, content []byte, session *Session) classify.Result {
	prev, prevSeen := session.Guard.Lookup(target)
	if prevSeen && prev.Content == nil && prev.Digest != contenthash.Digest(nil) {
		e.log.Debug("classifying without prior content",
			slog.String("target", target),
			slog.String("prior_digest", prev.Digest))
		return classify.Result{
			Class:      types.ClassIntentEvolution,
			Confidence: classify.ConfidenceLow,
			Reason:     "prior content unavailable",
			Similarity: -1,
		}
	}
	return e.classifier.Classify(prev.Content, prevSeen && prev.Content != nil, content)
}

// hashRanges digests the caller's changed blocks, or the whole content when
// no ranges were supplied. Block hashes cover bytes only, so an unchanged
// block keeps its hash wherever it moves.
func (e *Engine) hashRanges(content []byte, ranges []LineRange) []types.TraceRange {
	if len(ranges) == 0 {
		lines := countContentLines(content)
		return []types.TraceRange{{
			StartLine:   1,
			EndLine:     lines,
			ContentHash: contenthash.Digest(content),
		}}
	}

	out := make([]types.TraceRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, types.TraceRange{
			StartLine:   r.StartLine,
			EndLine:     r.EndLine,
			ContentHash: contenthash.DigestLines(content, r.StartLine, r.EndLine),
		})
	}
	return out
}

// promoteOnFirstChange moves a TODO intent to IN_PROGRESS. Any other status
// is left alone; transition validation lives in the store.
func (e *Engine) promoteOnFirstChange(intentID string, now time.Time) {
	intent, err := e.store.GetIntent(intentID)
	if err != nil {
		e.log.Warn("promotion lookup failed",
			slog.String("intent", intentID),
			slog.String("error", err.Error()))
		return
	}
	if intent.Status != types.StatusTodo {
		return
	}
	if _, err := e.store.UpdateIntentStatus(intentID, types.StatusInProgress, now); err != nil {
		e.log.Warn("promotion failed",
			slog.String("intent", intentID),
			slog.String("error", err.Error()))
	}
}

// countContentLines counts lines the way the line slicer does: a trailing
// newline does not open a new line.
func countContentLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	if content[len(content)-1] == '\n' {
		n--
	}
	return n
}
