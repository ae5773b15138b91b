package sidecar

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/intentgate/cli/internal/types"
)

func TestRebuildIntentMapFromLedger(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	if err := s.AddIntent(sampleIntent("INT-001")); err != nil {
		t.Fatalf("AddIntent: %v", err)
	}
	if err := s.AppendTrace(sampleTrace("te-1", "INT-001", "src/auth/mw.ts", base)); err != nil {
		t.Fatalf("AppendTrace: %v", err)
	}
	if err := s.AppendTrace(sampleTrace("te-2", "INT-001", "src/auth/session.ts", base.Add(time.Minute))); err != nil {
		t.Fatalf("AppendTrace: %v", err)
	}

	if err := s.RebuildIntentMap(); err != nil {
		t.Fatalf("RebuildIntentMap: %v", err)
	}

	data, err := os.ReadFile(s.IntentMapPath())
	if err != nil {
		t.Fatalf("read map: %v", err)
	}
	doc := string(data)

	for _, want := range []string{"INT-001", "src/auth/mw.ts", "src/auth/session.ts", "TODO", "refactor auth middleware"} {
		if !strings.Contains(doc, want) {
			t.Errorf("intent map missing %q:\n%s", want, doc)
		}
	}
}

func TestIntentMapUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	if err := s.AppendTrace(sampleTrace("te-1", "INT-001", "src/a.ts", base)); err != nil {
		t.Fatalf("AppendTrace: %v", err)
	}

	if err := s.RebuildIntentMap(); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	first, err := os.ReadFile(s.IntentMapPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if err := s.RebuildIntentMap(); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	second, err := os.ReadFile(s.IntentMapPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if string(first) != string(second) {
		t.Error("rebuilding with the same ledger changed the projection")
	}
}

func TestIntentMapIsRegenerableAfterDeletion(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	if err := s.AppendTrace(sampleTrace("te-1", "INT-001", "src/a.ts", base)); err != nil {
		t.Fatalf("AppendTrace: %v", err)
	}
	if err := s.RebuildIntentMap(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	want, err := os.ReadFile(s.IntentMapPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// The map is a cache: delete it and rebuild from the ledger.
	if err := os.Remove(s.IntentMapPath()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RebuildIntentMap(); err != nil {
		t.Fatalf("rebuild after delete: %v", err)
	}
	got, err := os.ReadFile(s.IntentMapPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if string(got) != string(want) {
		t.Error("regenerated map differs from the original projection")
	}
}

func TestProjectMapKeepsLatestTouchPerFile(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)

	entries := []types.TraceEntry{
		sampleTrace("te-1", "INT-001", "src/a.ts", base),
		sampleTrace("te-2", "INT-001", "src/a.ts", later),
	}

	rows := projectMap(entries, map[string]types.IntentStatus{"INT-001": types.StatusInProgress})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Files["src/a.ts"].Equal(later) {
		t.Errorf("file touch = %v, want %v", rows[0].Files["src/a.ts"], later)
	}
	if !rows[0].UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", rows[0].UpdatedAt, later)
	}
	if rows[0].Status != types.StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", rows[0].Status)
	}
}

func TestEmptyLedgerRendersPlaceholder(t *testing.T) {
	s := newTestStore(t)
	if err := s.RebuildIntentMap(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	data, err := os.ReadFile(s.IntentMapPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "No intents recorded yet.") {
		t.Errorf("empty projection missing placeholder:\n%s", data)
	}
}
