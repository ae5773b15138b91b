package sidecar

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/intentgate/cli/internal/types"
)

func sampleIntent(id string) types.Intent {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	return types.Intent{
		ID:                 id,
		Name:               "refactor auth middleware",
		Status:             types.StatusTodo,
		OwnedScope:         []string{"src/auth/**"},
		Constraints:        []string{"no new dependencies"},
		AcceptanceCriteria: []string{"tests pass"},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestAddAndGetIntent(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddIntent(sampleIntent("INT-001")); err != nil {
		t.Fatalf("AddIntent: %v", err)
	}

	got, err := s.GetIntent("INT-001")
	if err != nil {
		t.Fatalf("GetIntent: %v", err)
	}
	if got.Name != "refactor auth middleware" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Status != types.StatusTodo {
		t.Errorf("Status = %s, want TODO", got.Status)
	}
	if len(got.OwnedScope) != 1 || got.OwnedScope[0] != "src/auth/**" {
		t.Errorf("OwnedScope = %v", got.OwnedScope)
	}
}

func TestAddIntentRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddIntent(sampleIntent("INT-001")); err != nil {
		t.Fatalf("first AddIntent: %v", err)
	}
	err := s.AddIntent(sampleIntent("INT-001"))
	if !errors.Is(err, ErrIntentExists) {
		t.Errorf("duplicate add error = %v, want ErrIntentExists", err)
	}
}

func TestGetIntentMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetIntent("INT-404"); !errors.Is(err, ErrIntentNotFound) {
		t.Errorf("error = %v, want ErrIntentNotFound", err)
	}
}

func TestUpdateIntentStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		to      types.IntentStatus
		wantErr bool
	}{
		{"todo to in_progress", types.StatusInProgress, false},
		{"todo to blocked", types.StatusBlocked, false},
		{"todo to done is invalid", types.StatusDone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := s.AddIntent(sampleIntent("INT-001")); err != nil {
				t.Fatalf("AddIntent: %v", err)
			}

			_, err := s.UpdateIntentStatus("INT-001", tt.to, time.Now())
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("error = %v, want ErrInvalidTransition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateIntentStatus: %v", err)
			}
			got, err := s.GetIntent("INT-001")
			if err != nil {
				t.Fatalf("GetIntent: %v", err)
			}
			if got.Status != tt.to {
				t.Errorf("Status = %s, want %s", got.Status, tt.to)
			}
		})
	}
}

func TestUpdatedAtNeverMovesBackward(t *testing.T) {
	s := newTestStore(t)
	intent := sampleIntent("INT-001")
	if err := s.AddIntent(intent); err != nil {
		t.Fatalf("AddIntent: %v", err)
	}

	past := intent.UpdatedAt.Add(-time.Hour)
	updated, err := s.UpdateIntentStatus("INT-001", types.StatusInProgress, past)
	if err != nil {
		t.Fatalf("UpdateIntentStatus: %v", err)
	}
	if updated.UpdatedAt.Before(intent.UpdatedAt) {
		t.Errorf("UpdatedAt moved backward: %v -> %v", intent.UpdatedAt, updated.UpdatedAt)
	}
}

func TestRegistryToleratesUnknownTopLevelKeys(t *testing.T) {
	s := newTestStore(t)

	doc := `version: 1
future_extension:
  some: value
intents:
  - id: INT-001
    name: seeded
    status: TODO
    owned_scope:
      - src/**
    created_at: 2026-08-28T09:00:00Z
    updated_at: 2026-08-28T09:00:00Z
`
	if err := os.WriteFile(s.IntentsPath(), []byte(doc), 0600); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	intents, err := s.LoadIntents()
	if err != nil {
		t.Fatalf("LoadIntents with unknown key: %v", err)
	}
	if len(intents) != 1 || intents[0].ID != "INT-001" {
		t.Errorf("intents = %+v, want the single seeded intent", intents)
	}
}

func TestIntentIDs(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"INT-001", "INT-002"} {
		if err := s.AddIntent(sampleIntent(id)); err != nil {
			t.Fatalf("AddIntent(%s): %v", id, err)
		}
	}

	ids, err := s.IntentIDs()
	if err != nil {
		t.Fatalf("IntentIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "INT-001" || ids[1] != "INT-002" {
		t.Errorf("ids = %v", ids)
	}
}
