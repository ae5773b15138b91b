package sidecar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/intentgate/cli/internal/types"
)

// ErrIntentExists is returned when adding an intent whose id is taken.
var ErrIntentExists = errors.New("intent id already exists")

// ErrIntentNotFound is returned when a registry lookup misses.
var ErrIntentNotFound = errors.New("intent not found")

// ErrInvalidTransition is returned for a disallowed status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// registryDoc is the on-disk shape of intents.yaml. Unknown top-level keys
// in the document are ignored on load, keeping the schema future-extensible.
type registryDoc struct {
	Version int            `yaml:"version"`
	Intents []types.Intent `yaml:"intents"`
}

// registryVersion is the current intents.yaml schema version.
const registryVersion = 1

// LoadIntents reads the full registry. A missing file yields an empty
// registry rather than an error.
func (s *Store) LoadIntents() ([]types.Intent, error) {
	data, err := os.ReadFile(s.IntentsPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read intent registry: %w", err)
	}

	var doc registryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse intent registry: %w", err)
	}
	return doc.Intents, nil
}

// GetIntent looks up one intent by id.
func (s *Store) GetIntent(id string) (*types.Intent, error) {
	intents, err := s.LoadIntents()
	if err != nil {
		return nil, err
	}
	for i := range intents {
		if intents[i].ID == id {
			return &intents[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, id)
}

// IntentIDs returns every registered id, in registry order.
func (s *Store) IntentIDs() ([]string, error) {
	intents, err := s.LoadIntents()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(intents))
	for _, in := range intents {
		ids = append(ids, in.ID)
	}
	return ids, nil
}

// AddIntent appends a new intent to the registry. The id must be unique.
func (s *Store) AddIntent(intent types.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.LoadIntents()
	if err != nil {
		return err
	}
	for _, existing := range intents {
		if existing.ID == intent.ID {
			return fmt.Errorf("%w: %s", ErrIntentExists, intent.ID)
		}
	}

	intents = append(intents, intent)
	return s.saveIntents(intents)
}

// UpdateIntentStatus applies a validated status transition and bumps
// updated_at. The timestamp never moves backward, even if the caller's clock
// does. Intents are never deleted, only transitioned.
func (s *Store) UpdateIntentStatus(id string, to types.IntentStatus, now time.Time) (*types.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.LoadIntents()
	if err != nil {
		return nil, err
	}

	for i := range intents {
		if intents[i].ID != id {
			continue
		}
		from := intents[i].Status
		if from == to {
			return &intents[i], nil
		}
		if !types.ValidTransition(from, to) {
			return nil, fmt.Errorf("%w: %s -> %s for %s", ErrInvalidTransition, from, to, id)
		}
		intents[i].Status = to
		if now.After(intents[i].UpdatedAt) {
			intents[i].UpdatedAt = now
		}
		if err := s.saveIntents(intents); err != nil {
			return nil, err
		}
		return &intents[i], nil
	}

	return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, id)
}

// saveIntents atomically replaces the registry document. Callers hold s.mu;
// concurrent sessions get last-writer-wins semantics, which the small,
// human-reviewable registry tolerates.
func (s *Store) saveIntents(intents []types.Intent) error {
	if intents == nil {
		intents = []types.Intent{}
	}
	doc := registryDoc{Version: registryVersion, Intents: intents}

	return s.atomicWrite(s.IntentsPath(), func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	})
}
