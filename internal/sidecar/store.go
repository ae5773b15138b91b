// Package sidecar owns the durable, machine-owned record set that the
// governance engine reads and writes: the intent registry, the append-only
// trace ledger, the human-readable intent map, the shared knowledge log, and
// the protected-intent deny list.
//
// Durability model: every write is one complete record. Documents are
// replaced via temp-file-and-rename; ledger lines are single O_APPEND
// writes. Multiple sessions may share one store — registry updates are
// read-modify-write with last-writer-wins, which is acceptable because the
// registry is small and human-reviewable.
package sidecar

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// DefaultBaseDir is the default sidecar directory, workspace-relative.
	DefaultBaseDir = ".agents/ig"

	// IntentsFile is the structured intent registry document.
	IntentsFile = "intents.yaml"

	// TraceFile is the newline-delimited trace ledger.
	TraceFile = "trace.log"

	// IntentMapFile is the regenerable markdown projection.
	IntentMapFile = "intent_map.md"

	// KnowledgeFile is the append-only lessons log.
	KnowledgeFile = "knowledge.md"

	// ProtectedFile is the newline-delimited protected intent list.
	ProtectedFile = "protected.list"

	// SessionsDir holds caller-owned session state files (the engine never
	// reads these; they belong to multi-process callers like the hook
	// adapter).
	SessionsDir = "sessions"
)

// Store is the file-backed sidecar store.
type Store struct {
	// BaseDir is the sidecar root (e.g., .agents/ig).
	BaseDir string

	mu  sync.Mutex
	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBaseDir sets the sidecar root directory.
func WithBaseDir(dir string) Option {
	return func(s *Store) { s.BaseDir = dir }
}

// WithLogger sets the logger used for swallowed bookkeeping problems.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a store handle. Call Init before first use to materialize the
// directory and empty defaults.
func New(opts ...Option) *Store {
	s := &Store{
		BaseDir: DefaultBaseDir,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the sidecar directory and every missing file with a sensible
// empty default. Idempotent: existing files are left untouched.
func (s *Store) Init() error {
	dirs := []string{
		s.BaseDir,
		filepath.Join(s.BaseDir, SessionsDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	defaults := []struct {
		name    string
		content string
	}{
		{IntentsFile, emptyRegistryYAML},
		{TraceFile, ""},
		{IntentMapFile, emptyIntentMap},
		{KnowledgeFile, emptyKnowledge},
		{ProtectedFile, emptyProtected},
	}
	for _, d := range defaults {
		path := filepath.Join(s.BaseDir, d.name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := s.atomicWrite(path, func(w io.Writer) error {
			_, werr := io.WriteString(w, d.content)
			return werr
		}); err != nil {
			return fmt.Errorf("seed %s: %w", d.name, err)
		}
	}

	return nil
}

// IntentsPath returns the full path to the intent registry.
func (s *Store) IntentsPath() string { return filepath.Join(s.BaseDir, IntentsFile) }

// TracePath returns the full path to the trace ledger.
func (s *Store) TracePath() string { return filepath.Join(s.BaseDir, TraceFile) }

// IntentMapPath returns the full path to the intent map projection.
func (s *Store) IntentMapPath() string { return filepath.Join(s.BaseDir, IntentMapFile) }

// KnowledgePath returns the full path to the knowledge log.
func (s *Store) KnowledgePath() string { return filepath.Join(s.BaseDir, KnowledgeFile) }

// ProtectedPath returns the full path to the protected list.
func (s *Store) ProtectedPath() string { return filepath.Join(s.BaseDir, ProtectedFile) }

// SessionsPath returns the directory holding caller session state files.
func (s *Store) SessionsPath() string { return filepath.Join(s.BaseDir, SessionsDir) }

// atomicWrite writes to a temp file in the target directory and renames it
// into place, so readers never see a partial document.
func (s *Store) atomicWrite(path string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath) //nolint:errcheck // cleanup in error path
		}
	}()

	if err := writeFunc(tmpFile); err != nil {
		_ = tmpFile.Close() //nolint:errcheck // cleanup in error path
		return fmt.Errorf("write content: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close() //nolint:errcheck // cleanup in error path
		return fmt.Errorf("sync file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to final: %w", err)
	}

	success = true
	return nil
}

// appendLine appends one complete record plus newline in a single write, so
// concurrent appenders cannot interleave inside a record.
func (s *Store) appendLine(path string, record []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // sync already called, close best-effort
	}()

	if _, err := f.Write(append(record, '\n')); err != nil {
		return fmt.Errorf("write line: %w", err)
	}

	return f.Sync()
}

const emptyRegistryYAML = `version: 1
intents: []
`

const emptyIntentMap = `# Intent Map

Generated projection of the trace ledger. Safe to delete; it will be rebuilt.

No intents recorded yet.
`

const emptyKnowledge = `# Knowledge

## Lessons Learned
`

const emptyProtected = `# Protected intent ids, one per line. Lines starting with # are comments.
`
