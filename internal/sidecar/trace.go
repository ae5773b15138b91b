package sidecar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/intentgate/cli/internal/types"
)

// traceScanBuffer bounds a single ledger line. Entries list file ranges and
// hashes, not content, so this is generous.
const traceScanBuffer = 1 << 20

// AppendTrace appends one immutable entry to the ledger. There is no API to
// rewrite or remove entries; the ledger only ever grows.
func (s *Store) AppendTrace(entry types.TraceEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal trace entry: %w", err)
	}
	return s.appendLine(s.TracePath(), data)
}

// ScanTraces reads every parseable ledger entry in append order. A corrupt
// individual line is logged and skipped, never fatal: one bad record must
// not hide the history around it.
func (s *Store) ScanTraces() (entries []types.TraceEntry, err error) {
	f, err := os.Open(s.TracePath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open trace ledger: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	lineNo := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64<<10), traceScanBuffer)
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry types.TraceEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			s.log.Warn("skipping corrupt trace line",
				slog.Int("line", lineNo),
				slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// RecentTracesForIntent returns up to limit entries referencing the intent,
// newest first.
func (s *Store) RecentTracesForIntent(intentID string, limit int) ([]types.TraceEntry, error) {
	all, err := s.ScanTraces()
	if err != nil {
		return nil, err
	}

	var matched []types.TraceEntry
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].IntentID() != intentID {
			continue
		}
		matched = append(matched, all[i])
		if limit > 0 && len(matched) >= limit {
			break
		}
	}
	return matched, nil
}

// TraceCount returns the number of parseable ledger entries.
func (s *Store) TraceCount() (int, error) {
	entries, err := s.ScanTraces()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
