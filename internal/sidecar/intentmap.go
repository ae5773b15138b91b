package sidecar

import (
	"io"
	"sort"
	"text/template"
	"time"

	"github.com/intentgate/cli/internal/types"
)

// RebuildIntentMap regenerates intent_map.md from the trace ledger and the
// registry. The map is a cache, never a source of truth: deleting it and
// calling this again produces the same document. Folding the latest trace
// event in is an idempotent upsert by intent id + path, so replaying the
// ledger any number of times converges on the same projection.
func (s *Store) RebuildIntentMap() error {
	entries, err := s.ScanTraces()
	if err != nil {
		return err
	}
	intents, err := s.LoadIntents()
	if err != nil {
		return err
	}

	statuses := make(map[string]types.IntentStatus, len(intents))
	names := make(map[string]string, len(intents))
	for _, in := range intents {
		statuses[in.ID] = in.Status
		names[in.ID] = in.Name
	}

	projected := projectMap(entries, statuses)

	return s.atomicWrite(s.IntentMapPath(), func(w io.Writer) error {
		return renderIntentMap(w, projected, names)
	})
}

// projectMap folds trace entries into per-intent map rows.
func projectMap(entries []types.TraceEntry, statuses map[string]types.IntentStatus) []types.MapEntry {
	byIntent := make(map[string]*types.MapEntry)

	for _, entry := range entries {
		intentID := entry.IntentID()
		if intentID == "" {
			continue
		}
		row, ok := byIntent[intentID]
		if !ok {
			row = &types.MapEntry{
				IntentID: intentID,
				Status:   statuses[intentID],
				Files:    make(map[string]time.Time),
			}
			byIntent[intentID] = row
		}
		for _, f := range entry.Files {
			if entry.Timestamp.After(row.Files[f.RelativePath]) {
				row.Files[f.RelativePath] = entry.Timestamp
			}
		}
		if entry.Timestamp.After(row.UpdatedAt) {
			row.UpdatedAt = entry.Timestamp
		}
	}

	rows := make([]types.MapEntry, 0, len(byIntent))
	for _, row := range byIntent {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		// Most recently active first; id as tiebreaker for stable output.
		if !rows[i].UpdatedAt.Equal(rows[j].UpdatedAt) {
			return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
		}
		return rows[i].IntentID < rows[j].IntentID
	})
	return rows
}

// intentMapTemplate renders the human-readable projection.
const intentMapTemplate = `# Intent Map

Generated projection of the trace ledger. Safe to delete; it will be rebuilt.
{{if not .Rows}}
No intents recorded yet.
{{end}}{{range .Rows}}
## {{.IntentID}}{{if .Name}} — {{.Name}}{{end}}

- Status: {{.Status}}
- Last activity: {{.Updated}}
- Files touched:
{{- range .Files}}
  - ` + "`{{.Path}}`" + ` ({{.Touched}})
{{- end}}
{{end}}`

type mapTemplateFile struct {
	Path    string
	Touched string
}

type mapTemplateRow struct {
	IntentID string
	Name     string
	Status   types.IntentStatus
	Updated  string
	Files    []mapTemplateFile
}

// renderIntentMap writes the markdown projection.
func renderIntentMap(w io.Writer, rows []types.MapEntry, names map[string]string) error {
	tmpl, err := template.New("intentmap").Parse(intentMapTemplate)
	if err != nil {
		return err
	}

	data := struct{ Rows []mapTemplateRow }{}
	for _, row := range rows {
		tr := mapTemplateRow{
			IntentID: row.IntentID,
			Name:     names[row.IntentID],
			Status:   row.Status,
			Updated:  row.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if tr.Status == "" {
			tr.Status = "(unregistered)"
		}

		paths := make([]string, 0, len(row.Files))
		for p := range row.Files {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			tr.Files = append(tr.Files, mapTemplateFile{
				Path:    p,
				Touched: row.Files[p].UTC().Format(time.RFC3339),
			})
		}
		data.Rows = append(data.Rows, tr)
	}

	return tmpl.Execute(w, data)
}
