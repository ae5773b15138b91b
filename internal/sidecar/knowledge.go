package sidecar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/intentgate/cli/internal/types"
)

// lessonsHeading is the fixed section new lessons are inserted beneath.
const lessonsHeading = "## Lessons Learned"

// AppendLesson inserts a lesson immediately beneath the Lessons Learned
// heading, newest first. The knowledge log is purely additive and never
// replayed for gating decisions.
func (s *Store) AppendLesson(lesson types.LessonEntry) error {
	if strings.TrimSpace(lesson.Text) == "" {
		return fmt.Errorf("lesson text must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.KnowledgePath())
	if os.IsNotExist(err) {
		data = []byte(emptyKnowledge)
	} else if err != nil {
		return fmt.Errorf("read knowledge log: %w", err)
	}

	doc := insertLesson(string(data), formatLesson(lesson))
	return s.atomicWrite(s.KnowledgePath(), func(w io.Writer) error {
		_, werr := io.WriteString(w, doc)
		return werr
	})
}

// formatLesson renders one lesson as a single markdown bullet.
func formatLesson(lesson types.LessonEntry) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(lesson.RecordedAt.UTC().Format("2006-01-02"))
	if lesson.Category != "" {
		fmt.Fprintf(&b, " [%s]", lesson.Category)
	}
	if lesson.IntentID != "" {
		fmt.Fprintf(&b, " (%s)", lesson.IntentID)
	}
	b.WriteString(": ")
	b.WriteString(strings.TrimSpace(lesson.Text))
	return b.String()
}

// insertLesson places the entry line immediately beneath the Lessons Learned
// heading, creating the heading when the document lacks one.
func insertLesson(doc, entry string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != lessonsHeading {
			continue
		}
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:i+1]...)
		out = append(out, entry)
		out = append(out, lines[i+1:]...)
		return strings.Join(out, "\n")
	}

	// No heading present (hand-edited file): append the section.
	doc = strings.TrimRight(doc, "\n")
	if doc != "" {
		doc += "\n\n"
	}
	return doc + lessonsHeading + "\n" + entry + "\n"
}
