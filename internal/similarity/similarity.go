// Package similarity scores how close two text blobs are, feeding the
// mutation classifier. Scores are normalized edit distance: 1.0 means
// identical after whitespace normalization, 0.0 means maximally dissimilar.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Score returns the similarity of a and b in [0.0, 1.0].
//
// Both inputs are whitespace-normalized, then the minimum number of
// character edits (insert, delete, substitute) between them is computed and
// scaled: 1 - distance/max(len(a), len(b)). Cost grows with the product of
// the input lengths, so callers must cap input size or pre-slice to the
// changed region.
//
// Edge cases: empty-vs-empty is 1.0, empty-vs-nonempty is 0.0.
func Score(a, b string) float64 {
	a = NormalizeWhitespace(a)
	b = NormalizeWhitespace(b)

	if a == b {
		return 1.0
	}

	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 1.0
	}
	if lenA == 0 || lenB == 0 {
		return 0.0
	}

	dist := editDistance(a, b)
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0.0
	}
	return score
}

// editDistance computes the character-level Levenshtein distance over a
// minimal diff of the two strings.
func editDistance(a, b string) int {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // never give up early; results must be deterministic
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims the ends. Two blobs that differ only in layout normalize to the
// same string.
func NormalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
