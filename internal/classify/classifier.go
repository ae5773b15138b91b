// Package classify labels a recorded code change as a structure-preserving
// refactor or a functional evolution.
//
// The classifier is a heuristic, not a ground-truth oracle: misclassifying
// rare cases is acceptable, but it never fails and always returns one of the
// two classes.
package classify

import (
	"strings"

	"github.com/intentgate/cli/internal/similarity"
	"github.com/intentgate/cli/internal/types"
)

// Confidence grades how sure the classifier is about its label.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the classifier's verdict on one change.
type Result struct {
	// Class is the mutation label.
	Class types.MutationClass `json:"class"`

	// Confidence grades the verdict.
	Confidence Confidence `json:"confidence"`

	// Reason is a short human-readable explanation.
	Reason string `json:"reason"`

	// Similarity is the computed score when the decision reached that step,
	// -1 otherwise.
	Similarity float64 `json:"similarity"`
}

// Thresholds are the tunable decision constants. They are heuristics with no
// formal derivation; treat them as parameters, not invariants.
type Thresholds struct {
	// HighSimilarity is the score above which a change is presumed
	// structural.
	HighSimilarity float64 `yaml:"high_similarity" json:"high_similarity"`

	// VeryHighSimilarity upgrades a structural verdict to high confidence.
	VeryHighSimilarity float64 `yaml:"very_high_similarity" json:"very_high_similarity"`

	// LineCountRatio is the proportional line-count change above which a
	// textually similar diff is still treated as feature-shaped.
	LineCountRatio float64 `yaml:"line_count_ratio" json:"line_count_ratio"`

	// GrowthRatio is the byte-length growth above which a dissimilar change
	// is treated as an evolution.
	GrowthRatio float64 `yaml:"growth_ratio" json:"growth_ratio"`

	// LowSimilarity is the score below which the fallback verdict is
	// evolution rather than refactor.
	LowSimilarity float64 `yaml:"low_similarity" json:"low_similarity"`

	// MaxInputBytes caps how much of each blob feeds the edit-distance
	// computation, bounding its quadratic cost on large files.
	MaxInputBytes int `yaml:"max_input_bytes" json:"max_input_bytes"`
}

// DefaultThresholds returns the stock decision constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighSimilarity:     0.8,
		VeryHighSimilarity: 0.9,
		LineCountRatio:     0.3,
		GrowthRatio:        0.5,
		LowSimilarity:      0.5,
		MaxInputBytes:      64 << 10,
	}
}

// Classifier labels changes using a fixed, ordered decision policy.
type Classifier struct {
	thresholds Thresholds
}

// New creates a classifier. Zero-valued threshold fields fall back to the
// defaults.
func New(t Thresholds) *Classifier {
	def := DefaultThresholds()
	if t.HighSimilarity == 0 {
		t.HighSimilarity = def.HighSimilarity
	}
	if t.VeryHighSimilarity == 0 {
		t.VeryHighSimilarity = def.VeryHighSimilarity
	}
	if t.LineCountRatio == 0 {
		t.LineCountRatio = def.LineCountRatio
	}
	if t.GrowthRatio == 0 {
		t.GrowthRatio = def.GrowthRatio
	}
	if t.LowSimilarity == 0 {
		t.LowSimilarity = def.LowSimilarity
	}
	if t.MaxInputBytes == 0 {
		t.MaxInputBytes = def.MaxInputBytes
	}
	return &Classifier{thresholds: t}
}

// Classify decides whether the change from previous to next is a refactor or
// an evolution. previousKnown is false when there was no prior content (new
// file).
func (c *Classifier) Classify(previous []byte, previousKnown bool, next []byte) Result {
	t := c.thresholds

	// 1. No prior content: everything new is an evolution.
	if !previousKnown || len(strings.TrimSpace(string(previous))) == 0 {
		return Result{
			Class:      types.ClassIntentEvolution,
			Confidence: ConfidenceHigh,
			Reason:     "new content",
			Similarity: -1,
		}
	}

	prev := string(previous)
	curr := string(next)

	// 2. Layout-only change.
	if similarity.NormalizeWhitespace(prev) == similarity.NormalizeWhitespace(curr) {
		return Result{
			Class:      types.ClassASTRefactor,
			Confidence: ConfidenceHigh,
			Reason:     "no semantic change",
			Similarity: 1,
		}
	}

	sim := similarity.Score(truncate(prev, t.MaxInputBytes), truncate(curr, t.MaxInputBytes))

	// 3. Textually close changes are structural unless the shape shifted.
	if sim > t.HighSimilarity {
		if lineCountRatio(prev, curr) > t.LineCountRatio {
			return Result{
				Class:      types.ClassIntentEvolution,
				Confidence: ConfidenceMedium,
				Reason:     "small diff with substantial line count change",
				Similarity: sim,
			}
		}
		conf := ConfidenceMedium
		if sim > t.VeryHighSimilarity {
			conf = ConfidenceHigh
		}
		return Result{
			Class:      types.ClassASTRefactor,
			Confidence: conf,
			Reason:     "high textual similarity",
			Similarity: sim,
		}
	}

	// 4. Dissimilar text that introduces declarations is feature work.
	if CountDeclarations(curr) > CountDeclarations(prev) {
		return Result{
			Class:      types.ClassIntentEvolution,
			Confidence: ConfidenceHigh,
			Reason:     "new declarations",
			Similarity: sim,
		}
	}

	// 5. Substantial growth without new declarations still reads as feature
	// work.
	if growthRatio(prev, curr) > t.GrowthRatio {
		return Result{
			Class:      types.ClassIntentEvolution,
			Confidence: ConfidenceMedium,
			Reason:     "content grew substantially",
			Similarity: sim,
		}
	}

	// 6. Fallback split on similarity.
	if sim < t.LowSimilarity {
		return Result{
			Class:      types.ClassIntentEvolution,
			Confidence: ConfidenceLow,
			Reason:     "low similarity",
			Similarity: sim,
		}
	}
	return Result{
		Class:      types.ClassASTRefactor,
		Confidence: ConfidenceLow,
		Reason:     "moderate similarity, no feature signals",
		Similarity: sim,
	}
}

// lineCountRatio is the proportional change in line count.
func lineCountRatio(prev, curr string) float64 {
	prevLines := countLines(prev)
	currLines := countLines(curr)
	delta := currLines - prevLines
	if delta < 0 {
		delta = -delta
	}
	base := prevLines
	if base < 1 {
		base = 1
	}
	return float64(delta) / float64(base)
}

// growthRatio is the proportional byte-length growth. Shrinkage is negative
// and never trips the growth branch.
func growthRatio(prev, curr string) float64 {
	base := len(prev)
	if base < 1 {
		base = 1
	}
	return float64(len(curr)-len(prev)) / float64(base)
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
