package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"empty vs empty", "", "", 1.0},
		{"empty vs nonempty", "", "hello", 0.0},
		{"nonempty vs empty", "hello", "", 0.0},
		{"identical", "func main() {}", "func main() {}", 1.0},
		{"whitespace only difference", "a\tb\n  c", "a b c", 1.0},
		{"whitespace vs empty", "   \n\t ", "", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScoreKittenSitting(t *testing.T) {
	// Classic example: distance 3 over max length 7.
	got := Score("kitten", "sitting")
	want := 1.0 - 3.0/7.0
	if !almostEqual(got, want) {
		t.Errorf("Score(kitten, sitting) = %v, want %v", got, want)
	}
}

func TestScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"abc", "xyz"},
		{"short", "a much longer string that shares nothing"},
		{"const a = 1", "const a = 2"},
	}

	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestScoreDeterminism(t *testing.T) {
	a := "func handler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) }"
	b := "func handler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(404) }"

	first := Score(a, b)
	for i := 0; i < 5; i++ {
		if got := Score(a, b); !almostEqual(got, first) {
			t.Fatalf("Score not deterministic: %v vs %v", got, first)
		}
	}
	if first <= 0.9 {
		t.Errorf("near-identical inputs scored %v, expected > 0.9", first)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a  b", "a b"},
		{"\n\ta b\t\n", "a b"},
		{"", ""},
		{"   ", ""},
		{"one", "one"},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
