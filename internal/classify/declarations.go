package classify

import (
	"bufio"
	"regexp"
	"strings"
)

// declarationPatterns match top-level declaration-shaped lines across the
// languages agents commonly touch. Line-anchored so nested expressions do
// not inflate the count.
var declarationPatterns = []*regexp.Regexp{
	// Go / C-family functions and types.
	regexp.MustCompile(`^func\s+\(?\w`),
	regexp.MustCompile(`^type\s+\w+\s+(struct|interface)\b`),
	// JS / TS functions, classes, and bindings.
	regexp.MustCompile(`^(export\s+)?(default\s+)?(async\s+)?function\s+\w`),
	regexp.MustCompile(`^(export\s+)?(abstract\s+)?class\s+\w`),
	regexp.MustCompile(`^(export\s+)?(const|let|var)\s+\w`),
	regexp.MustCompile(`^(export\s+)?interface\s+\w`),
	// Python.
	regexp.MustCompile(`^(async\s+)?def\s+\w`),
	// Rust / misc fn-style languages. Shared class pattern above covers
	// Python and Ruby classes too.
	regexp.MustCompile(`^(pub\s+)?fn\s+\w`),
}

// CountDeclarations counts declaration-like constructs at the top level of
// content. It is a textual heuristic for "did this change add functions,
// classes, or bindings", not a parser.
func CountDeclarations(content string) int {
	count := 0
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		for _, p := range declarationPatterns {
			if p.MatchString(line) {
				count++
				break
			}
		}
	}
	return count
}
