// Package scope evaluates whether a target path falls inside an intent's
// declared ownership patterns.
//
// Pattern language: `**` matches any sequence of path segments, `*` matches
// within a single segment, and literal separators must match exactly.
// Matching is case-sensitive over slash-normalized relative paths. A path is
// in scope when any pattern matches (logical OR); there are no negative
// patterns. The validator fails closed: an unmatched path — or a pattern the
// matcher cannot parse — leaves the path out of scope.
package scope

import (
	"log/slog"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// InScope reports whether target matches any of the glob patterns.
func InScope(target string, patterns []string) bool {
	target = Normalize(target)
	if target == "" {
		return false
	}

	for _, pattern := range patterns {
		pattern = Normalize(pattern)
		if pattern == "" {
			continue
		}
		ok, err := doublestar.Match(pattern, target)
		if err != nil {
			// Bad pattern in a registry entry. The fail-closed default is
			// decided here once: an unparseable pattern matches nothing.
			slog.Warn("skipping invalid scope pattern",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// CoveringIntentID returns the id of the first intent whose scope covers
// target, given a mapping of intent id to patterns evaluated in the supplied
// order. Returns "" when nothing covers the target.
func CoveringIntentID(target string, order []string, scopes map[string][]string) string {
	for _, id := range order {
		if InScope(target, scopes[id]) {
			return id
		}
	}
	return ""
}

// Normalize canonicalizes a path for matching: separators become forward
// slashes, redundant elements collapse, and leading "./" is dropped.
func Normalize(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return strings.TrimPrefix(cleaned, "./")
}
