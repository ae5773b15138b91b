// Package contenthash provides the content-addressed identity used by trace
// records and the staleness guard. Digests are computed over a block's bytes
// alone, so an unchanged block keeps its digest no matter where it moves.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Prefix is prepended to every digest so stored hashes name their algorithm.
const Prefix = "sha256:"

// Digest returns the location-independent fingerprint of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return Prefix + hex.EncodeToString(sum[:])
}

// DigestString is a convenience wrapper for text content.
func DigestString(content string) string {
	return Digest([]byte(content))
}

// DigestLines hashes the given 1-based inclusive line range of content.
// An out-of-bounds or inverted range falls back to hashing the whole content,
// since a best-effort record beats a dropped one.
func DigestLines(content []byte, startLine, endLine int) string {
	block, ok := SliceLines(content, startLine, endLine)
	if !ok {
		return Digest(content)
	}
	return Digest(block)
}

// SliceLines extracts the 1-based inclusive line range from content.
// Returns ok=false when the range does not identify a valid block.
func SliceLines(content []byte, startLine, endLine int) ([]byte, bool) {
	if startLine < 1 || endLine < startLine {
		return nil, false
	}

	line := 1
	start := -1
	if startLine == 1 {
		start = 0
	}
	end := len(content)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		line++
		if line == startLine {
			start = i + 1
		}
		if line == endLine+1 {
			end = i // exclude the trailing newline of the block
			break
		}
	}

	if start < 0 || line < startLine {
		return nil, false
	}
	if start > end {
		return nil, false
	}
	return content[start:end], true
}
