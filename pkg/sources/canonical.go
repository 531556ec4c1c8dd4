package sources

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// Canonicalize normalizes a line for equality comparison: whitespace
// runs collapse to one space and trailing whitespace is stripped.
// It is deterministic and idempotent.
func Canonicalize(line string) string {
	return strings.TrimRight(whitespaceRun.ReplaceAllString(line, " "), " ")
}

// IsMarked reports whether the line already carries the reserved
// marker prefix. Marked lines are excluded from duplicate grouping,
// which is what makes re-applying deduplication a no-op.
func IsMarked(line, marker string) bool {
	return strings.HasPrefix(line, marker+":")
}

// Mark comments out a line by prepending the reserved marker prefix.
// The original text is kept verbatim after the prefix.
func Mark(line, marker string) string {
	return marker + ": " + line
}

// Unmark strips the reserved marker prefix, restoring the original
// active line. The second return value reports whether the line was
// marked at all.
func Unmark(line, marker string) (string, bool) {
	if !IsMarked(line, marker) {
		return line, false
	}
	rest := strings.TrimPrefix(line, marker+":")
	return strings.TrimPrefix(rest, " "), true
}

// Groupable reports whether a line participates in duplicate grouping.
// Blank lines and marked lines pass through unchanged and are never
// grouped.
func Groupable(line, marker string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	return !IsMarked(line, marker)
}
