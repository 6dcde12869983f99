package devis

import (
	"regexp"
	"strings"
)

// Lines is the ordered sequence of text lines extracted from a devis,
// flattened to document order. It is treated as read-only by every
// extraction rule; no rule mutates it or depends on another rule's cursor.
type Lines []string

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeLine cleans a single raw text line: narrow no-break spaces and
// NBSP become plain spaces, runs of whitespace collapse to one space, and
// leading/trailing whitespace is trimmed.
func NormalizeLine(raw string) string {
	s := strings.ReplaceAll(raw, "\u202f", " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeLines builds a Lines value from raw extracted text lines,
// dropping lines that are empty after normalization.
func NormalizeLines(raw []string) Lines {
	lines := make(Lines, 0, len(raw))
	for _, l := range raw {
		if cleaned := NormalizeLine(l); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

// nextNonEmpty returns the index of the first non-empty line at or after
// start, or -1 when none exists.
func nextNonEmpty(lines Lines, start int) int {
	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

// afterColon returns the trimmed remainder of a line after its first colon,
// or "" when the line has no colon.
func afterColon(line string) string {
	if _, rest, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}
