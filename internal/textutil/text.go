package textutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`[\s\r\n]+`)
	newlineRuns    = regexp.MustCompile(`\r\n|\r|\n`)
)

// CollapseWhitespace folds every run of whitespace, including line breaks,
// into a single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// TruncateRunes cuts a string to at most limit characters. Counting is by
// rune, not byte, so multibyte text never splits mid-character.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// NormalizeNewlines rewrites every line break variant to CRLF. Media tag
// values use CRLF line endings regardless of the source text.
func NormalizeNewlines(s string) string {
	return newlineRuns.ReplaceAllString(s, "\r\n")
}
