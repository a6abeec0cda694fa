// pkg/report/normalize.go

package report

import (
	"regexp"
	"strings"
)

// Regular expressions for cleaning extracted PDF text
var (
	// Match runs of horizontal whitespace, newlines excluded
	horizontalSpaceRegex = regexp.MustCompile(`[^\S\n]+`)

	// Match runs of three or more newlines
	newlineRunRegex = regexp.MustCompile(`\n{3,}`)
)

// Normalize converts raw extracted PDF text into a canonical multi-line
// string: every line ending becomes \n, runs of spaces and tabs collapse to
// a single space, and runs of blank lines collapse to at most one. Total
// function; any input yields a result.
func Normalize(text string) string {
	// Convert Windows style to Unix
	text = strings.ReplaceAll(text, "\r\n", "\n")
	// Convert old Mac style to Unix
	text = strings.ReplaceAll(text, "\r", "\n")

	text = horizontalSpaceRegex.ReplaceAllString(text, " ")

	return newlineRunRegex.ReplaceAllString(text, "\n\n")
}

// splitLines returns the non-empty, trimmed lines of normalized text.
func splitLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
