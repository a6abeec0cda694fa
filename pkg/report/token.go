// pkg/report/token.go

package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// tokenKind classifies a lexeme recognized inside a report line.
type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenDate
	tokenTime
)

// token is one lexeme with its byte position in the source line.
type token struct {
	kind tokenKind
	text string
	pos  int
	val  float64 // parsed value, set for tokenNumber only
}

// Lexical patterns for the report tables
var (
	// Calendar date cells; carved out before number matching so "19/01/2026"
	// never yields the values 19, 1 and 2026
	dateTokenRegex = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)

	// Clock times, excluded from number matching for the same reason
	timeTokenRegex = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)

	// Optional-sign integer or decimal, comma or point separator
	numberTokenRegex = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)

	// Station code opening a table row: one or two letters then 2-4 digits
	stationCodeRegex = regexp.MustCompile(`^[A-Za-z]{1,2}\d{2,4}\b`)
)

// tokenize splits a line into date, time and number tokens in source order.
// Date and time spans are masked before number matching. A lexeme matching
// the numeric pattern but failing to parse is dropped; the missing position
// surfaces later as an insufficient value count.
func tokenize(line string) []token {
	var tokens []token
	masked := []byte(line)

	mask := func(spans [][]int, kind tokenKind) {
		for _, span := range spans {
			tokens = append(tokens, token{kind: kind, text: line[span[0]:span[1]], pos: span[0]})
			for i := span[0]; i < span[1]; i++ {
				masked[i] = ' '
			}
		}
	}
	mask(dateTokenRegex.FindAllStringIndex(line, -1), tokenDate)
	mask(timeTokenRegex.FindAllIndex(masked, -1), tokenTime)

	for _, span := range numberTokenRegex.FindAllIndex(masked, -1) {
		text := line[span[0]:span[1]]
		val, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil {
			continue
		}
		tokens = append(tokens, token{kind: tokenNumber, text: text, pos: span[0], val: val})
	}

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].pos < tokens[j].pos })
	return tokens
}

// dateTokens returns the calendar-date cells of a line in column order.
func dateTokens(line string) []string {
	var dates []string
	for _, tok := range tokenize(line) {
		if tok.kind == tokenDate {
			dates = append(dates, tok.text)
		}
	}
	return dates
}
