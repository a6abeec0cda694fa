// pkg/report/locale.go

package report

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SpanishMonths maps month numbers to the names the agency reports print.
var SpanishMonths = map[int]string{
	1:  "enero",
	2:  "febrero",
	3:  "marzo",
	4:  "abril",
	5:  "mayo",
	6:  "junio",
	7:  "julio",
	8:  "agosto",
	9:  "septiembre",
	10: "octubre",
	11: "noviembre",
	12: "diciembre",
}

// monthName returns the Spanish name for a month number
func monthName(month int) string {
	if name, ok := SpanishMonths[month]; ok {
		return name
	}
	return strconv.Itoa(month)
}

// foldForMatch lowercases text and strips diacritics so station names match
// regardless of accents or decomposed encodings ("Huéscar" and "Huescar"
// fold to the same string). The transform chain is built per call; chained
// transformers carry buffers and must not be shared across goroutines.
func foldForMatch(text string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// containsWord reports whether haystack contains needle bounded by
// non-alphanumeric runes, so "huelma" matches "P63 Huelma 1,0" but never
// "huelmazo". Both arguments must already be folded.
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for from := 0; from+len(needle) <= len(haystack); {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		idx += from
		if boundaryBefore(haystack, idx) && boundaryAfter(haystack, idx+len(needle)) {
			return true
		}
		from = idx + 1
	}
	return false
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
