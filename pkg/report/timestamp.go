// pkg/report/timestamp.go

package report

import (
	"regexp"
	"time"
)

// Timestamp is the report's "updated at" moment, when one could be found.
// Absence is an expected state, never an error; formatters substitute
// placeholder labels for it.
type Timestamp struct {
	Time  time.Time
	Found bool
}

// String renders the timestamp the way report headers display it.
func (t Timestamp) String() string {
	if !t.Found {
		return "no detectado"
	}
	return t.Time.Format("02/01/2006 15:04")
}

var (
	// Date plus clock time, 4 or 2 digit year, hour possibly single digit
	timestampRegex = regexp.MustCompile(`(\d{2}/\d{2}/(?:\d{4}|\d{2}))\s+(\d{1,2}:\d{2})`)

	// Update wording ("Actualizado", "actualización") ahead of the stamp
	updateHintRegex = regexp.MustCompile(`(?i)actualiza`)
)

// How far back an update hint may sit from the stamp it qualifies.
const hintWindow = 40

// LocateTimestamp finds the report timestamp in normalized text. A match
// preceded by an update hint wins over an earlier bare match; headers and
// footers elsewhere in the document carry dates of their own, and taking
// the first unconditionally picks those up.
func LocateTimestamp(text string) Timestamp {
	var fallback Timestamp

	for _, m := range timestampRegex.FindAllStringSubmatchIndex(text, -1) {
		ts := parseStamp(text[m[2]:m[3]], text[m[4]:m[5]])
		if !ts.Found {
			continue
		}
		if hasUpdateHint(text, m[0]) {
			return ts
		}
		if !fallback.Found {
			fallback = ts
		}
	}

	return fallback
}

// hasUpdateHint reports whether update wording appears shortly before the
// match position.
func hasUpdateHint(text string, pos int) bool {
	from := pos - hintWindow
	if from < 0 {
		from = 0
	}
	return updateHintRegex.MatchString(text[from:pos])
}

// parseStamp builds a Timestamp from the matched date and time parts.
// Two-digit years are shorthand for 2000+ and single-digit hours are
// zero-padded before parsing (9:55 becomes 09:55).
func parseStamp(datePart, timePart string) Timestamp {
	if len(datePart) == len("02/01/06") {
		datePart = datePart[:6] + "20" + datePart[6:]
	}
	if timePart[1] == ':' {
		timePart = "0" + timePart
	}

	ts, err := time.Parse("02/01/2006 15:04", datePart+" "+timePart)
	if err != nil {
		return Timestamp{}
	}
	return Timestamp{Time: ts, Found: true}
}
