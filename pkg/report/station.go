// pkg/report/station.go

package report

import (
	"strings"
)

// StationRow is the assembled, code-stripped block of text holding one
// station's table row, plus the index of the document line it started on.
type StationRow struct {
	Block string
	Line  int
}

// LocateStationRow finds the block of lines holding the named station's data
// inside normalized report text. Matching is a case and accent insensitive
// substring search over non-empty lines. When the table physically wraps,
// following lines are appended one at a time until the block yields at least
// minValues numeric tokens, stopping as soon as a line opens another
// station's row so values never bleed between stations.
func LocateStationRow(text, station string, minValues int) (StationRow, error) {
	lines := splitLines(text)
	needle := foldForMatch(strings.TrimSpace(station))

	start := -1
	for i, ln := range lines {
		if containsWord(foldForMatch(ln), needle) {
			start = i
			break
		}
	}
	if start == -1 {
		return StationRow{}, &StationNotFoundError{Station: station}
	}

	block := lines[start]
	for next := start + 1; next < len(lines) && countValues(block) < minValues; next++ {
		if startsNewStation(lines[next]) {
			break
		}
		block += " " + lines[next]
	}

	return StationRow{Block: stripLeadingStationCodes(block), Line: start}, nil
}

// countValues reports how many numeric tokens a block yields once leading
// station codes are stripped.
func countValues(block string) int {
	n := 0
	for _, tok := range tokenize(stripLeadingStationCodes(block)) {
		if tok.kind == tokenNumber {
			n++
		}
	}
	return n
}

// startsNewStation reports whether a line begins with a station code marker,
// meaning it opens another station's table row.
func startsNewStation(line string) bool {
	return stationCodeRegex.MatchString(strings.TrimSpace(line))
}

// stripLeadingStationCodes removes station code tokens from the start of an
// assembled block, where "P63" or "E01" would otherwise be misread as the
// rainfall values 63 or 1. Interior codes are data and stay. Stripping
// repeats until no leading code remains, so it is idempotent.
func stripLeadingStationCodes(block string) string {
	for {
		trimmed := strings.TrimSpace(block)
		loc := stationCodeRegex.FindStringIndex(trimmed)
		if loc == nil {
			return trimmed
		}
		block = trimmed[loc[1]:]
	}
}
