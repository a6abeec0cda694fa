// pkg/report/report.go

// Package report extracts rainfall figures for one monitoring station from
// the extracted text of SAIH Guadalquivir PDF reports and renders the
// user-facing summaries. Everything here is a pure function over its
// arguments: no I/O, no environment reads, safe for concurrent callers.
package report

import (
	"fmt"
	"strings"
)

// Kind selects which report layout to parse.
type Kind string

// Report kinds
const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// Expected value counts per report kind. The daily row carries rainfall for
// the current and previous hour, day and month plus the hydrological year.
// The weekly row carries the last seven calendar days and three trailing
// totals.
const (
	DailyValueCount  = 7
	WeeklyValueCount = 10
)

// LabelSource tags where a calendar label came from, so rendering can state
// how trustworthy the dates are.
type LabelSource int

const (
	// LabelRecovered marks labels read from the document's own date columns.
	LabelRecovered LabelSource = iota
	// LabelEstimated marks labels computed from the report timestamp.
	LabelEstimated
	// LabelUnavailable marks placeholder or ordinal labels with no date source.
	LabelUnavailable
)

// DateLabel is a calendar label together with its provenance.
type DateLabel struct {
	Text   string
	Source LabelSource
}

// ParseKind converts a user-supplied kind name to a Kind. The Spanish
// command names are accepted alongside the canonical ones.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "daily", "diaria", "hoy":
		return KindDaily, nil
	case "weekly", "semanal":
		return KindWeekly, nil
	}
	return "", fmt.Errorf("unknown report kind %q", name)
}
