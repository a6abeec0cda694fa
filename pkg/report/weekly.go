// pkg/report/weekly.go

package report

import (
	"fmt"
	"strings"
)

// DayValue is one daily rainfall figure with its calendar label.
type DayValue struct {
	Amount float64
	Label  DateLabel
}

// WeeklyReport is the labeled view of the weekly tuple: the last seven
// calendar days most-recent-first (Days[0] is today) followed by the 7-day,
// current-month and hydrological-year totals.
type WeeklyReport struct {
	Station    string
	Stamp      Timestamp
	Days       [7]DayValue
	WeekTotal  float64
	MonthTotal float64
	YearTotal  float64
}

// ParseWeekly extracts the weekly report for a station from raw report text.
func ParseWeekly(text, station string) (*WeeklyReport, error) {
	text = Normalize(text)

	row, err := LocateStationRow(text, station, WeeklyValueCount)
	if err != nil {
		return nil, err
	}

	vals, err := ExtractValues(row.Block, station, WeeklyValueCount)
	if err != nil {
		return nil, err
	}

	rep := &WeeklyReport{
		Station:    station,
		Stamp:      LocateTimestamp(text),
		WeekTotal:  vals[7],
		MonthTotal: vals[8],
		YearTotal:  vals[9],
	}

	labels := weeklyLabels(text, row, rep.Stamp)
	for i := range rep.Days {
		rep.Days[i] = DayValue{Amount: vals[i], Label: labels[i]}
	}

	return rep, nil
}

// Values returns the raw tuple in document column order.
func (r *WeeklyReport) Values() []float64 {
	vals := make([]float64, 0, WeeklyValueCount)
	for _, day := range r.Days {
		vals = append(vals, day.Amount)
	}
	return append(vals, r.WeekTotal, r.MonthTotal, r.YearTotal)
}

// weeklyLabels builds the seven daily labels most-recent-first. Dates read
// from the document win; otherwise they are counted back from the report
// timestamp; with no timestamp either, ordinals take over. A best-effort
// label always beats dropping the value.
func weeklyLabels(text string, row StationRow, stamp Timestamp) [7]DateLabel {
	if labels, ok := recoverDates(text, row); ok {
		return labels
	}

	var labels [7]DateLabel
	if stamp.Found {
		for i := range labels {
			day := stamp.Time.AddDate(0, 0, -i)
			labels[i] = DateLabel{Text: day.Format("02/01/2006"), Source: LabelEstimated}
		}
		return labels
	}

	// Rendering shows oldest first, so Día 7 is today
	for i := range labels {
		labels[i] = DateLabel{Text: fmt.Sprintf("Día %d", 7-i), Source: LabelUnavailable}
	}
	return labels
}

// recoverDates pulls the seven day labels from the document's own date
// columns: the station row's cells first, then the nearest header line above
// the row with a full set of dates. Column order matches value order.
func recoverDates(text string, row StationRow) ([7]DateLabel, bool) {
	var labels [7]DateLabel

	dates := dateTokens(row.Block)
	if len(dates) < len(labels) {
		dates = nil
		lines := splitLines(text)
		for i := row.Line - 1; i >= 0; i-- {
			if cells := dateTokens(lines[i]); len(cells) >= len(labels) {
				dates = cells
				break
			}
		}
	}
	if len(dates) < len(labels) {
		return labels, false
	}

	for i := range labels {
		labels[i] = DateLabel{Text: canonicalDate(dates[i]), Source: LabelRecovered}
	}
	return labels, true
}

// canonicalDate reformats a recovered date cell as DD/MM/YYYY, expanding
// two-digit years. Cells that do not split into three parts pass through
// untouched; a label is display text, not data.
func canonicalDate(cell string) string {
	parts := strings.Split(cell, "/")
	if len(parts) != 3 {
		return cell
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(year) == 2 {
		year = "20" + year
	}
	return day + "/" + month + "/" + year
}

// Render produces the user-facing weekly summary: seven daily lines oldest
// first with today's line marked, then the three accumulated totals, plus a
// provenance note when the dates did not come from the document itself.
func (r *WeeklyReport) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📄 Lluvia semanal (actualizado: %s)\n", r.Stamp)
	fmt.Fprintf(&b, "%s – lluvia diaria (mm):\n", r.Station)

	for i := len(r.Days) - 1; i >= 0; i-- {
		day := r.Days[i]
		if i == 0 {
			fmt.Fprintf(&b, "• %s (hoy): %.1f mm\n", day.Label.Text, day.Amount)
		} else {
			fmt.Fprintf(&b, "• %s: %.1f mm\n", day.Label.Text, day.Amount)
		}
	}

	b.WriteString("\nAcumulados:\n")
	fmt.Fprintf(&b, "• Últimos 7 días: %.1f mm\n", r.WeekTotal)
	fmt.Fprintf(&b, "• Mes actual: %.1f mm\n", r.MonthTotal)
	fmt.Fprintf(&b, "• Año hidrológico: %.1f mm", r.YearTotal)

	if note := labelNote(r.Days[0].Label.Source); note != "" {
		b.WriteString("\n\n")
		b.WriteString(note)
	}
	return b.String()
}

// labelNote states where non-recovered date labels came from.
func labelNote(source LabelSource) string {
	switch source {
	case LabelEstimated:
		return "Fechas estimadas a partir de la fecha del informe."
	case LabelUnavailable:
		return "Fechas no disponibles en el informe."
	}
	return ""
}
