// pkg/report/daily.go

package report

import (
	"fmt"
	"strings"
	"time"
)

// DailyReport is the labeled view of the daily 7-value tuple: rainfall for
// the current and previous hour, day and month, plus the hydrological year
// to date. The column order is fixed by the source table.
type DailyReport struct {
	Station   string
	Stamp     Timestamp
	HourNow   float64
	HourPrev  float64
	DayNow    float64
	DayPrev   float64
	MonthNow  float64
	MonthPrev float64
	HydroYear float64
}

// ParseDaily extracts the daily report for a station from raw report text.
func ParseDaily(text, station string) (*DailyReport, error) {
	text = Normalize(text)

	row, err := LocateStationRow(text, station, DailyValueCount)
	if err != nil {
		return nil, err
	}

	vals, err := ExtractValues(row.Block, station, DailyValueCount)
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Station:   station,
		Stamp:     LocateTimestamp(text),
		HourNow:   vals[0],
		HourPrev:  vals[1],
		DayNow:    vals[2],
		DayPrev:   vals[3],
		MonthNow:  vals[4],
		MonthPrev: vals[5],
		HydroYear: vals[6],
	}, nil
}

// Values returns the raw tuple in document column order.
func (r *DailyReport) Values() []float64 {
	return []float64{r.HourNow, r.HourPrev, r.DayNow, r.DayPrev, r.MonthNow, r.MonthPrev, r.HydroYear}
}

// dailyLabels are the calendar labels for each measured period.
type dailyLabels struct {
	day, dayPrev, hour, hourPrev, month, monthPrev DateLabel
}

// labels derives calendar labels from the report timestamp, or placeholders
// when none was found. The previous month comes from true calendar
// subtraction, so January rolls back to December of the prior year.
func (r *DailyReport) labels() dailyLabels {
	if !r.Stamp.Found {
		current := DateLabel{Text: "actual", Source: LabelUnavailable}
		previous := DateLabel{Text: "anterior", Source: LabelUnavailable}
		return dailyLabels{
			day: current, dayPrev: previous,
			hour: current, hourPrev: previous,
			month: current, monthPrev: previous,
		}
	}

	ts := r.Stamp.Time
	prevMonth := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, ts.Location()).AddDate(0, 0, -1)

	estimated := func(text string) DateLabel {
		return DateLabel{Text: text, Source: LabelEstimated}
	}

	return dailyLabels{
		day:       estimated(ts.Format("02/01")),
		dayPrev:   estimated(ts.AddDate(0, 0, -1).Format("02/01")),
		hour:      estimated(fmt.Sprintf("%dh", ts.Hour())),
		hourPrev:  estimated(fmt.Sprintf("%dh", ts.Add(-time.Hour).Hour())),
		month:     estimated(fmt.Sprintf("%02d-%s", int(ts.Month()), monthName(int(ts.Month())))),
		monthPrev: estimated(fmt.Sprintf("%02d-%s", int(prevMonth.Month()), monthName(int(prevMonth.Month())))),
	}
}

// Render produces the user-facing daily summary: a header carrying the
// timestamp (or its "no detectado" marker), the station, and one line per
// measured period in the order day, hour, month, hydrological year.
func (r *DailyReport) Render() string {
	lbl := r.labels()

	var b strings.Builder
	fmt.Fprintf(&b, "📄 Lluvia diaria (actualizado: %s)\n", r.Stamp)
	fmt.Fprintf(&b, "%s:\n", r.Station)
	fmt.Fprintf(&b, "• Día (%s): %.1f mm\n", lbl.day.Text, r.DayNow)
	fmt.Fprintf(&b, "• Día (%s): %.1f mm\n", lbl.dayPrev.Text, r.DayPrev)
	fmt.Fprintf(&b, "• Hora (%s): %.1f mm\n", lbl.hour.Text, r.HourNow)
	fmt.Fprintf(&b, "• Hora (%s): %.1f mm\n", lbl.hourPrev.Text, r.HourPrev)
	fmt.Fprintf(&b, "• Mes (%s): %.1f mm\n", lbl.month.Text, r.MonthNow)
	fmt.Fprintf(&b, "• Mes (%s): %.1f mm\n", lbl.monthPrev.Text, r.MonthPrev)
	fmt.Fprintf(&b, "• Año hidrológico (actual): %.1f mm", r.HydroYear)
	return b.String()
}
