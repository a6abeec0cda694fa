package pipeline

import (
	"testing"
	"time"

	"rainfeed/pkg/models"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 1, 25, hour, min, 0, 0, time.Local)
}

func TestWindowContains(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		when       time.Time
		want       bool
	}{
		{"inside", "07:00", "23:30", at(12, 0), true},
		{"at start", "07:00", "23:30", at(7, 0), true},
		{"at end", "07:00", "23:30", at(23, 30), true},
		{"before start", "07:00", "23:30", at(6, 59), false},
		{"after end", "07:00", "23:30", at(23, 31), false},
		{"crossing midnight, evening side", "23:00", "01:30", at(23, 45), true},
		{"crossing midnight, morning side", "23:00", "01:30", at(1, 0), true},
		{"crossing midnight, outside", "23:00", "01:30", at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.start, tt.end)
			if err != nil {
				t.Fatalf("ParseWindow(%s, %s): %v", tt.start, tt.end, err)
			}
			if got := w.Contains(tt.when); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.when.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, s := range []string{"7", "25:00", "12:60", "aa:bb", ""} {
		if _, err := ParseWindow(s, "10:00"); err == nil {
			t.Errorf("ParseWindow(%q, ...) accepted an invalid time", s)
		}
	}
}

func TestWindowsEmptyAllowsAnyTime(t *testing.T) {
	var ws Windows
	if !ws.Contains(at(3, 33)) {
		t.Error("empty window set should allow any time")
	}
}

func TestWindowsFromConfig(t *testing.T) {
	cfg := &models.Config{}
	cfg.Processing.CollectWindows = []struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	}{
		{Start: "07:00", End: "09:00"},
		{Start: "20:00", End: "22:00"},
	}

	ws, err := WindowsFromConfig(cfg)
	if err != nil {
		t.Fatalf("WindowsFromConfig: %v", err)
	}
	if !ws.Contains(at(21, 0)) {
		t.Error("21:00 should match the second window")
	}
	if ws.Contains(at(12, 0)) {
		t.Error("12:00 should match no window")
	}

	cfg.Processing.CollectWindows[0].Start = "nope"
	if _, err := WindowsFromConfig(cfg); err == nil {
		t.Error("WindowsFromConfig accepted an invalid window")
	}
}
