// pkg/pipeline/window.go

package pipeline

import (
	"fmt"
	"time"

	"rainfeed/pkg/models"
)

// Window is one allowed collection period within a day, in local time.
// Windows may cross midnight: start 23:00 end 01:30 covers late evening
// and early morning.
type Window struct {
	start int // minutes since midnight, inclusive
	end   int // minutes since midnight, inclusive
}

// ParseWindow builds a Window from two HH:MM strings
func ParseWindow(start, end string) (Window, error) {
	startMin, err := minuteOfDay(start)
	if err != nil {
		return Window{}, err
	}
	endMin, err := minuteOfDay(end)
	if err != nil {
		return Window{}, err
	}
	return Window{start: startMin, end: endMin}, nil
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	if w.end < w.start {
		// Crosses midnight
		return m >= w.start || m <= w.end
	}
	return m >= w.start && m <= w.end
}

// Windows is a set of allowed collection periods. An empty set allows any
// time.
type Windows []Window

// WindowsFromConfig parses the configured collection windows
func WindowsFromConfig(config *models.Config) (Windows, error) {
	var windows Windows
	for _, w := range config.Processing.CollectWindows {
		window, err := ParseWindow(w.Start, w.End)
		if err != nil {
			return nil, fmt.Errorf("invalid collection window %s-%s: %w", w.Start, w.End, err)
		}
		windows = append(windows, window)
	}
	return windows, nil
}

// Contains reports whether t falls inside any window
func (ws Windows) Contains(t time.Time) bool {
	if len(ws) == 0 {
		return true
	}
	for _, w := range ws {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// minuteOfDay converts a time string (HH:MM) to minutes since midnight
func minuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time format %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
