// rainfeed/pkg/models/models.go

package models

import "time"

// Config holds all configuration settings
type Config struct {
	Sources struct {
		BaseURL           string `yaml:"base_url"`
		DailyPDFPath      string `yaml:"daily_pdf_path"`
		InformesPath      string `yaml:"informes_path"`
		WeeklyButton      string `yaml:"weekly_button"`
		UserAgent         string `yaml:"user_agent"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		MaxPDFSizeMB      int    `yaml:"max_pdf_size_mb"`
		MaxRetries        int    `yaml:"max_retries"`
		RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
	} `yaml:"sources"`

	// Stations to extract from each report; the first entry is the default
	// for commands that take a single station.
	Stations []string `yaml:"stations"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Telegram struct {
		Enabled bool   `yaml:"enabled"`
		ChatID  string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Processing struct {
		ConcurrentFetches int `yaml:"concurrent_fetches"`
		CollectWindows    []struct {
			Start string `yaml:"start"`
			End   string `yaml:"end"`
		} `yaml:"collect_windows"`
	} `yaml:"processing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// DefaultStation returns the first configured station, or "" when none are
// configured.
func (c *Config) DefaultStation() string {
	if len(c.Stations) == 0 {
		return ""
	}
	return c.Stations[0]
}

// Snapshot represents a row in the snapshots table: one successfully parsed
// report for one station. ReportTS is nil when the document carried no
// recognizable timestamp.
type Snapshot struct {
	ID        int64      `json:"id"`
	Station   string     `json:"station"`
	Kind      string     `json:"kind"`
	ReportTS  *time.Time `json:"report_ts,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
	Values    []float64  `json:"values"`
	Message   string     `json:"message"`
}

// FetchError represents a row in the fetch_errors table
type FetchError struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotCount aggregates archived snapshots for one station and kind.
type SnapshotCount struct {
	Station string
	Kind    string
	Count   int
	Latest  time.Time
}

// ArchiveStats summarizes the snapshot archive.
type ArchiveStats struct {
	TotalSnapshots int
	TotalErrors    int
	Counts         []SnapshotCount
}
