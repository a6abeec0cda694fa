// rainfeed/pkg/database/database.go

package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rainfeed/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteTimeLayout is the primary format the sqlite3 driver uses when
// storing a time.Time. Aggregate expressions (MAX, MIN) lose the column
// type and come back as plain text, so those are parsed manually.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// Database represents our SQLite connection and operations
type Database struct {
	*sql.DB
}

// InitDB initializes the database and creates tables if they don't exist
func InitDB(dbPath string) (*Database, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db}, nil
}

func createTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			station TEXT NOT NULL,
			kind TEXT NOT NULL,
			report_ts DATETIME,
			fetched_at DATETIME NOT NULL,
			values_json TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fetch_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			message TEXT,
			created_at DATETIME NOT NULL
		)`,
		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_snapshots_station_kind ON snapshots(station, kind, fetched_at)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_errors_created ON fetch_errors(created_at)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}

// SaveSnapshot archives one parsed report, filling in the snapshot's ID
func (db *Database) SaveSnapshot(snapshot *models.Snapshot) error {
	valuesJSON, err := json.Marshal(snapshot.Values)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}

	query := `
		INSERT INTO snapshots (station, kind, report_ts, fetched_at, values_json, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := db.Exec(query,
		snapshot.Station,
		snapshot.Kind,
		snapshot.ReportTS,
		snapshot.FetchedAt,
		string(valuesJSON),
		snapshot.Message,
	)
	if err != nil {
		return err
	}

	snapshot.ID, err = result.LastInsertId()
	return err
}

// LatestSnapshot retrieves the most recently fetched snapshot for a station
// and kind, or nil when nothing has been archived yet
func (db *Database) LatestSnapshot(station, kind string) (*models.Snapshot, error) {
	query := `
		SELECT id, station, kind, report_ts, fetched_at, values_json, message
		FROM snapshots
		WHERE station = ? AND kind = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`
	var snapshot models.Snapshot
	var reportTS sql.NullTime
	var valuesJSON string

	err := db.QueryRow(query, station, kind).Scan(
		&snapshot.ID,
		&snapshot.Station,
		&snapshot.Kind,
		&reportTS,
		&snapshot.FetchedAt,
		&valuesJSON,
		&snapshot.Message,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if reportTS.Valid {
		ts := reportTS.Time
		snapshot.ReportTS = &ts
	}
	if err := json.Unmarshal([]byte(valuesJSON), &snapshot.Values); err != nil {
		return nil, fmt.Errorf("failed to decode values: %w", err)
	}

	return &snapshot, nil
}

// LogFetchError records a failed fetch or parse attempt
func (db *Database) LogFetchError(source, message string) error {
	query := `
		INSERT INTO fetch_errors (source, message, created_at)
		VALUES (?, ?, ?)
	`
	_, err := db.Exec(query, source, message, time.Now())
	return err
}

// RecentFetchErrors retrieves up to limit fetch errors, newest first
func (db *Database) RecentFetchErrors(limit int) ([]models.FetchError, error) {
	query := `
		SELECT id, source, message, created_at
		FROM fetch_errors
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fetchErrors []models.FetchError
	for rows.Next() {
		var fe models.FetchError
		err := rows.Scan(
			&fe.ID,
			&fe.Source,
			&fe.Message,
			&fe.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		fetchErrors = append(fetchErrors, fe)
	}
	return fetchErrors, rows.Err()
}

// Stats summarizes the archive: totals plus per station and kind counts
func (db *Database) Stats() (*models.ArchiveStats, error) {
	stats := &models.ArchiveStats{}

	if err := db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&stats.TotalSnapshots); err != nil {
		return nil, err
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM fetch_errors`).Scan(&stats.TotalErrors); err != nil {
		return nil, err
	}

	query := `
		SELECT station, kind, COUNT(*), MAX(fetched_at)
		FROM snapshots
		GROUP BY station, kind
		ORDER BY station, kind
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var count models.SnapshotCount
		var latest sql.NullString
		if err := rows.Scan(&count.Station, &count.Kind, &count.Count, &latest); err != nil {
			return nil, err
		}
		if latest.Valid {
			count.Latest = parseSQLiteTime(latest.String)
		}
		stats.Counts = append(stats.Counts, count)
	}
	return stats, rows.Err()
}

// parseSQLiteTime parses a timestamp read back from an SQL expression
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
