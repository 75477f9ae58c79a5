// Package storage provides SQLite-based persistence for finished sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Session outcomes as stored in the outcome column.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// SessionRecord is one finished session.
type SessionRecord struct {
	ID            int64
	Mode          string
	Outcome       string
	TimeRemaining float64 // seconds left on the clock at the terminal event
	Elapsed       float64 // seconds survived
	Player        string
	CreatedAt     time.Time
}

// ModeStats contains aggregated statistics for one mode.
type ModeStats struct {
	Mode       string
	Sessions   int
	Wins       int
	Losses     int
	BestTime   float64
	AvgTime    float64
	LastPlayed time.Time
}

// WinRate returns the share of sessions won, 0 when nothing was played.
func (m ModeStats) WinRate() float64 {
	if m.Sessions == 0 {
		return 0
	}
	return float64(m.Wins) / float64(m.Sessions)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			time_remaining REAL NOT NULL DEFAULT 0,
			elapsed REAL NOT NULL DEFAULT 0,
			player TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);
		CREATE INDEX IF NOT EXISTS idx_sessions_best ON sessions(mode, elapsed DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session and returns its ID.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	if rec.Outcome != OutcomeWin && rec.Outcome != OutcomeLoss {
		return 0, fmt.Errorf("storage: unknown outcome %q", rec.Outcome)
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions (mode, outcome, time_remaining, elapsed, player)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Mode, rec.Outcome, rec.TimeRemaining, rec.Elapsed, rec.Player,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions returns the newest sessions first. An empty mode matches all modes.
func (s *Store) RecentSessions(mode string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, outcome, time_remaining, elapsed, player, created_at
		 FROM sessions
		 WHERE ? = '' OR mode = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Mode, &r.Outcome, &r.TimeRemaining, &r.Elapsed, &r.Player, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// BestTime returns the longest survival recorded for the mode, 0 if none.
func (s *Store) BestTime(mode string) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MAX(elapsed) FROM sessions WHERE mode = ?",
		mode,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best time: %w", err)
	}

	if !best.Valid {
		return 0, nil
	}
	return best.Float64, nil
}

// ModeStats retrieves aggregated statistics for the mode.
func (s *Store) ModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(elapsed), 0),
		        COALESCE(AVG(elapsed), 0)
		 FROM sessions WHERE mode = ?`,
		OutcomeWin, mode,
	).Scan(&stats.Sessions, &stats.Wins, &stats.BestTime, &stats.AvgTime)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.Losses = stats.Sessions - stats.Wins

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions WHERE mode = ? ORDER BY id DESC LIMIT 1`,
		mode,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearSessions deletes the history of a mode, or all history when mode is empty.
func (s *Store) ClearSessions(mode string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE ? = '' OR mode = ?", mode, mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
