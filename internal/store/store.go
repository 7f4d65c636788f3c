// Package store is the local sqlite database: resume positions per course
// and a lightweight history of lesson visits, completions, and mentor
// requests. Nothing here is authoritative — the platform holds progress
// truth — but it makes sessions resumable and the CLI useful offline.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the sqlite connection and hands out repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the sqlite database at dsn, applies pragmas, and runs
// migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ResumeRepo returns the resume-position repository.
func (s *Store) ResumeRepo() ResumeRepo {
	return &sqliteResumeRepo{db: s.db}
}

// HistoryRepo returns the event-history repository.
func (s *Store) HistoryRepo() HistoryRepo {
	return &sqliteHistoryRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS resume_positions (
			course_id   TEXT PRIMARY KEY,
			content_id  TEXT NOT NULL,
			position    INTEGER NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS history_events (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			course_id   TEXT NOT NULL,
			content_id  TEXT NOT NULL,
			trigger_by  TEXT,
			detail      TEXT,
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_course ON history_events (course_id, created_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SECDOJO_DB environment variable
// 2. $XDG_DATA_HOME/secdojo/secdojo.db
// 3. ~/.local/share/secdojo/secdojo.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SECDOJO_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "secdojo", "secdojo.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if missing.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
