// File: sqlite.go
// Title: SQLite Session Catalog
// Description: Persists extracted sessions and their resources in SQLite so
//              other tools can query the course calendar without parsing the
//              TypeScript source. Every Sync is recorded as a run.
// Author: msto63
// Version: v0.1.1
// Created: 2026-03-04
// Modified: 2026-10-16
//
// Change History:
// - 2026-03-04 v0.1.0: Initial store
// - 2026-10-16 v0.1.1: Enable foreign keys

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/version"
)

// SyncStats summarizes one Sync call
type SyncStats struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
}

// ResourceRow is one resource link as stored
type ResourceRow struct {
	URL           string  `json:"url"`
	SessionNumber int     `json:"session_number"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/sessions.db",
	}
}

// SQLiteStore keeps sessions keyed by session number
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and creates, if needed) the database at cfg.Path
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "create database directory").WithDetail("path", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "open database")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.CodeStore, "initialize schema")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		number INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		subtitle TEXT,
		date TEXT,
		block_number INTEGER,
		block_title TEXT,
		homework TEXT,
		payload TEXT NOT NULL,
		run_id TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS resources (
		url TEXT NOT NULL,
		session_number INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		PRIMARY KEY (url, session_number),
		FOREIGN KEY (session_number) REFERENCES sessions(number) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		created INTEGER NOT NULL DEFAULT 0,
		updated INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_resources_session ON resources(session_number);
	CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return err
	}
	if current > version.StoreSchema {
		return fmt.Errorf("database schema %d is newer than supported %d", current, version.StoreSchema)
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version.StoreSchema))
	return err
}

// SchemaVersion returns the schema revision recorded in the database
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, errors.Wrap(err, errors.CodeStore, "read schema version")
	}
	return v, nil
}

// Sync upserts sessions in a single transaction. A session whose number is
// already stored is updated and its resources replaced; later duplicates in
// the input win.
func (s *SQLiteStore) Sync(ctx context.Context, sessions []session.Session) (SyncStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SyncStats{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, errors.Wrap(err, errors.CodeStore, "begin sync")
	}
	defer tx.Rollback()

	for _, sess := range sessions {
		created, err := upsertSession(ctx, tx, sess, stats.RunID)
		if err != nil {
			return stats, errors.Wrap(err, errors.CodeStore, "sync session").
				WithDetail("session", sess.Number)
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, created, updated) VALUES (?, ?, ?, ?)
	`, stats.RunID, stats.StartedAt, stats.Created, stats.Updated); err != nil {
		return stats, errors.Wrap(err, errors.CodeStore, "record sync run")
	}

	if err := tx.Commit(); err != nil {
		return stats, errors.Wrap(err, errors.CodeStore, "commit sync")
	}
	return stats, nil
}

func upsertSession(ctx context.Context, tx *sql.Tx, sess session.Session, runID string) (bool, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return false, err
	}

	var date, blockTitle sql.NullString
	var blockNumber sql.NullInt64
	if sess.Date != nil {
		date = sql.NullString{String: sess.Date.String(), Valid: true}
	}
	if sess.Block != nil {
		blockNumber = sql.NullInt64{Int64: int64(sess.Block.Number), Valid: true}
		blockTitle = sql.NullString{String: sess.Block.Title, Valid: true}
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE number = ?`, sess.Number).Scan(&exists)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if exists == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sessions (number, title, subtitle, date, block_number, block_title, homework, payload, run_id, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sess.Number, sess.Title, sess.Subtitle, date, blockNumber, blockTitle, sess.Homework, string(payload), runID, now)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE sessions
			SET title = ?, subtitle = ?, date = ?, block_number = ?, block_title = ?,
				homework = ?, payload = ?, run_id = ?, updated_at = ?
			WHERE number = ?
		`, sess.Title, sess.Subtitle, date, blockNumber, blockTitle, sess.Homework, string(payload), runID, now, sess.Number)
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM resources WHERE session_number = ?`, sess.Number); err != nil {
		return false, err
	}
	for _, res := range sess.Resources {
		// the same URL twice in one session keeps the first title
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO resources (url, session_number, title, description) VALUES (?, ?, ?, ?)
		`, res.URL, sess.Number, res.Title, res.Description); err != nil {
			return false, err
		}
	}

	return exists == 0, nil
}

// Get returns the stored session with the given number
func (s *SQLiteStore) Get(ctx context.Context, number int) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE number = ?`, number).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(errors.CodeNotFound, "session %d not stored", number)
		}
		return nil, errors.Wrap(err, errors.CodeStore, "get session")
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "decode session").WithDetail("session", number)
	}
	return &sess, nil
}

// List returns every stored session ordered by number
func (s *SQLiteStore) List(ctx context.Context) ([]session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT number, payload FROM sessions ORDER BY number`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "list sessions")
	}
	defer rows.Close()

	var out []session.Session
	for rows.Next() {
		var number int
		var payload string
		if err := rows.Scan(&number, &payload); err != nil {
			return nil, errors.Wrap(err, errors.CodeStore, "scan session")
		}
		var sess session.Session
		if err := json.Unmarshal([]byte(payload), &sess); err != nil {
			return nil, errors.Wrap(err, errors.CodeStore, "decode session").WithDetail("session", number)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "list sessions")
	}
	return out, nil
}

// Resources returns every stored resource link ordered by URL and session
func (s *SQLiteStore) Resources(ctx context.Context) ([]ResourceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, session_number, title, description
		FROM resources ORDER BY url, session_number
	`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "list resources")
	}
	defer rows.Close()

	var out []ResourceRow
	for rows.Next() {
		var row ResourceRow
		var desc sql.NullString
		if err := rows.Scan(&row.URL, &row.SessionNumber, &row.Title, &desc); err != nil {
			return nil, errors.Wrap(err, errors.CodeStore, "scan resource")
		}
		if desc.Valid {
			row.Description = &desc.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "list resources")
	}
	return out, nil
}

// Runs returns the most recent sync runs, newest first. limit <= 0 returns all.
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]SyncStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, created, updated FROM sync_runs
		ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "list sync runs")
	}
	defer rows.Close()

	var out []SyncStats
	for rows.Next() {
		var run SyncStats
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.Created, &run.Updated); err != nil {
			return nil, errors.Wrap(err, errors.CodeStore, "scan sync run")
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStore, "list sync runs")
	}
	return out, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
