package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ActivityLog is a local, append-only record of what the client did
// (navigations, logins, sends, uploads). It complements the server-side
// activity endpoints: the local log also covers unauthenticated and offline
// use, and `retrievex activity` reads it without a network round-trip.
type ActivityLog struct {
	db *sql.DB
}

// Activity is one recorded client action.
type Activity struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func ActivityPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "activity.sqlite"), nil
}

// OpenActivityLog opens (creating if needed) the local activity database.
func OpenActivityLog(ctx context.Context) (*ActivityLog, error) {
	path, err := ActivityPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers (CLI and TUI may run together);
	// busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS activities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  activity_type TEXT NOT NULL,
  activity_data TEXT,
  created_at TEXT NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ActivityLog{db: db}, nil
}

func (l *ActivityLog) Close() error { return l.db.Close() }

// Append records one activity. Data may be nil.
func (l *ActivityLog) Append(ctx context.Context, activityType string, data map[string]any) error {
	var payload any
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO activities (activity_type, activity_data, created_at) VALUES (?, ?, ?)",
		activityType, payload, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Recent returns the newest activities first. limit <= 0 means 100.
func (l *ActivityLog) Recent(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		"SELECT activity_type, activity_data, created_at FROM activities ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var (
			a    Activity
			data sql.NullString
			ts   string
		)
		if err := rows.Scan(&a.Type, &data, &ts); err != nil {
			return nil, err
		}
		if data.Valid && data.String != "" {
			// Tolerate rows written by older builds with unparseable payloads.
			_ = json.Unmarshal([]byte(data.String), &a.Data)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			a.CreatedAt = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
