// Package store keeps privacy-conscious visit records and contact submission
// outcomes in sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RetentionMonths is how long visit records are kept.
const RetentionMonths = 12

type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	TotalVisitors     int64   `json:"total_visitors"`
	UniqueVisitors    int64   `json:"unique_visitors"`
	VisitorsToday     int64   `json:"visitors_today"`
	VisitorsThisWeek  int64   `json:"visitors_this_week"`
	SubmissionsOK     int64   `json:"submissions_ok"`
	SubmissionsFailed int64   `json:"submissions_failed"`
	RecentVisitors    []Visit `json:"recent_visitors"`
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_ts ON visitors(ts);
CREATE TABLE IF NOT EXISTS contact_submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ok INTEGER NOT NULL,
	ts INTEGER NOT NULL
);`

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordSubmission logs the outcome of a contact submission. The message
// itself is never stored.
func (s *Store) RecordSubmission(ctx context.Context, ok bool, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (ok, ts) VALUES (?, ?)`, ok, at.Unix())
	if err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}
	return nil
}

// Cleanup deletes visit records older than the retention window relative
// to now and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, -RetentionMonths, 0)
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{RecentVisitors: []Visit{}}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{dayStart.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{weekAgo.Unix()}},
		{&stats.SubmissionsOK, `SELECT COUNT(*) FROM contact_submissions WHERE ok = 1`, nil},
		{&stats.SubmissionsFailed, `SELECT COUNT(*) FROM contact_submissions WHERE ok = 0`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("loading stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("loading recent visitors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v  Visit
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		stats.RecentVisitors = append(stats.RecentVisitors, v)
	}
	return stats, rows.Err()
}
