// Package store persists users, request activity, subscription channels,
// and bot settings in SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/klipgrab/klipgrab/internal/identity"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	telegram_id        INTEGER PRIMARY KEY,
	quality_preference TEXT NOT NULL DEFAULT 'h265',
	first_seen         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_active        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS requests (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	user_telegram_id INTEGER NOT NULL,
	content          TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS channels (
	channel_id INTEGER PRIMARY KEY,
	name       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies the
// schema. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// SQLite allows a single writer; one pooled connection also keeps
	// :memory: databases from splitting per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Touch inserts the user if unseen and refreshes their last_active stamp.
func (s *Store) Touch(id identity.UserID) error {
	_, err := s.db.Exec(
		`INSERT INTO users (telegram_id) VALUES (?)
		 ON CONFLICT(telegram_id) DO UPDATE SET last_active = CURRENT_TIMESTAMP`,
		int64(id),
	)
	if err != nil {
		return fmt.Errorf("touch user %d: %w", id, err)
	}
	return nil
}

// SetQuality stores the user's output quality preference.
func (s *Store) SetQuality(id identity.UserID, quality string) error {
	if err := s.Touch(id); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE users SET quality_preference = ? WHERE telegram_id = ?`,
		quality, int64(id),
	)
	if err != nil {
		return fmt.Errorf("set quality for %d: %w", id, err)
	}
	return nil
}

// Quality returns the user's quality preference, defaulting to h265 for
// unknown users.
func (s *Store) Quality(id identity.UserID) (string, error) {
	var q string
	err := s.db.QueryRow(
		`SELECT quality_preference FROM users WHERE telegram_id = ?`, int64(id),
	).Scan(&q)
	if err == sql.ErrNoRows {
		return "h265", nil
	}
	if err != nil {
		return "", fmt.Errorf("quality for %d: %w", id, err)
	}
	return q, nil
}

// RecordRequest stores one content request for the user.
func (s *Store) RecordRequest(id identity.UserID, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO requests (user_telegram_id, content) VALUES (?, ?)`,
		int64(id), content,
	)
	if err != nil {
		return fmt.Errorf("record request for %d: %w", id, err)
	}
	return nil
}

// TotalUsers returns the number of known users.
func (s *Store) TotalUsers() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// TotalRequests returns the number of recorded requests.
func (s *Store) TotalRequests() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

// UserCount is one row of the top-requesters ranking.
type UserCount struct {
	User  identity.UserID
	Count int64
}

// TopRequesters returns up to limit users ordered by request count.
func (s *Store) TopRequesters(limit int) ([]UserCount, error) {
	rows, err := s.db.Query(
		`SELECT user_telegram_id, COUNT(*) AS count
		 FROM requests
		 GROUP BY user_telegram_id
		 ORDER BY count DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top requesters: %w", err)
	}
	defer rows.Close()

	var out []UserCount
	for rows.Next() {
		var uc UserCount
		var uid int64
		if err := rows.Scan(&uid, &uc.Count); err != nil {
			return nil, fmt.Errorf("scan top requester: %w", err)
		}
		uc.User = identity.UserID(uid)
		out = append(out, uc)
	}
	return out, rows.Err()
}

// UserActivity is one row of the recent-users listing. LastActive is the
// raw timestamp string as stored by SQLite.
type UserActivity struct {
	User       identity.UserID
	LastActive string
}

// RecentUsers returns up to limit users ordered by most recent activity.
func (s *Store) RecentUsers(limit int) ([]UserActivity, error) {
	rows, err := s.db.Query(
		`SELECT telegram_id, last_active
		 FROM users
		 ORDER BY last_active DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	defer rows.Close()

	var out []UserActivity
	for rows.Next() {
		var ua UserActivity
		var uid int64
		if err := rows.Scan(&uid, &ua.LastActive); err != nil {
			return nil, fmt.Errorf("scan recent user: %w", err)
		}
		ua.User = identity.UserID(uid)
		out = append(out, ua)
	}
	return out, rows.Err()
}

// AllUserIDs returns every known user id, for broadcast fan-out.
func (s *Store) AllUserIDs() ([]identity.UserID, error) {
	rows, err := s.db.Query(`SELECT telegram_id FROM users`)
	if err != nil {
		return nil, fmt.Errorf("all user ids: %w", err)
	}
	defer rows.Close()

	var out []identity.UserID
	for rows.Next() {
		var uid int64
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, identity.UserID(uid))
	}
	return out, rows.Err()
}
