package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/klipgrab/klipgrab/internal/identity"
)

const settingSubscriptionRequired = "subscription_required"

// Channel is one mandatory-subscription channel.
type Channel struct {
	ID   identity.ChatID
	Name string
}

// AddChannel registers a subscription channel, replacing any entry with
// the same id.
func (s *Store) AddChannel(id identity.ChatID, name string) error {
	_, err := s.db.Exec(
		`INSERT INTO channels (channel_id, name) VALUES (?, ?)
		 ON CONFLICT(channel_id) DO UPDATE SET name = excluded.name`,
		int64(id), name,
	)
	if err != nil {
		return fmt.Errorf("add channel %d: %w", id, err)
	}
	return nil
}

// DeleteChannel removes a subscription channel. Deleting an unknown id is
// not an error.
func (s *Store) DeleteChannel(id identity.ChatID) error {
	if _, err := s.db.Exec(`DELETE FROM channels WHERE channel_id = ?`, int64(id)); err != nil {
		return fmt.Errorf("delete channel %d: %w", id, err)
	}
	return nil
}

// ListChannels returns all subscription channels.
func (s *Store) ListChannels() ([]Channel, error) {
	rows, err := s.db.Query(`SELECT channel_id, name FROM channels ORDER BY channel_id`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		var ch Channel
		var id int64
		if err := rows.Scan(&id, &ch.Name); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		ch.ID = identity.ChatID(id)
		out = append(out, ch)
	}
	return out, rows.Err()
}

// SubscriptionRequired reports whether mandatory subscription is enabled.
// Defaults to true when the setting has never been written.
func (s *Store) SubscriptionRequired() (bool, error) {
	var v string
	err := s.db.QueryRow(
		`SELECT value FROM settings WHERE key = ?`, settingSubscriptionRequired,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read subscription setting: %w", err)
	}
	return v == "true", nil
}

// SetSubscriptionRequired writes the mandatory-subscription toggle.
func (s *Store) SetSubscriptionRequired(required bool) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingSubscriptionRequired, strconv.FormatBool(required),
	)
	if err != nil {
		return fmt.Errorf("write subscription setting: %w", err)
	}
	return nil
}

// ToggleSubscription flips the mandatory-subscription toggle and returns
// the new value.
func (s *Store) ToggleSubscription() (bool, error) {
	current, err := s.SubscriptionRequired()
	if err != nil {
		return false, err
	}
	if err := s.SetSubscriptionRequired(!current); err != nil {
		return false, err
	}
	return !current, nil
}
