// Package config defines the klipgrab configuration schema and loader.
//
// JSON keys use camelCase. The admin allow list always comes from the
// ADMIN_IDS environment variable when set; the file value is a fallback
// for deployments that cannot set env vars.
package config

import (
	"os"
	"path/filepath"

	"github.com/klipgrab/klipgrab/internal/identity"
)

// TelegramConfig configures the Telegram transport.
type TelegramConfig struct {
	Token          string `json:"token"`
	PollTimeout    int    `json:"pollTimeout"`
	ReplyToMessage bool   `json:"replyToMessage"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// DigestConfig configures the daily admin digest.
type DigestConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"` // standard 5-field cron expression
}

// Config is the on-disk configuration.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Database DatabaseConfig `json:"database"`
	Digest   DigestConfig   `json:"digest"`
	AdminIDs string         `json:"adminIds,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Telegram: TelegramConfig{PollTimeout: 30, ReplyToMessage: true},
		Database: DatabaseConfig{Path: filepath.Join(DataDir(), "klipgrab.db")},
		Digest:   DigestConfig{Schedule: "0 9 * * *"},
	}
}

// BotToken returns the Telegram bot token, preferring the
// TELEGRAM_BOT_TOKEN environment variable over the file value.
func (c *Config) BotToken() string {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		return v
	}
	return c.Telegram.Token
}

// AdminAllowList builds the admin allow list, preferring the ADMIN_IDS
// environment variable over the file value. Absence of both yields an
// empty list: the admin panel is disabled for everyone.
func (c *Config) AdminAllowList() identity.AllowList {
	raw := os.Getenv("ADMIN_IDS")
	if raw == "" {
		raw = c.AdminIDs
	}
	return identity.ParseAllowList(raw)
}
