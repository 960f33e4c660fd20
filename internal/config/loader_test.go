package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klipgrab/klipgrab/internal/identity"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Telegram.PollTimeout != def.Telegram.PollTimeout {
		t.Errorf("expected default poll timeout %d, got %d", def.Telegram.PollTimeout, cfg.Telegram.PollTimeout)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"telegram": map[string]any{
			"token":       "123:abc",
			"pollTimeout": 60,
		},
		"adminIds": "111,222",
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("expected token %q, got %q", "123:abc", cfg.Telegram.Token)
	}
	if cfg.Telegram.PollTimeout != 60 {
		t.Errorf("expected pollTimeout 60, got %d", cfg.Telegram.PollTimeout)
	}
	if cfg.AdminIDs != "111,222" {
		t.Errorf("expected adminIds %q, got %q", "111,222", cfg.AdminIDs)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Digest.Schedule != def.Digest.Schedule {
		t.Errorf("expected default schedule %q, got %q", def.Digest.Schedule, cfg.Digest.Schedule)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"telegram": map[string]any{"token": "123:abc"},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("expected token %q, got %q", "123:abc", cfg.Telegram.Token)
	}
	if cfg.Telegram.PollTimeout != def.Telegram.PollTimeout {
		t.Errorf("expected default pollTimeout %d, got %d", def.Telegram.PollTimeout, cfg.Telegram.PollTimeout)
	}
	if cfg.Digest.Schedule != def.Digest.Schedule {
		t.Errorf("expected default schedule %q, got %q", def.Digest.Schedule, cfg.Digest.Schedule)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	original := DefaultConfig()
	original.Telegram.Token = "42:token"
	original.AdminIDs = "7,8,9"

	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Telegram.Token != original.Telegram.Token {
		t.Errorf("token mismatch: got %q, want %q", loaded.Telegram.Token, original.Telegram.Token)
	}
	if loaded.AdminIDs != original.AdminIDs {
		t.Errorf("adminIds mismatch: got %q, want %q", loaded.AdminIDs, original.AdminIDs)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestAdminAllowList_EnvOverridesFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdminIDs = "111"

	t.Setenv("ADMIN_IDS", " 1, 2 ,3")
	list := cfg.AdminAllowList()
	for _, id := range []identity.UserID{1, 2, 3} {
		if !list.Contains(id) {
			t.Errorf("expected env-provided admin %d", id)
		}
	}
	if list.Contains(111) {
		t.Error("file value must be ignored when ADMIN_IDS is set")
	}
}

func TestAdminAllowList_FallsBackToFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdminIDs = "111"

	t.Setenv("ADMIN_IDS", "")
	list := cfg.AdminAllowList()
	if !list.Contains(111) {
		t.Error("expected file-provided admin 111")
	}
}

func TestAdminAllowList_UnsetYieldsEmpty(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("ADMIN_IDS", "")
	if got := len(cfg.AdminAllowList()); got != 0 {
		t.Errorf("expected empty allow list, got %d entries", got)
	}
}
