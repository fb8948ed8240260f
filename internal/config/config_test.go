package config

import "testing"

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when BOT_TOKEN is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_USER_ID", "")
	t.Setenv("MEALSBOT_DB_PATH", "")
	t.Setenv("MEALSBOT_PORT", "")
	t.Setenv("MEALSBOT_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BotToken != "123:abc" {
		t.Errorf("token = %q", cfg.BotToken)
	}
	if cfg.AdminID != 0 {
		t.Errorf("admin id = %d, want 0", cfg.AdminID)
	}
	if cfg.DBPath != "mealsbot.db" || cfg.Port != "8080" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadParsesAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_USER_ID", "987654321")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminID != 987654321 {
		t.Errorf("admin id = %d", cfg.AdminID)
	}
}

func TestLoadRejectsBadAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_USER_ID", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed ADMIN_USER_ID")
	}
}
