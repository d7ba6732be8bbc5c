package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("unexpected addr %s", cfg.App.Addr())
	}
	if cfg.Advisory.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected model %s", cfg.Advisory.Model)
	}
	if cfg.Advisory.APIKey != "" || cfg.Redis.Addr != "" {
		t.Errorf("expected advisory key and redis to be unset")
	}
	if cfg.Forms.IdleTimeout() != 2*time.Hour {
		t.Errorf("unexpected idle timeout %s", cfg.Forms.IdleTimeout())
	}
}

func TestLoadAPIKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Advisory.APIKey != "legacy-key" {
		t.Fatalf("expected API_KEY fallback, got %q", cfg.Advisory.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Advisory.APIKey != "primary-key" {
		t.Fatalf("expected GEMINI_API_KEY to win, got %q", cfg.Advisory.APIKey)
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric REDIS_DB")
	}
}
