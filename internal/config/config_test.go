package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		if _, err := Load(); err == nil {
			t.Error("expected error when DATABASE_URL is unset")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/wa")
		t.Setenv("PORT", "")
		t.Setenv("APP_ENV", "")
		t.Setenv("SYNC_RATE_PER_MINUTE", "")
		t.Setenv("SHUTDOWN_TIMEOUT", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "4001" {
			t.Errorf("Port = %q, want 4001", cfg.Port)
		}
		if cfg.Env != "production" {
			t.Errorf("Env = %q, want production", cfg.Env)
		}
		if cfg.SyncRatePerMin != 5 {
			t.Errorf("SyncRatePerMin = %d, want 5", cfg.SyncRatePerMin)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/wa")
		t.Setenv("PORT", "8080")
		t.Setenv("SYNC_RATE_PER_MINUTE", "2")
		t.Setenv("SHUTDOWN_TIMEOUT", "5s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" || cfg.SyncRatePerMin != 2 || cfg.ShutdownTimeout != 5*time.Second {
			t.Errorf("overrides not applied: %+v", cfg)
		}
	})

	t.Run("ignores malformed numeric overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/wa")
		t.Setenv("SYNC_RATE_PER_MINUTE", "lots")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SyncRatePerMin != 5 {
			t.Errorf("SyncRatePerMin = %d, want default 5", cfg.SyncRatePerMin)
		}
	})
}
