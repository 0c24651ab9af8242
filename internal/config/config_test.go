package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "ADDR", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "PASSPORT_URL", "HELIX_URL",
		"TWITCH_WEB_URL", "UPSTREAM_TIMEOUT", "REDIS_URL", "CORS_ALLOWED_ORIGINS",
		"SPADE_CACHE_TTL", "WATCH_EVENT_HOSTS",
	} {
		if val, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7878" {
		t.Errorf("expected default addr 127.0.0.1:7878, got %q", cfg.Addr)
	}
	if cfg.Upstream.PassportURL != "https://passport.twitch.tv" {
		t.Errorf("unexpected passport url %q", cfg.Upstream.PassportURL)
	}
	if cfg.Upstream.HelixURL != "https://api.twitch.tv/helix" {
		t.Errorf("unexpected helix url %q", cfg.Upstream.HelixURL)
	}
	if cfg.Upstream.Timeout != 15*time.Second {
		t.Errorf("expected 15s upstream timeout, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without REDIS_URL")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected permissive CORS by default, got %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", "0.0.0.0:9000")
	t.Setenv("PASSPORT_URL", "http://localhost:1234/")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("WATCH_EVENT_HOSTS", " twitch.tv , ,example.com")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("addr not overridden: %q", cfg.Addr)
	}
	if cfg.Upstream.PassportURL != "http://localhost:1234" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Upstream.PassportURL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.Upstream.Timeout)
	}
	if !cfg.Redis.Enabled() {
		t.Error("redis should be enabled")
	}
	if got := cfg.Watch.EventHosts; len(got) != 2 || got[0] != "twitch.tv" || got[1] != "example.com" {
		t.Errorf("unexpected event hosts %v", got)
	}
	if cfg.IsDevelopment() {
		t.Error("production should not be development")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.Timeout != 15*time.Second {
		t.Errorf("expected fallback to 15s, got %v", cfg.Upstream.Timeout)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"addr without port", "ADDR", "localhost"},
		{"relative passport url", "PASSPORT_URL", "passport.twitch.tv"},
		{"negative timeout", "UPSTREAM_TIMEOUT", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
