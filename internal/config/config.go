// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Defaults match the desktop client's expectations, so the
// server runs with no environment at all.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Addr is the host:port the HTTP server listens on (default: 127.0.0.1:7878).
	Addr string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// ShutdownTimeout is how long in-flight requests get to drain on SIGTERM.
	ShutdownTimeout time.Duration

	// Upstream holds the Twitch endpoints and outbound HTTP settings.
	Upstream UpstreamConfig

	// Redis holds the optional Redis connection settings.
	Redis RedisConfig

	// CORS holds cross-origin settings for the first-party client.
	CORS CORSConfig

	// Watch holds settings for the minute-watched relay.
	Watch WatchConfig
}

// UpstreamConfig holds the base URLs of the Twitch services we proxy.
// The client identity (Client-Id, User-Agent) is deliberately not here: it
// is a protocol constant, see package upstream.
type UpstreamConfig struct {
	// PassportURL is the base of the password-login service.
	PassportURL string

	// HelixURL is the base of the Helix REST API.
	HelixURL string

	// WebURL is the base of the public website, used to discover spade URLs.
	WebURL string

	// Timeout bounds every outbound request, including reading the body.
	Timeout time.Duration
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	// Empty disables Redis; caches fall back to no-ops.
	URL string
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// CORSConfig holds the allowed origins. ["*"] allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

// WatchConfig holds minute-watched relay settings.
type WatchConfig struct {
	// SpadeCacheTTL is how long a discovered spade URL is cached per streamer.
	SpadeCacheTTL time.Duration

	// EventHosts are the host suffixes events may be forwarded to.
	EventHosts []string
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if a value is present but unusable.
func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Addr:            getEnv("ADDR", "127.0.0.1:7878"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		Upstream: UpstreamConfig{
			PassportURL: strings.TrimRight(getEnv("PASSPORT_URL", "https://passport.twitch.tv"), "/"),
			HelixURL:    strings.TrimRight(getEnv("HELIX_URL", "https://api.twitch.tv/helix"), "/"),
			WebURL:      strings.TrimRight(getEnv("TWITCH_WEB_URL", "https://www.twitch.tv"), "/"),
			Timeout:     getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},

		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},

		Watch: WatchConfig{
			SpadeCacheTTL: getEnvDuration("SPADE_CACHE_TTL", time.Hour),
			EventHosts:    getEnvList("WATCH_EVENT_HOSTS", []string{"twitch.tv", "ttvnw.net"}),
		},
	}

	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return nil, fmt.Errorf("ADDR must be host:port: %w", err)
	}

	for name, raw := range map[string]string{
		"PASSPORT_URL":   cfg.Upstream.PassportURL,
		"HELIX_URL":      cfg.Upstream.HelixURL,
		"TWITCH_WEB_URL": cfg.Upstream.WebURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if cfg.Upstream.Timeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "15s") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvList reads a comma-separated env var, dropping empty entries.
func getEnvList(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
