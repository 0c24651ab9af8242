// Package database opens the optional Redis connection used for caching.
// The server runs without it; callers check config.RedisConfig.Enabled
// before calling NewRedis.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/twester/twester/internal/config"
)

// pingTimeout bounds the connectivity check done at startup.
const pingTimeout = 5 * time.Second

// NewRedis parses cfg.URL, connects, and pings before returning. A client
// that cannot answer a PING is closed and reported as an error so startup
// fails loudly instead of every cache lookup failing later.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	opts.ClientName = "twester"

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", opts.Addr, err)
	}

	slog.Info("redis connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))
	return client, nil
}
