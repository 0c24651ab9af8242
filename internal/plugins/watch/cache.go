package watch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "twester:spade:"

// URLCache stores discovered spade URLs per streamer login.
type URLCache interface {
	// Get returns the cached URL and true, or "" and false on a miss.
	Get(ctx context.Context, login string) (string, bool, error)
	Set(ctx context.Context, login, spadeURL string) error
}

type redisURLCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisURLCache returns a cache whose entries expire after ttl.
func NewRedisURLCache(rdb *redis.Client, ttl time.Duration) URLCache {
	return &redisURLCache{rdb: rdb, ttl: ttl}
}

func (c *redisURLCache) Get(ctx context.Context, login string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, cacheKey(login)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *redisURLCache) Set(ctx context.Context, login, spadeURL string) error {
	return c.rdb.Set(ctx, cacheKey(login), spadeURL, c.ttl).Err()
}

// Logins are case-insensitive on Twitch.
func cacheKey(login string) string {
	return cacheKeyPrefix + strings.ToLower(login)
}

type noopURLCache struct{}

// NewNoopURLCache returns a cache that never stores anything. Used when
// Redis is not configured.
func NewNoopURLCache() URLCache {
	return noopURLCache{}
}

func (noopURLCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (noopURLCache) Set(context.Context, string, string) error         { return nil }
