// Package ratelimit caps how many blog generations a user can start per time window.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
)

const redisTimeout = 2 * time.Second

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

var (
	// ErrInvalidLimit is returned for a non positive limit or window.
	ErrInvalidLimit = errors.New("rate limiter requires positive limit and window")
	// ErrRedisAddrEmpty is returned when no redis address is configured.
	ErrRedisAddrEmpty = errors.New("rate limiter redis addr is required")
)

// FixedWindowLimiter counts requests per key in redis, shared by every instance of the dashboard.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration
	prefix string
	client *redis.Client
	now    func() time.Time
}

// New creates a limiter from the configuration.
func New(cfg config.RateLimit) (*FixedWindowLimiter, error) {
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, ErrInvalidLimit
	}

	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, ErrRedisAddrEmpty
	}

	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "localblog:ratelimit"
	}

	return &FixedWindowLimiter{
		limit:  cfg.Limit,
		window: cfg.Window,
		prefix: prefix,
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Password,
		}),
		now: time.Now,
	}, nil
}

// Allow reports whether key is still within its quota.
// Redis failures deny the request.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil {
		return false
	}

	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}

	windowMs := l.window.Milliseconds()
	slot := l.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("rate limiter unavailable, denying request")

		return false
	}

	return count <= int64(l.limit)
}

// Close releases the redis connection pool.
func (l *FixedWindowLimiter) Close() error {
	return l.client.Close()
}
