// Package rdx holds the Redis connection and the page cache used for public
// responses that a publish action revalidates.
package rdx

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys invalidated by the publish endpoint.
const (
	EventsPageKey  = "page:/api/events"
	SitemapPageKey = "page:/sitemap.xml"
)

// Connect opens a Redis connection from a redis:// URI and pings it.
func Connect(ctx context.Context, uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return conn, nil
}

// PageCache caches rendered response bodies. Misses and Redis failures both
// fall through to a fresh render, so a down Redis only costs latency.
type PageCache struct {
	conn   *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewPageCache(conn *redis.Client, ttl time.Duration, logger *slog.Logger) *PageCache {
	return &PageCache{conn: conn, ttl: ttl, logger: logger}
}

func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.conn.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return val, true
}

func (c *PageCache) Set(ctx context.Context, key string, val []byte) {
	if err := c.conn.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "err", err)
	}
}

func (c *PageCache) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.conn.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache del failed", "keys", keys, "err", err)
	}
}
