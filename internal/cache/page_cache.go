// Package cache holds the short-lived page cache for the public book listing.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"bookshop/internal/logging"
	"bookshop/internal/metrics"
)

const keyPrefix = "bookshop:page:"

// PageCache stores rendered page bodies by key.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
	// Invalidate drops every cached page.
	Invalidate(ctx context.Context) error
}

type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL, applies password if set and verifies
// the connection.
func NewRedisClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewRedisPageCache(client *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, ttl: ttl}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, body []byte) error {
	if c.ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, keyPrefix+key, body, c.ttl).Err()
}

func (c *RedisPageCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Nop never stores anything; used when redis is unavailable.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Invalidate(context.Context) error                  { return nil }

// Lookup wraps Get with metrics. Errors count as a miss.
func Lookup(ctx context.Context, pc PageCache, key string) ([]byte, bool) {
	b, ok, err := pc.Get(ctx, key)
	switch {
	case err != nil:
		metrics.PageCacheTotal.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Str("key", key).Msg("page cache read failed")
		return nil, false
	case ok:
		metrics.PageCacheTotal.WithLabelValues("hit").Inc()
	default:
		metrics.PageCacheTotal.WithLabelValues("miss").Inc()
	}
	return b, ok
}

// InvalidateOnSuccess drops cached pages after a handler answered below 400.
// Redirects count as success.
func InvalidateOnSuccess(pc PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if err := pc.Invalidate(c.Request.Context()); err != nil {
			logging.Warn().Err(err).Msg("page cache invalidation failed")
		}
	}
}
