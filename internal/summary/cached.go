package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/core"
	"github.com/go-redis/redis/v8"
)

// DefaultKeyPrefix namespaces summary keys in Redis.
const DefaultKeyPrefix = "reader:summary:"

// Cache stores summaries by key. A miss is reported as found == false.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Cached serves summaries from a cache and falls back to the wrapped summarizer.
// Cache failures are logged and treated as misses.
type Cached struct {
	inner core.Summarizer
	cache Cache
	log   *logger.Logger
}

// NewCached wraps inner with cache.
func NewCached(inner core.Summarizer, cache Cache, log *logger.Logger) *Cached {
	return &Cached{
		inner: inner,
		cache: cache,
		log:   log,
	}
}

// Summarize returns the cached summary for text or computes and stores it.
func (c *Cached) Summarize(ctx context.Context, text string) (string, error) {
	key := Key(text)

	cached, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("Summary cache read failed for %s: %v", key, err)
	} else if found {
		return cached, nil
	}

	summary, err := c.inner.Summarize(ctx, text)
	if err != nil {
		return "", err
	}

	setErr := c.cache.Set(ctx, key, summary)
	if setErr != nil {
		c.log.Warn("Summary cache write failed for %s: %v", key, setErr)
	}

	return summary, nil
}

// Key derives the cache key for a passage.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get reads a summary.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to read summary from redis: %w", err)
	}

	return value, true, nil
}

// Set stores a summary.
func (r *RedisCache) Set(ctx context.Context, key, value string) error {
	err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to write summary to redis: %w", err)
	}

	return nil
}
