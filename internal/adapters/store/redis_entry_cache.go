package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

const entryKeyPrefix = "kickbox_verifier:verification:"

// RedisEntryCache is a best-effort per-entry read-through layer in front of
// the state store. Failures are logged and swallowed; the durable store
// stays authoritative.
type RedisEntryCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisEntryCache creates a read-through cache against a redis instance.
func NewRedisEntryCache(addr string, logger *zap.Logger) *RedisEntryCache {
	return &RedisEntryCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

// NewRedisEntryCacheFromClient wraps an existing redis client.
func NewRedisEntryCacheFromClient(client *redis.Client, logger *zap.Logger) *RedisEntryCache {
	return &RedisEntryCache{client: client, logger: logger}
}

// Get retrieves a single cached entry.
func (c *RedisEntryCache) Get(ctx context.Context, key string) (*core.CacheEntry, bool) {
	raw, err := c.client.Get(ctx, entryKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("Redis entry cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var entry core.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Debug("Discarding malformed redis cache entry", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	return &entry, true
}

// Set stores a single entry with a bounded lifetime.
func (c *RedisEntryCache) Set(ctx context.Context, key string, entry core.CacheEntry, ttl time.Duration) {
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Debug("Failed to encode redis cache entry", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, entryKeyPrefix+key, raw, ttl).Err(); err != nil {
		c.logger.Debug("Redis entry cache write failed", zap.Error(err))
	}
}

// Close closes the underlying redis client.
func (c *RedisEntryCache) Close() error {
	return c.client.Close()
}
