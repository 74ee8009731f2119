// Package redis provides the Redis-backed product cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// scanBatch is the SCAN COUNT hint used by Clear.
const scanBatch = 200

// ClientConfig holds Redis connection settings.
type ClientConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewClient creates a client and verifies it with PING.
func NewClient(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// Cache implements domain.Cache on Redis. All keys live under
// "<prefix>:" so Clear never touches foreign keys.
type Cache struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewCache creates a cache namespaced by prefix.
func NewCache(client redis.UniversalClient, prefix string, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		logger: logger.Named("cache"),
	}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Get returns nil, nil on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.logger.Debug("cache miss", zap.String("key", key))
		return nil, nil
	case err != nil:
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("cache hit", zap.String("key", key), zap.Int("bytes", len(data)))

	return data, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Delete is idempotent.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

// Clear deletes every key under the prefix, one SCAN page at a time.
func (c *Cache) Clear(ctx context.Context) error {
	pattern := c.prefix + ":*"
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			c.logger.Error("cache clear scan failed", zap.String("pattern", pattern), zap.Error(err))
			return err
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Error("cache clear delete failed", zap.Int("keys", len(keys)), zap.Error(err))
				return err
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info("cache cleared", zap.Int("keys", deleted))

	return nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
