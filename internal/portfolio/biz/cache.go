package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/pkg/utils/json"
)

// QueryCacheConfig configures the answer cache.
type QueryCacheConfig struct {
	// Enabled toggles the cache.
	Enabled bool
	// TTL is the cache entry lifetime.
	TTL time.Duration
	// KeyPrefix namespaces the cache keys.
	KeyPrefix string
}

// QueryCache caches ask pipeline results in Redis, keyed by the SHA-256
// of the question. All cache errors degrade to the live pipeline.
type QueryCache struct {
	redis  *goredis.Client
	config *QueryCacheConfig
}

// NewQueryCache creates a query cache.
func NewQueryCache(redis *goredis.Client, config *QueryCacheConfig) *QueryCache {
	if config == nil {
		config = &QueryCacheConfig{
			Enabled:   false,
			TTL:       time.Hour,
			KeyPrefix: "portfolio:ask:",
		}
	}
	return &QueryCache{
		redis:  redis,
		config: config,
	}
}

func (c *QueryCache) key(question string) string {
	hash := sha256.Sum256([]byte(question))
	return c.config.KeyPrefix + hex.EncodeToString(hash[:])
}

// Get returns the cached result for the question, or nil on miss.
func (c *QueryCache) Get(ctx context.Context, question string) (*model.AskResult, error) {
	if !c.config.Enabled || c.redis == nil {
		return nil, nil
	}

	cacheKey := c.key(question)
	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		logger.Warnw("Failed to read answer cache", "error", err, "key", cacheKey)
		return nil, err
	}

	var result model.AskResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warnw("Dropping corrupt cache entry", "error", err, "key", cacheKey)
		_ = c.redis.Del(ctx, cacheKey).Err()
		return nil, err
	}

	logger.Infow("Answer cache hit", "key", cacheKey, "answer_length", len(result.Answer))
	return &result, nil
}

// Set caches the result for the question.
func (c *QueryCache) Set(ctx context.Context, question string, result *model.AskResult) error {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		logger.Warnw("Failed to marshal result for caching", "error", err)
		return err
	}

	cacheKey := c.key(question)
	if err := c.redis.Set(ctx, cacheKey, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("Failed to write answer cache", "error", err, "key", cacheKey)
		return err
	}

	return nil
}

// Clear removes every cached answer.
func (c *QueryCache) Clear(ctx context.Context) error {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	iter := c.redis.Scan(ctx, 0, c.config.KeyPrefix+"*", 0).Iterator()
	deleted := 0
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnw("Failed to delete cache key", "error", err, "key", iter.Val())
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return err
	}

	logger.Infow("Answer cache cleared", "deleted", deleted)
	return nil
}
