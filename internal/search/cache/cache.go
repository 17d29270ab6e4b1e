package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/catalog-search/pkg/logger"
)

// DefaultTTL is how long cached search responses stay fresh.
const DefaultTTL = 5 * time.Minute

// ResultCache is a best-effort Redis cache for search and trending
// responses. All failures degrade to a miss; a nil client disables caching
// entirely.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a result cache. Pass a nil client to disable.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Key derives a stable cache key from the request's canonical form.
func Key(prefix, canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return "search:" + prefix + ":" + hex.EncodeToString(sum[:])
}

// Get unmarshals a cached response into dest. Returns false on miss,
// disabled cache, or any Redis/decoding failure.
func (c *ResultCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Debug(ctx).Err(err).Str("cache_key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Corrupt cache entry")
		return false
	}
	return true
}

// Set stores a response. Failures are logged and ignored.
func (c *ResultCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Debug(ctx).Err(err).Str("cache_key", key).Msg("Cache write failed")
	}
}
