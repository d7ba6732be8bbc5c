package advisory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores successful diagnoses keyed by their inputs.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// MemoryCache is a bounded in-process cache with expiry.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]memoryEntry
	maxSize int
	now     func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &MemoryCache{data: make(map[string]memoryEntry), maxSize: maxSize, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[key]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.data, key)
		return "", false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) >= c.maxSize {
		c.evict()
	}
	c.data[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
}

// evict drops expired entries, or an arbitrary one when none expired.
func (c *MemoryCache) evict() {
	now := c.now()
	for key, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, key)
		}
	}
	if len(c.data) < c.maxSize {
		return
	}
	for key := range c.data {
		delete(c.data, key)
		return
	}
}

// RedisCache stores diagnoses in Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisCache wraps a go-redis client.
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, prefix: "advisory:", logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.logger.Warn("redis set", zap.Error(err))
	}
}

// CachedConnector serves repeated requests from a cache. Only successful,
// non-empty answers are cached.
type CachedConnector struct {
	next  Connector
	cache Cache
	ttl   time.Duration
}

// NewCachedConnector decorates next with cache.
func NewCachedConnector(next Connector, cache Cache, ttl time.Duration) *CachedConnector {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedConnector{next: next, cache: cache, ttl: ttl}
}

// Analyze implements Connector.
func (c *CachedConnector) Analyze(ctx context.Context, description, contextLabel string) (string, error) {
	key := cacheKey(description, contextLabel)
	if val, ok := c.cache.Get(ctx, key); ok {
		return val, nil
	}
	text, err := c.next.Analyze(ctx, description, contextLabel)
	if err != nil {
		return "", err
	}
	if text != "" {
		c.cache.Set(ctx, key, text, c.ttl)
	}
	return text, nil
}

func cacheKey(description, contextLabel string) string {
	sum := sha256.Sum256([]byte(contextLabel + "\x00" + description))
	return hex.EncodeToString(sum[:])
}
