package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"go.uber.org/zap"
)

// Cache stores response bodies by key. Entries never expire.
type Cache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	Set(ctx context.Context, key string, body []byte) error
	io.Closer
}

// CacheKey derives the storage key for a request URL.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// CachingGetter decorates another Getter with a response cache.
type CachingGetter struct {
	inner  Getter
	cache  Cache
	logger *zap.Logger
}

// NewCachingGetter returns a Getter that first looks in cache,
// falling back to inner (e.g. a RetryingGetter) on cache-miss.
func NewCachingGetter(inner Getter, cache Cache, logger *zap.Logger) *CachingGetter {
	return &CachingGetter{inner: inner, cache: cache, logger: logger}
}

func (c *CachingGetter) Get(ctx context.Context, url string) ([]byte, error) {
	key := CacheKey(url)

	// 1) Try cache
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache GET failed", zap.Error(err))
	} else if ok {
		c.logger.Debug("cache hit", zap.String("key", key))
		return body, nil
	}

	// 2) Cache-miss -> delegate to inner
	body, err = c.inner.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache
	if serr := c.cache.Set(ctx, key, body); serr != nil {
		c.logger.Warn("cache SET failed", zap.Error(serr))
	}
	return body, nil
}
