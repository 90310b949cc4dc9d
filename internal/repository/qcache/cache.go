// Package qcache caches computed result pages in a key-value store.
// The cache is best-effort: any backend failure degrades to a miss, and the
// engine recomputes the page from the snapshot.
package qcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/truestate/salesdex/internal/db"
	"github.com/truestate/salesdex/internal/domain/query/result"
)

const cacheKeyPrefix = "salesdex:page:"

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores JSON-encoded result pages with a TTL.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a page cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns a cached page for the canonical request key, if present.
func (c *Cache) Get(ctx context.Context, key string) (result.Page, bool) {
	data, err := c.store.Get(ctx, c.cacheKey(key))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached page", zap.Error(err))
		}
		c.incCache("miss")
		return result.Page{}, false
	}

	var page result.Page
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("Failed to decode cached page", zap.Error(err))
		c.incCache("miss")
		return result.Page{}, false
	}

	c.incCache("hit")
	return page, true
}

// Set stores a computed page under the canonical request key.
func (c *Cache) Set(ctx context.Context, key string, page result.Page) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("Failed to encode page for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.cacheKey(key), data, c.ttl); err != nil {
		c.logger.Warn("Failed to store cached page", zap.Error(err))
	}
}

// cacheKey hashes the canonical request key so Redis keys stay bounded
// regardless of how many filter values the request carries.
func (c *Cache) cacheKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
