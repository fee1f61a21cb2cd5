package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/boost"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
)

const cacheKeyPrefix = "forumsearch:results:"

// Compile-time check: CachedSearcher implements db.IndexSearcher.
var _ db.IndexSearcher = (*CachedSearcher)(nil)

// store is the consumer interface for the result cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher caches index hits for identical query documents.
// Cache failures never fail a search.
type CachedSearcher struct {
	inner      db.IndexSearcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner db.IndexSearcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Ping delegates to the wrapped searcher.
func (c *CachedSearcher) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx) //nolint:wrapcheck // decorator
}

// Execute returns cached hits or runs the query on the wrapped searcher.
func (c *CachedSearcher) Execute(ctx context.Context, index string, doc *boost.Document) ([]hit.Hit, error) {
	key, err := cacheKey(index, doc)
	if err != nil {
		c.logger.Warn("Failed to build result cache key", zap.Error(err))
		return c.inner.Execute(ctx, index, doc) //nolint:wrapcheck // decorator
	}

	if hits, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return hits, nil
	}
	c.incCache("miss")

	hits, err := c.inner.Execute(ctx, index, doc)
	if err != nil {
		return nil, err //nolint:wrapcheck // decorator
	}

	c.putToCache(ctx, key, hits)
	return hits, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(index string, doc *boost.Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal query document: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(index))
	h.Write([]byte{0})
	h.Write(body)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]hit.Hit, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached results", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	hits, err := decodeHits(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached results", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return hits, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, hits []hit.Hit) {
	data, err := encodeHits(hits)
	if err != nil {
		c.logger.Warn("Failed to encode results for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache results", zap.String("key", key), zap.Error(err))
	}
}
