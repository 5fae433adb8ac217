// Package resultcache memoizes search results in a key-value store.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagquery/internal/db"
	"github.com/kailas-cloud/tagquery/internal/domain"
	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
)

var cacheKeyPrefix = domain.KeyPrefix + "result:"

// searcher is the decorated search backend.
type searcher interface {
	Search(ctx context.Context, q query.Query) (result.Result, error)
}

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options scope cached entries. Results computed over a different corpus
// or with a different cap never share a key.
type Options struct {
	Fingerprint uint64
	MaxResults  int
	TTL         time.Duration
}

// CachedSearcher caches search results in a key-value store.
type CachedSearcher struct {
	inner      searcher
	store      store
	namespace  [16]byte
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner searcher,
	s store,
	opts Options,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	c := &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        opts.TTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
	binary.BigEndian.PutUint64(c.namespace[:8], opts.Fingerprint)
	binary.BigEndian.PutUint64(c.namespace[8:], uint64(opts.MaxResults))
	return c
}

type cachedResult struct {
	Images []string `json:"images"`
	Count  int      `json:"count"`
}

// Search returns a cached result or runs the query on the inner searcher.
// Store failures never fail the search.
func (c *CachedSearcher) Search(ctx context.Context, q query.Query) (result.Result, error) {
	key := c.cacheKey(q)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}

	c.incCache("miss")

	res, err := c.inner.Search(ctx, q)
	if err != nil {
		return result.Result{}, fmt.Errorf("search: %w", err)
	}

	c.putToCache(ctx, key, res)
	return res, nil
}

func (c *CachedSearcher) incCache(res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(res).Inc()
	}
}

func (c *CachedSearcher) cacheKey(q query.Query) string {
	h := sha256.New()
	_, _ = h.Write(c.namespace[:])
	_, _ = h.Write([]byte(q.String()))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (result.Result, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached result", zap.String("key", key), zap.Error(err))
		}
		return result.Result{}, false
	}
	if len(data) == 0 {
		return result.Result{}, false
	}

	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		c.logger.Warn("Failed to parse cached result", zap.String("key", key), zap.Error(err))
		return result.Result{}, false
	}
	return result.New(cr.Images, cr.Count), true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, res result.Result) {
	data, err := json.Marshal(cachedResult{Images: res.Images(), Count: res.Count()})
	if err != nil {
		c.logger.Warn("Failed to encode result", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache result", zap.String("key", key), zap.Error(err))
	}
}
