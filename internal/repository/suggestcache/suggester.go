package suggestcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/db"
	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// store is the consumer interface for the suggestion cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSuggester caches flavor suggestions in a key-value store.
type CachedSuggester struct {
	inner      flavor.Suggester
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner flavor.Suggester,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSuggester {
	return &CachedSuggester{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Suggest returns a cached profile or calls the inner suggester.
// Cache hit: token counts are 0 (nothing consumed).
func (c *CachedSuggester) Suggest(ctx context.Context, notes string) (flavor.Suggestion, error) {
	key := cacheKey(notes)

	if v, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return flavor.Suggestion{Profile: v}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Suggest(ctx, notes)
	if err != nil {
		return flavor.Suggestion{}, fmt.Errorf("suggest flavor: %w", err)
	}

	c.putToCache(ctx, key, result.Profile)
	return result, nil
}

func (c *CachedSuggester) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey normalizes case and whitespace so trivially different notes share an entry.
func cacheKey(notes string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(notes)), " ")
	h := sha256.Sum256([]byte(norm))
	return domain.KeyPrefix + "suggest:" + hex.EncodeToString(h[:])
}

func (c *CachedSuggester) getFromCache(ctx context.Context, key string) (flavor.Vector, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached suggestion", zap.String("key", key), zap.Error(err))
		}
		return flavor.Vector{}, false
	}

	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Warn("Failed to parse cached suggestion", zap.String("key", key), zap.Error(err))
		return flavor.Vector{}, false
	}
	return flavor.FromMap(m), true
}

func (c *CachedSuggester) putToCache(ctx context.Context, key string, v flavor.Vector) {
	data, err := json.Marshal(v.Map())
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache suggestion", zap.String("key", key), zap.Error(err))
	}
}
