// Package catalogcache keeps the reference catalog snapshot in process.
package catalogcache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

const snapshotKey = "snapshot"

// source loads the catalog from storage.
type source interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
}

// Cache serves catalog snapshots from memory, reloading after ttl.
// Concurrent misses share one load.
type Cache struct {
	src        source
	lru        *expirable.LRU[string, *domcat.Snapshot]
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	size       prometheus.Gauge
	logger     *zap.Logger
}

// New creates a snapshot cache. cacheTotal (label "result") and size may be nil.
func New(
	src source,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	size prometheus.Gauge,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		src:        src,
		lru:        expirable.NewLRU[string, *domcat.Snapshot](1, nil, ttl),
		cacheTotal: cacheTotal,
		size:       size,
		logger:     logger,
	}
}

// Snapshot returns the cached catalog, loading it on a miss. Callers must
// treat the result as read-only.
func (c *Cache) Snapshot(ctx context.Context) (*domcat.Snapshot, error) {
	if snap, ok := c.lru.Get(snapshotKey); ok {
		c.inc("hit")
		return snap, nil
	}
	c.inc("miss")

	v, err, shared := c.group.Do(snapshotKey, func() (any, error) {
		snap, err := c.src.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		c.lru.Add(snapshotKey, snap)
		if c.size != nil {
			c.size.Set(float64(len(snap.Whiskies)))
		}
		c.logger.Debug("Catalog snapshot loaded",
			zap.Int("whiskies", len(snap.Whiskies)),
			zap.Int("distilleries", len(snap.Distilleries)),
		)
		return snap, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if shared {
		c.logger.Debug("Catalog load shared with concurrent caller")
	}
	return v.(*domcat.Snapshot), nil
}

// Invalidate drops the cached snapshot.
func (c *Cache) Invalidate() {
	c.lru.Purge()
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
