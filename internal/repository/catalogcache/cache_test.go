package catalogcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

type mockSource struct {
	calls atomic.Int32
	snap  *domcat.Snapshot
	err   error
	delay time.Duration
}

func (m *mockSource) Snapshot(context.Context) (*domcat.Snapshot, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.snap, m.err
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func TestSnapshot_MissThenHit(t *testing.T) {
	src := &mockSource{snap: &domcat.Snapshot{Whiskies: []domcat.Whisky{{Slug: "a"}}}}
	counter := newCounter()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_size"})
	c := New(src, time.Minute, counter, gauge, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		snap, err := c.Snapshot(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(snap.Whiskies) != 1 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	}

	if src.calls.Load() != 1 {
		t.Errorf("expected one load, got %d", src.calls.Load())
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("misses = %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("hits = %v", got)
	}
	if got := testutil.ToFloat64(gauge); got != 1 {
		t.Errorf("size gauge = %v", got)
	}
}

func TestSnapshot_Invalidate(t *testing.T) {
	src := &mockSource{snap: &domcat.Snapshot{}}
	c := New(src, time.Minute, nil, nil, zap.NewNop())
	ctx := context.Background()

	_, _ = c.Snapshot(ctx)
	c.Invalidate()
	_, _ = c.Snapshot(ctx)

	if src.calls.Load() != 2 {
		t.Errorf("expected reload after invalidate, got %d loads", src.calls.Load())
	}
}

func TestSnapshot_Expires(t *testing.T) {
	src := &mockSource{snap: &domcat.Snapshot{}}
	c := New(src, 20*time.Millisecond, nil, nil, zap.NewNop())
	ctx := context.Background()

	_, _ = c.Snapshot(ctx)
	time.Sleep(60 * time.Millisecond)
	_, _ = c.Snapshot(ctx)

	if src.calls.Load() != 2 {
		t.Errorf("expected reload after ttl, got %d loads", src.calls.Load())
	}
}

func TestSnapshot_ErrorNotCached(t *testing.T) {
	src := &mockSource{err: errors.New("db down")}
	c := New(src, time.Minute, nil, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := c.Snapshot(ctx); err == nil {
		t.Fatal("expected error")
	}
	src.err = nil
	src.snap = &domcat.Snapshot{}
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
}

func TestSnapshot_ConcurrentMissesShareLoad(t *testing.T) {
	src := &mockSource{snap: &domcat.Snapshot{}, delay: 50 * time.Millisecond}
	c := New(src, time.Minute, nil, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Snapshot(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := src.calls.Load(); n != 1 {
		t.Errorf("expected a single shared load, got %d", n)
	}
}
