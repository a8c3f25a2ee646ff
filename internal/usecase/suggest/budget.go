package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// BudgetAction defines behavior when the token budget is exhausted.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// Counter retention. A counter outlives its period so a restart near a
// boundary still finds it.
const (
	DailyRetention   = 48 * time.Hour
	MonthlyRetention = 62 * 24 * time.Hour
)

// BudgetStore persists token counters across restarts. Add sets ttl only
// when the counter has none; Load returns 0 for missing counters, in key order.
type BudgetStore interface {
	Add(ctx context.Context, key string, tokens int64, ttl time.Duration) error
	Load(ctx context.Context, keys ...string) ([]int64, error)
}

type period struct {
	name     string
	layout   string
	ttl      time.Duration
	limit    int64
	used     int64
	start    time.Time
	truncate func(time.Time) time.Time
}

func (p *period) roll(now time.Time) {
	if cur := p.truncate(now); cur.After(p.start) {
		p.start = cur
		p.used = 0
	}
}

func (p *period) exceeded() bool { return p.limit > 0 && p.used >= p.limit }

func (p *period) remaining() int64 {
	if p.limit == 0 {
		return -1
	}
	return max(p.limit-p.used, 0)
}

// BudgetTracker enforces daily and monthly token caps for the suggestion
// provider. Check is in-memory; Record writes behind to an optional store.
type BudgetTracker struct {
	mu       sync.Mutex
	daily    period
	monthly  period
	action   BudgetAction
	provider string
	store    BudgetStore
	now      func() time.Time
	logger   *zap.Logger
}

// NewBudgetTracker creates a tracker. A zero limit is unlimited.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	b := &BudgetTracker{
		daily: period{
			name: "daily", layout: "2006-01-02", ttl: DailyRetention,
			limit: dailyLimit, truncate: truncateToDay,
		},
		monthly: period{
			name: "monthly", layout: "2006-01", ttl: MonthlyRetention,
			limit: monthlyLimit, truncate: truncateToMonth,
		},
		action:   action,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	now := b.now()
	b.daily.start = truncateToDay(now)
	b.monthly.start = truncateToMonth(now)
	return b
}

// WithStore attaches a persistence store and loads the current counters.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	periods := []*period{&b.daily, &b.monthly}
	keys := make([]string, len(periods))
	for i, p := range periods {
		keys[i] = b.key(p, now)
	}
	vals, err := store.Load(ctx, keys...)
	if err != nil {
		b.logger.Warn("Failed to load suggestion budget", zap.Error(err))
		return b
	}
	for i, p := range periods {
		p.used = vals[i]
	}
	b.logger.Info("Suggestion budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.daily.used),
		zap.Int64("monthly_used", b.monthly.used),
	)
	return b
}

func (b *BudgetTracker) key(p *period, t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, b.provider, p.name, t.Format(p.layout))
}

// Check reports whether a new request may proceed.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.daily.roll(now)
	b.monthly.roll(now)
	if !b.daily.exceeded() && !b.monthly.exceeded() {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrSuggestQuotaExceeded
	}
	b.logger.Warn("Suggestion token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.daily.used),
		zap.Int64("daily_limit", b.daily.limit),
		zap.Int64("monthly_used", b.monthly.used),
		zap.Int64("monthly_limit", b.monthly.limit),
	)
	return nil
}

// Record adds consumed tokens, then persists them when a store is attached.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	now := b.now()
	type write struct {
		key string
		ttl time.Duration
	}
	writes := make([]write, 0, 2)
	for _, p := range []*period{&b.daily, &b.monthly} {
		p.roll(now)
		p.used += tokens
		writes = append(writes, write{key: b.key(p, now), ttl: p.ttl})
	}
	store := b.store
	b.mu.Unlock()

	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, w := range writes {
		if err := store.Add(ctx, w.key, tokens, w.ttl); err != nil {
			b.logger.Warn("Failed to persist suggestion budget", zap.String("key", w.key), zap.Error(err))
		}
	}
}

// RemainingDaily returns tokens left today, -1 when unlimited.
func (b *BudgetTracker) RemainingDaily() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.daily.roll(b.now())
	return b.daily.remaining()
}

// RemainingMonthly returns tokens left this month, -1 when unlimited.
func (b *BudgetTracker) RemainingMonthly() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.monthly.roll(b.now())
	return b.monthly.remaining()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
