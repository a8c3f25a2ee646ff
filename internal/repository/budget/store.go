// Package budget keeps suggestion token counters in the key-value store.
package budget

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type kv interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Counters implements suggest.BudgetStore on plain integer keys.
type Counters struct {
	kv kv
}

// New returns counters backed by s.
func New(s kv) *Counters {
	return &Counters{kv: s}
}

// Add bumps key by tokens. The first write to a key starts its ttl; later
// writes leave the expiry alone so a counter dies with its period.
func (c *Counters) Add(ctx context.Context, key string, tokens int64, ttl time.Duration) error {
	if err := c.kv.IncrBy(ctx, key, tokens); err != nil {
		return fmt.Errorf("add to counter %s: %w", key, err)
	}
	if err := c.kv.Expire(ctx, key, ttl, true); err != nil {
		return fmt.Errorf("expire counter %s: %w", key, err)
	}
	return nil
}

// Load reads counters in one round trip. Missing keys count as zero.
func (c *Counters) Load(ctx context.Context, keys ...string) ([]int64, error) {
	out := make([]int64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	raw, err := c.kv.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	for i, b := range raw {
		if b == nil {
			continue
		}
		n, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("counter %s holds %q: %w", keys[i], b, err)
		}
		out[i] = n
	}
	return out, nil
}
