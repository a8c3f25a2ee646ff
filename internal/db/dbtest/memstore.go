// Package dbtest provides an in-memory db.Store for tests.
package dbtest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/kailas-cloud/caskbook/internal/db"
)

var _ db.Store = (*MemStore)(nil)

// MemStore is a goroutine-safe in-memory db.Store. TTLs are recorded but
// never expire keys.
type MemStore struct {
	mu    sync.Mutex
	kv    map[string][]byte
	ttl   map[string]time.Duration
	zsets map[string]map[string]float64

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		kv:    make(map[string][]byte),
		ttl:   make(map[string]time.Duration),
		zsets: make(map[string]map[string]float64),
	}
}

// Ping implements db.Pinger.
func (m *MemStore) Ping(context.Context) error { return m.Err }

// Close is a no-op.
func (m *MemStore) Close() {}

// WaitForReady returns immediately.
func (m *MemStore) WaitForReady(context.Context, time.Duration) error { return m.Err }

// Get implements db.KVStore.
func (m *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// MGet implements db.KVStore.
func (m *MemStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := m.kv[k]; ok {
			out[i] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// Set implements db.KVStore.
func (m *MemStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.kv[key] = append([]byte(nil), value...)
	delete(m.ttl, key)
	return nil
}

// SetMulti implements db.KVStore.
func (m *MemStore) SetMulti(ctx context.Context, items []db.KVItem) error {
	for _, it := range items {
		if err := m.Set(ctx, it.Key, it.Value); err != nil {
			return err
		}
	}
	return nil
}

// SetNX implements db.KVStore.
func (m *MemStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.kv[key]; ok {
		return false, nil
	}
	m.kv[key] = append([]byte(nil), value...)
	return true, nil
}

// SetWithTTL implements db.KVStore.
func (m *MemStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.Set(ctx, key, value); err != nil {
		return err
	}
	m.mu.Lock()
	m.ttl[key] = ttl
	m.mu.Unlock()
	return nil
}

// IncrBy implements db.KVStore.
func (m *MemStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	var cur int64
	if raw, ok := m.kv[key]; ok {
		n, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: err}
		}
		cur = n
	}
	m.kv[key] = []byte(strconv.FormatInt(cur+val, 10))
	return nil
}

// Expire implements db.KVStore.
func (m *MemStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.kv[key]; !ok {
		return nil
	}
	if _, has := m.ttl[key]; has && nx {
		return nil
	}
	m.ttl[key] = ttl
	return nil
}

// TTL returns the TTL recorded for key.
func (m *MemStore) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttl[key]
}

// Del implements db.KVStore. It also removes sorted sets.
func (m *MemStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, k := range keys {
		delete(m.kv, k)
		delete(m.ttl, k)
		delete(m.zsets, k)
	}
	return nil
}

// Exists implements db.KVStore.
func (m *MemStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, kv := m.kv[key]
	_, z := m.zsets[key]
	return kv || z, nil
}

// Keys returns the number of plain keys held.
func (m *MemStore) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.kv)
}

// ZAdd implements db.SortedSetStore.
func (m *MemStore) ZAdd(_ context.Context, key string, members ...db.ZMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	z, ok := m.zsets[key]
	if !ok {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	for _, mem := range members {
		z[mem.Member] = mem.Score
	}
	return nil
}

// ZRem implements db.SortedSetStore.
func (m *MemStore) ZRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	z := m.zsets[key]
	for _, mem := range members {
		delete(z, mem)
	}
	if z != nil && len(z) == 0 {
		delete(m.zsets, key)
	}
	return nil
}

// ZRange implements db.SortedSetStore with Redis ordering: score, then member.
func (m *MemStore) ZRange(_ context.Context, key string, start, stop int64, rev bool) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	z := m.zsets[key]
	members := make([]string, 0, len(z))
	for mem := range z {
		members = append(members, mem)
	}
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if z[a] != z[b] {
			return z[a] < z[b]
		}
		return a < b
	})
	if rev {
		for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
			members[i], members[j] = members[j], members[i]
		}
	}

	n := int64(len(members))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	start = max(start, 0)
	stop = min(stop, n-1)
	if start > stop {
		return []string{}, nil
	}
	return members[start : stop+1], nil
}

// ZCard implements db.SortedSetStore.
func (m *MemStore) ZCard(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.zsets[key])), nil
}
