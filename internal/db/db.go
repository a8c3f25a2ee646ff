package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	KVStore
	SortedSetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVItem holds a single key+value pair for pipelined SET.
type KVItem struct {
	Key   string
	Value []byte
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns values in key order; missing keys yield nil entries.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, items []KVItem) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	IncrBy(ctx context.Context, key string, val int64) error
	// Expire sets a TTL; with nx it only applies when the key has none.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ZMember is a sorted set member with its score.
type ZMember struct {
	Member string
	Score  float64
}

// SortedSetStore provides sorted set operations used as secondary indexes.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key string, members ...ZMember) error
	ZRem(ctx context.Context, key string, members ...string) error
	// ZRange returns members by rank, inclusive; stop -1 means the end.
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
}
