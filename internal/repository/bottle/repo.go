package bottle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/caskbook/internal/db"
	"github.com/kailas-cloud/caskbook/internal/domain"
	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
)

// store is the consumer interface for bottles (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	ZAdd(ctx context.Context, key string, members ...db.ZMember) error
	ZRem(ctx context.Context, key string, members ...string) error
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
}

// Repo implements usecase/bottle.Repository. Bottles live under
// bottle:{user}:{id}; bottles:{user} indexes them by creation time.
type Repo struct {
	store store
}

// New creates a bottle repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save creates or replaces a bottle and indexes it under its owner.
func (r *Repo) Save(ctx context.Context, b *dombottle.Bottle) error {
	data, err := json.Marshal(toRecord(b))
	if err != nil {
		return fmt.Errorf("marshal bottle: %w", err)
	}
	if err := r.store.Set(ctx, bottleKey(b.UserID, b.ID), data); err != nil {
		return fmt.Errorf("set bottle %s: %w", b.ID, err)
	}
	score := float64(b.CreatedAt.UnixMilli())
	if err := r.store.ZAdd(ctx, indexKey(b.UserID), db.ZMember{Member: b.ID, Score: score}); err != nil {
		return fmt.Errorf("index bottle %s: %w", b.ID, err)
	}
	return nil
}

// Get returns one of the user's bottles.
func (r *Repo) Get(ctx context.Context, userID, id string) (dombottle.Bottle, error) {
	raw, err := r.store.Get(ctx, bottleKey(userID, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dombottle.Bottle{}, domain.ErrBottleNotFound
		}
		return dombottle.Bottle{}, fmt.Errorf("get bottle %s: %w", id, err)
	}
	var rec bottleRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return dombottle.Bottle{}, fmt.Errorf("unmarshal bottle %s: %w", id, err)
	}
	return fromRecord(&rec), nil
}

// Delete removes a bottle and its index entry.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if err := r.store.Del(ctx, bottleKey(userID, id)); err != nil {
		return fmt.Errorf("del bottle %s: %w", id, err)
	}
	if err := r.store.ZRem(ctx, indexKey(userID), id); err != nil {
		return fmt.Errorf("unindex bottle %s: %w", id, err)
	}
	return nil
}

// ListAll returns every bottle the user owns, oldest first. Index entries
// whose record has vanished are skipped.
func (r *Repo) ListAll(ctx context.Context, userID string) ([]dombottle.Bottle, error) {
	ids, err := r.store.ZRange(ctx, indexKey(userID), 0, -1, false)
	if err != nil {
		return nil, fmt.Errorf("list bottle ids: %w", err)
	}
	if len(ids) == 0 {
		return []dombottle.Bottle{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bottleKey(userID, id)
	}
	raws, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load bottles: %w", err)
	}

	out := make([]dombottle.Bottle, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var rec bottleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal bottle %s: %w", ids[i], err)
		}
		out = append(out, fromRecord(&rec))
	}
	return out, nil
}

func bottleKey(userID, id string) string { return domain.KeyPrefix + "bottle:" + userID + ":" + id }
func indexKey(userID string) string      { return domain.KeyPrefix + "bottles:" + userID }
