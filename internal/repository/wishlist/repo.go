package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/db"
	"github.com/kailas-cloud/caskbook/internal/domain"
	domwish "github.com/kailas-cloud/caskbook/internal/domain/wishlist"
)

// store is the consumer interface for wishlist items (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, keys ...string) error
	ZAdd(ctx context.Context, key string, members ...db.ZMember) error
	ZRem(ctx context.Context, key string, members ...string) error
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
}

// Repo implements usecase/wishlist.Repository. The catalog whisky is not
// stored with the item; the usecase hydrates it.
type Repo struct {
	store store
}

// New creates a wishlist repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type itemRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WhiskyID  string    `json:"reference_whisky_id"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Add stores an item. A whisky can be on a user's wishlist only once.
func (r *Repo) Add(ctx context.Context, it *domwish.Item) error {
	guard := whiskyGuardKey(it.UserID, it.WhiskyID)
	ok, err := r.store.SetNX(ctx, guard, []byte(it.ID))
	if err != nil {
		return fmt.Errorf("claim wishlist whisky: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: whisky already on wishlist", domain.ErrAlreadyExists)
	}

	data, err := json.Marshal(itemRecord{
		ID: it.ID, UserID: it.UserID, WhiskyID: it.WhiskyID, Notes: it.Notes, CreatedAt: it.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal wishlist item: %w", err)
	}
	if err := r.store.Set(ctx, itemKey(it.UserID, it.ID), data); err != nil {
		_ = r.store.Del(ctx, guard)
		return fmt.Errorf("set wishlist item %s: %w", it.ID, err)
	}
	score := float64(it.CreatedAt.UnixMilli())
	if err := r.store.ZAdd(ctx, indexKey(it.UserID), db.ZMember{Member: it.ID, Score: score}); err != nil {
		return fmt.Errorf("index wishlist item %s: %w", it.ID, err)
	}
	return nil
}

// Get returns one of the user's items.
func (r *Repo) Get(ctx context.Context, userID, id string) (domwish.Item, error) {
	raw, err := r.store.Get(ctx, itemKey(userID, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domwish.Item{}, domain.ErrWishlistItemNotFound
		}
		return domwish.Item{}, fmt.Errorf("get wishlist item %s: %w", id, err)
	}
	return decode(raw)
}

// Remove deletes an item, its duplicate guard and its index entry.
func (r *Repo) Remove(ctx context.Context, userID, id string) error {
	it, err := r.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, itemKey(userID, id), whiskyGuardKey(userID, it.WhiskyID)); err != nil {
		return fmt.Errorf("del wishlist item %s: %w", id, err)
	}
	if err := r.store.ZRem(ctx, indexKey(userID), id); err != nil {
		return fmt.Errorf("unindex wishlist item %s: %w", id, err)
	}
	return nil
}

// ListAll returns the user's items, newest first.
func (r *Repo) ListAll(ctx context.Context, userID string) ([]domwish.Item, error) {
	ids, err := r.store.ZRange(ctx, indexKey(userID), 0, -1, true)
	if err != nil {
		return nil, fmt.Errorf("list wishlist ids: %w", err)
	}
	if len(ids) == 0 {
		return []domwish.Item{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKey(userID, id)
	}
	raws, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	out := make([]domwish.Item, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		it, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func decode(raw []byte) (domwish.Item, error) {
	var rec itemRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domwish.Item{}, fmt.Errorf("unmarshal wishlist item: %w", err)
	}
	return domwish.Item{
		ID: rec.ID, UserID: rec.UserID, WhiskyID: rec.WhiskyID, Notes: rec.Notes, CreatedAt: rec.CreatedAt,
	}, nil
}

func itemKey(userID, id string) string { return domain.KeyPrefix + "wish:" + userID + ":" + id }
func indexKey(userID string) string    { return domain.KeyPrefix + "wishes:" + userID }
func whiskyGuardKey(userID, whiskyID string) string {
	return domain.KeyPrefix + "wish:" + userID + ":whisky:" + whiskyID
}
