package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/caskbook/internal/db"
	"github.com/kailas-cloud/caskbook/internal/domain"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

// store is the consumer interface for the reference catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	SetMulti(ctx context.Context, items []db.KVItem) error
	ZAdd(ctx context.Context, key string, members ...db.ZMember) error
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)
}

// Repo stores distilleries and whiskies keyed by slug.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SaveDistilleries upserts distilleries in one pipeline.
func (r *Repo) SaveDistilleries(ctx context.Context, ds []domcat.Distillery) error {
	if len(ds) == 0 {
		return nil
	}
	items := make([]db.KVItem, 0, len(ds))
	members := make([]db.ZMember, 0, len(ds))
	for i := range ds {
		data, err := json.Marshal(distilleryToRecord(&ds[i]))
		if err != nil {
			return fmt.Errorf("marshal distillery %s: %w", ds[i].Slug, err)
		}
		items = append(items, db.KVItem{Key: distilleryKey(ds[i].Slug), Value: data})
		members = append(members, db.ZMember{Member: ds[i].Slug})
	}
	if err := r.store.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("set distilleries: %w", err)
	}
	if err := r.store.ZAdd(ctx, distilleriesKey(), members...); err != nil {
		return fmt.Errorf("index distilleries: %w", err)
	}
	return nil
}

// SaveWhiskies upserts whiskies and their ID lookups in one pipeline.
func (r *Repo) SaveWhiskies(ctx context.Context, ws []domcat.Whisky) error {
	if len(ws) == 0 {
		return nil
	}
	items := make([]db.KVItem, 0, 2*len(ws))
	members := make([]db.ZMember, 0, len(ws))
	for i := range ws {
		data, err := json.Marshal(whiskyToRecord(&ws[i]))
		if err != nil {
			return fmt.Errorf("marshal whisky %s: %w", ws[i].Slug, err)
		}
		items = append(items,
			db.KVItem{Key: whiskyKey(ws[i].Slug), Value: data},
			db.KVItem{Key: whiskyIDKey(ws[i].ID), Value: []byte(ws[i].Slug)},
		)
		members = append(members, db.ZMember{Member: ws[i].Slug})
	}
	if err := r.store.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("set whiskies: %w", err)
	}
	if err := r.store.ZAdd(ctx, whiskiesKey(), members...); err != nil {
		return fmt.Errorf("index whiskies: %w", err)
	}
	return nil
}

// Whisky returns a whisky by slug.
func (r *Repo) Whisky(ctx context.Context, slug string) (domcat.Whisky, error) {
	raw, err := r.store.Get(ctx, whiskyKey(slug))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcat.Whisky{}, domain.ErrWhiskyNotFound
		}
		return domcat.Whisky{}, fmt.Errorf("get whisky %s: %w", slug, err)
	}
	var rec whiskyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domcat.Whisky{}, fmt.Errorf("unmarshal whisky %s: %w", slug, err)
	}
	return whiskyFromRecord(&rec), nil
}

// WhiskyByID resolves the ID lookup, then loads the whisky.
func (r *Repo) WhiskyByID(ctx context.Context, id string) (domcat.Whisky, error) {
	slug, err := r.store.Get(ctx, whiskyIDKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcat.Whisky{}, domain.ErrWhiskyNotFound
		}
		return domcat.Whisky{}, fmt.Errorf("resolve whisky %s: %w", id, err)
	}
	return r.Whisky(ctx, string(slug))
}

// Distillery returns a distillery by slug.
func (r *Repo) Distillery(ctx context.Context, slug string) (domcat.Distillery, error) {
	raw, err := r.store.Get(ctx, distilleryKey(slug))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcat.Distillery{}, domain.ErrDistilleryNotFound
		}
		return domcat.Distillery{}, fmt.Errorf("get distillery %s: %w", slug, err)
	}
	var rec distilleryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domcat.Distillery{}, fmt.Errorf("unmarshal distillery %s: %w", slug, err)
	}
	return distilleryFromRecord(&rec), nil
}

// Snapshot loads the whole catalog, sorted by name.
func (r *Repo) Snapshot(ctx context.Context) (*domcat.Snapshot, error) {
	whiskies, err := loadAll(ctx, r.store, whiskiesKey(), whiskyKey, whiskyFromRecord)
	if err != nil {
		return nil, fmt.Errorf("load whiskies: %w", err)
	}
	distilleries, err := loadAll(ctx, r.store, distilleriesKey(), distilleryKey, distilleryFromRecord)
	if err != nil {
		return nil, fmt.Errorf("load distilleries: %w", err)
	}
	domcat.SortWhiskies(whiskies)
	domcat.SortDistilleries(distilleries)
	return &domcat.Snapshot{Whiskies: whiskies, Distilleries: distilleries}, nil
}

func loadAll[R any, T any](
	ctx context.Context, s store, index string, keyFn func(string) string, conv func(*R) T,
) ([]T, error) {
	slugs, err := s.ZRange(ctx, index, 0, -1, false)
	if err != nil {
		return nil, err
	}
	if len(slugs) == 0 {
		return []T{}, nil
	}
	keys := make([]string, len(slugs))
	for i, slug := range slugs {
		keys[i] = keyFn(slug)
	}
	raws, err := s.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var rec R
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", slugs[i], err)
		}
		out = append(out, conv(&rec))
	}
	return out, nil
}

func whiskyKey(slug string) string     { return domain.KeyPrefix + "whisky:" + slug }
func whiskyIDKey(id string) string     { return domain.KeyPrefix + "whisky:id:" + id }
func whiskiesKey() string              { return domain.KeyPrefix + "whiskies" }
func distilleryKey(slug string) string { return domain.KeyPrefix + "distillery:" + slug }
func distilleriesKey() string          { return domain.KeyPrefix + "distilleries" }
