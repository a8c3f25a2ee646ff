package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/caskbook/internal/domain"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

// DefaultBatchSize is the number of entries written per pipeline.
const DefaultBatchSize = 100

const lookupConcurrency = 8

// Repository is the catalog storage the seeder writes to.
type Repository interface {
	Distillery(ctx context.Context, slug string) (domcat.Distillery, error)
	Whisky(ctx context.Context, slug string) (domcat.Whisky, error)
	SaveDistilleries(ctx context.Context, ds []domcat.Distillery) error
	SaveWhiskies(ctx context.Context, ws []domcat.Whisky) error
}

// Stats summarizes one run.
type Stats struct {
	DistilleriesAdded   int
	DistilleriesUpdated int
	WhiskiesAdded       int
	WhiskiesUpdated     int
	WhiskiesSkipped     int
}

// Seeder upserts a catalog file. Entries are keyed by slug, and stored IDs
// are kept so bottles and wishlists stay linked across runs.
type Seeder struct {
	repo      Repository
	batchSize int
	newID     func() string
	logger    *zap.Logger
}

// New creates a seeder. batchSize <= 0 selects DefaultBatchSize.
func New(repo Repository, batchSize int, logger *zap.Logger) *Seeder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Seeder{repo: repo, batchSize: batchSize, newID: uuid.NewString, logger: logger}
}

// Run writes distilleries first, then whiskies. Whiskies naming an unknown
// distillery are skipped with a warning.
func (s *Seeder) Run(ctx context.Context, f *File) (Stats, error) {
	var stats Stats

	distilleries, err := s.resolveDistilleries(ctx, f.Distilleries, &stats)
	if err != nil {
		return stats, err
	}
	chunk(distilleries, s.batchSize)(func(batch []domcat.Distillery) bool {
		if err = s.repo.SaveDistilleries(ctx, batch); err != nil {
			err = fmt.Errorf("save distilleries: %w", err)
			return false
		}
		return true
	})
	if err != nil {
		return stats, err
	}
	s.logger.Info("Seeded distilleries",
		zap.Int("added", stats.DistilleriesAdded),
		zap.Int("updated", stats.DistilleriesUpdated),
		zap.Int("total", len(f.Distilleries)),
	)

	bySlug := make(map[string]domcat.DistillerySummary, len(distilleries))
	for i := range distilleries {
		bySlug[distilleries[i].Slug] = distilleries[i].Summary()
	}
	whiskies, err := s.resolveWhiskies(ctx, f.Whiskies, bySlug, &stats)
	if err != nil {
		return stats, err
	}
	chunk(whiskies, s.batchSize)(func(batch []domcat.Whisky) bool {
		if err = s.repo.SaveWhiskies(ctx, batch); err != nil {
			err = fmt.Errorf("save whiskies: %w", err)
			return false
		}
		return true
	})
	if err != nil {
		return stats, err
	}
	s.logger.Info("Seeded whiskies",
		zap.Int("added", stats.WhiskiesAdded),
		zap.Int("updated", stats.WhiskiesUpdated),
		zap.Int("skipped", stats.WhiskiesSkipped),
		zap.Int("total", len(f.Whiskies)),
	)
	return stats, nil
}

func (s *Seeder) resolveDistilleries(ctx context.Context, entries []Distillery, stats *Stats) ([]domcat.Distillery, error) {
	ids, err := lookupIDs(ctx, entries, func(ctx context.Context, d *Distillery) (string, error) {
		existing, err := s.repo.Distillery(ctx, d.Slug)
		if errors.Is(err, domain.ErrDistilleryNotFound) {
			return "", nil
		}
		return existing.ID, err
	})
	if err != nil {
		return nil, fmt.Errorf("lookup distilleries: %w", err)
	}

	out := make([]domcat.Distillery, len(entries))
	for i := range entries {
		id := ids[i]
		if id == "" {
			id = s.newID()
			stats.DistilleriesAdded++
		} else {
			stats.DistilleriesUpdated++
		}
		out[i] = entries[i].toDomain(id)
	}
	return out, nil
}

func (s *Seeder) resolveWhiskies(
	ctx context.Context, entries []Whisky, fromFile map[string]domcat.DistillerySummary, stats *Stats,
) ([]domcat.Whisky, error) {
	ids, err := lookupIDs(ctx, entries, func(ctx context.Context, w *Whisky) (string, error) {
		existing, err := s.repo.Whisky(ctx, w.Slug)
		if errors.Is(err, domain.ErrWhiskyNotFound) {
			return "", nil
		}
		return existing.ID, err
	})
	if err != nil {
		return nil, fmt.Errorf("lookup whiskies: %w", err)
	}

	out := make([]domcat.Whisky, 0, len(entries))
	for i := range entries {
		w := &entries[i]
		dist, ok := fromFile[w.DistillerySlug]
		if !ok {
			stored, err := s.repo.Distillery(ctx, w.DistillerySlug)
			switch {
			case errors.Is(err, domain.ErrDistilleryNotFound):
				s.logger.Warn("Distillery not found for whisky, skipping",
					zap.String("whisky", w.Slug),
					zap.String("distillery", w.DistillerySlug),
				)
				stats.WhiskiesSkipped++
				continue
			case err != nil:
				return nil, fmt.Errorf("get distillery %s: %w", w.DistillerySlug, err)
			}
			dist = stored.Summary()
			fromFile[w.DistillerySlug] = dist
		}

		id := ids[i]
		if id == "" {
			id = s.newID()
			stats.WhiskiesAdded++
		} else {
			stats.WhiskiesUpdated++
		}
		out = append(out, w.toDomain(id, dist))
	}
	return out, nil
}

// lookupIDs finds the stored ID for every entry concurrently. "" means new.
func lookupIDs[T any](ctx context.Context, entries []T, lookup func(context.Context, *T) (string, error)) ([]string, error) {
	ids := make([]string, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i := range entries {
		i := i
		g.Go(func() error {
			id, err := lookup(gctx, &entries[i])
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// chunk yields consecutive slices of at most size elements.
func chunk[T any](items []T, size int) func(yield func([]T) bool) {
	return func(yield func([]T) bool) {
		for start := 0; start < len(items); start += size {
			if !yield(items[start:min(start+size, len(items))]) {
				return
			}
		}
	}
}
