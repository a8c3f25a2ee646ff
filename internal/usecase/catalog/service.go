// Package catalog serves the reference catalog and ranks it against flavor profiles.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/domain"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/page"
	"github.com/kailas-cloud/caskbook/internal/metrics"
)

// Ranking sources, used as metric labels.
const (
	SourceBottle  = "bottle"
	SourceProfile = "profile"
	SourceQuery   = "query"
)

// Similarity result limits.
const (
	DefaultSimilarLimit = 10
	MaxSimilarLimit     = 50
)

// Options tune similarity ranking.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Shards       int // >1 enables parallel ranking on large catalogs
}

// Service handles catalog reads and similarity ranking.
type Service struct {
	repo   Repository
	snap   SnapshotSource
	scorer *flavor.Scorer
	opts   Options
}

// New creates a catalog service.
func New(repo Repository, snap SnapshotSource, scorer *flavor.Scorer, opts Options) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultSimilarLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxSimilarLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	return &Service{repo: repo, snap: snap, scorer: scorer, opts: opts}
}

// Scorer returns the scorer used for ranking.
func (s *Service) Scorer() *flavor.Scorer { return s.scorer }

// Snapshot returns the current catalog snapshot. It must not be modified.
func (s *Service) Snapshot(ctx context.Context) (*domcat.Snapshot, error) {
	snap, err := s.snap.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return snap, nil
}

// ListWhiskies returns one page of whiskies matching f, ordered by name.
func (s *Service) ListWhiskies(
	ctx context.Context, f domcat.WhiskyFilter, req page.Request,
) (page.Page[domcat.Whisky], error) {
	if f.Flavor != "" {
		if _, ok := flavor.ParseDimension(string(f.Flavor)); !ok {
			return page.Page[domcat.Whisky]{}, domain.NewFieldError("flavor", fmt.Sprintf("unknown flavor %q", f.Flavor))
		}
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return page.Page[domcat.Whisky]{}, err
	}
	return page.Slice(domcat.FilterWhiskies(snap.Whiskies, f), req)
}

// Whisky returns a whisky by slug.
func (s *Service) Whisky(ctx context.Context, slug string) (domcat.Whisky, error) {
	if !domcat.ValidSlug(slug) {
		return domcat.Whisky{}, domain.ErrWhiskyNotFound
	}
	w, err := s.repo.Whisky(ctx, slug)
	if err != nil {
		return domcat.Whisky{}, fmt.Errorf("get whisky: %w", err)
	}
	return w, nil
}

// WhiskyByID returns a whisky by its ID.
func (s *Service) WhiskyByID(ctx context.Context, id string) (domcat.Whisky, error) {
	w, err := s.repo.WhiskyByID(ctx, id)
	if err != nil {
		return domcat.Whisky{}, fmt.Errorf("get whisky: %w", err)
	}
	return w, nil
}

// ListDistilleries returns one page of distilleries matching f, ordered by name.
func (s *Service) ListDistilleries(
	ctx context.Context, f domcat.DistilleryFilter, req page.Request,
) (page.Page[domcat.Distillery], error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return page.Page[domcat.Distillery]{}, err
	}
	return page.Slice(domcat.FilterDistilleries(snap.Distilleries, f), req)
}

// Distillery returns a distillery by slug.
func (s *Service) Distillery(ctx context.Context, slug string) (domcat.Distillery, error) {
	if !domcat.ValidSlug(slug) {
		return domcat.Distillery{}, domain.ErrDistilleryNotFound
	}
	d, err := s.repo.Distillery(ctx, slug)
	if err != nil {
		return domcat.Distillery{}, fmt.Errorf("get distillery: %w", err)
	}
	return d, nil
}

// DistilleryWhiskies lists the whiskies of one distillery.
func (s *Service) DistilleryWhiskies(
	ctx context.Context, slug string, req page.Request,
) (page.Page[domcat.Whisky], error) {
	if _, err := s.Distillery(ctx, slug); err != nil {
		return page.Page[domcat.Whisky]{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return page.Page[domcat.Whisky]{}, err
	}
	return page.Slice(domcat.FilterWhiskies(snap.Whiskies, domcat.WhiskyFilter{DistillerySlug: slug}), req)
}

// DistilleryByName matches a free-text distillery name against the catalog.
func (s *Service) DistilleryByName(ctx context.Context, name string) (domcat.Distillery, bool, error) {
	if name == "" {
		return domcat.Distillery{}, false, nil
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domcat.Distillery{}, false, err
	}
	d, ok := snap.DistilleryByName(name)
	return d, ok, nil
}

// SimilarTo ranks the catalog against a user supplied profile.
func (s *Service) SimilarTo(
	ctx context.Context, query flavor.Vector, limit int,
) ([]flavor.Scored[domcat.Whisky], error) {
	if !query.HasSignal() {
		return nil, domain.NewFieldError("flavor_profile", "at least one dimension must be above 0")
	}
	return s.Rank(ctx, query, limit, SourceQuery)
}

// Rank returns the limit most similar whiskies to query. limit 0 selects the
// default; values outside 1..MaxLimit are rejected.
func (s *Service) Rank(
	ctx context.Context, query flavor.Vector, limit int, source string,
) ([]flavor.Scored[domcat.Whisky], error) {
	if limit == 0 {
		limit = s.opts.DefaultLimit
	}
	if limit < 1 || limit > s.opts.MaxLimit {
		return nil, domain.NewFieldError("limit", fmt.Sprintf("must be between 1 and %d", s.opts.MaxLimit))
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	entries := snap.Entries()
	start := time.Now()
	ranked, err := flavor.RankParallel(ctx, s.scorer, query, entries, limit, s.opts.Shards)
	if err != nil {
		return nil, fmt.Errorf("rank catalog: %w", err)
	}
	metrics.RankDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	metrics.RankCandidates.Observe(float64(len(entries)))
	return ranked, nil
}
