package flavor

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// minShardSize keeps tiny catalogs on a single goroutine.
const minShardSize = 256

type shardHit[T any] struct {
	scored Scored[T]
	pos    int
}

// RankParallel is Rank fanned out over disjoint catalog shards. Each shard
// keeps its local top k and the merge orders by (score desc, catalog position
// asc), so the result is identical to Rank for the same input.
func RankParallel[T any](
	ctx context.Context, s *Scorer, query Vector, catalog []Entry[T], k, shards int,
) ([]Scored[T], error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", domain.ErrInvalidArgument, k)
	}
	if shards <= 1 || len(catalog) < 2*minShardSize {
		return Rank(s, query, catalog, k)
	}
	if maxShards := len(catalog) / minShardSize; shards > maxShards {
		shards = maxShards
	}

	size := (len(catalog) + shards - 1) / shards
	partial := make([][]shardHit[T], shards)

	g, gctx := errgroup.WithContext(ctx)
	for n := 0; n < shards; n++ {
		n := n
		lo := n * size
		hi := min(lo+size, len(catalog))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("shard %d: %w", n, err)
			}
			hits := make([]shardHit[T], 0, hi-lo)
			for i := lo; i < hi; i++ {
				e := catalog[i]
				hits = append(hits, shardHit[T]{
					scored: Scored[T]{Entry: e, Score: s.Score(query, e.Vector)},
					pos:    i,
				})
			}
			sortHits(hits)
			if len(hits) > k {
				hits = hits[:k]
			}
			partial[n] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []shardHit[T]
	for _, p := range partial {
		merged = append(merged, p...)
	}
	sortHits(merged)
	if len(merged) > k {
		merged = merged[:k]
	}

	out := make([]Scored[T], len(merged))
	for i, h := range merged {
		out[i] = h.scored
	}
	return out, nil
}

func sortHits[T any](hits []shardHit[T]) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].scored.Score != hits[j].scored.Score {
			return hits[i].scored.Score > hits[j].scored.Score
		}
		return hits[i].pos < hits[j].pos
	})
}
