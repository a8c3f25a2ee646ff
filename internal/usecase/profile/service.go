// Package profile builds a user's taste report.
package profile

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/taste"
	"github.com/kailas-cloud/caskbook/internal/metrics"
	ucatalog "github.com/kailas-cloud/caskbook/internal/usecase/catalog"
)

// Report is the taste summary plus recommendations.
type Report struct {
	Summary         taste.Summary
	Recommendations []flavor.Scored[domcat.Whisky]
}

// Service computes taste reports.
type Service struct {
	bottles BottleLister
	catalog SnapshotSource
	scorer  *flavor.Scorer
	k       int
}

// New creates a profile service recommending taste.DefaultRecommendations whiskies.
func New(bottles BottleLister, cat SnapshotSource, scorer *flavor.Scorer) *Service {
	return &Service{bottles: bottles, catalog: cat, scorer: scorer, k: taste.DefaultRecommendations}
}

// Taste summarizes the user's collection and recommends similar whiskies.
func (s *Service) Taste(ctx context.Context, userID string) (Report, error) {
	var (
		bottles []dombottle.Bottle
		snap    *domcat.Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if bottles, err = s.bottles.ListAll(gctx, userID); err != nil {
			return fmt.Errorf("list bottles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap, err = s.catalog.Snapshot(gctx); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	sum := taste.Summarize(Samples(bottles))

	entries := snap.Entries()
	start := time.Now()
	recs, err := taste.Recommend(s.scorer, sum, entries, s.k)
	if err != nil {
		return Report{}, fmt.Errorf("recommend: %w", err)
	}
	if sum.HasSignal() {
		metrics.RankDuration.WithLabelValues(ucatalog.SourceProfile).Observe(time.Since(start).Seconds())
		metrics.RankCandidates.Observe(float64(len(entries)))
	}
	return Report{Summary: sum, Recommendations: recs}, nil
}

// Samples maps bottles to aggregator input. The region is the category label.
func Samples(bottles []dombottle.Bottle) []taste.Sample {
	out := make([]taste.Sample, len(bottles))
	for i := range bottles {
		b := &bottles[i]
		out[i] = taste.Sample{Vector: b.FlavorVector(), HasProfile: b.Flavor != nil, Category: b.Region}
	}
	return out
}
