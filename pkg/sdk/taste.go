package caskbook

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/taste"
)

// Summarize aggregates samples into a taste summary. It does not touch
// the database.
func (c *Client) Summarize(samples []Sample) (TasteSummary, error) {
	in, err := toSamples(samples)
	if err != nil {
		return TasteSummary{}, fmt.Errorf("summarize: %w", err)
	}
	sum := taste.Summarize(in)
	return summaryFromDomain(&sum), nil
}

// Recommend ranks the catalog against the rounded average profile of
// samples. Samples without any flavor signal yield no recommendations.
func (c *Client) Recommend(ctx context.Context, samples []Sample, k int) (_ []Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	in, err := toSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	snap, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	ranked, err := taste.Recommend(c.catalog.Scorer(), taste.Summarize(in), snap.Entries(), k)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return matchesFromDomain(ranked), nil
}

func toSamples(samples []Sample) ([]taste.Sample, error) {
	out := make([]taste.Sample, len(samples))
	for i, s := range samples {
		v, err := flavor.Parse(s.FlavorProfile)
		if err != nil {
			return nil, fmt.Errorf("samples[%d]: %w", i, err)
		}
		out[i] = taste.Sample{Vector: v, HasProfile: s.FlavorProfile != nil, Category: s.Category}
	}
	return out, nil
}
