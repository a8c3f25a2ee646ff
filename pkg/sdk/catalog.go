package caskbook

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// Similar returns the k whiskies closest to profile, most similar first.
// Unknown dimensions and intensities outside 0..5 are rejected, as is a
// profile with no dimension above 0. k = 0 selects the default of 10.
func (c *Client) Similar(ctx context.Context, profile map[string]int, k int) (_ []Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("similar", start, err) }()

	query, err := flavor.Parse(profile)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	ranked, err := c.catalog.SimilarTo(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	return matchesFromDomain(ranked), nil
}

// Whisky returns a catalog whisky by slug.
func (c *Client) Whisky(ctx context.Context, slug string) (_ Whisky, err error) {
	start := time.Now()
	defer func() { c.obs.observe("whisky", start, err) }()

	w, err := c.catalog.Whisky(ctx, slug)
	if err != nil {
		return Whisky{}, fmt.Errorf("get whisky %s: %w", slug, err)
	}
	return whiskyFromDomain(&w), nil
}

// Whiskies returns the whole catalog ordered by name.
func (c *Client) Whiskies(ctx context.Context) (_ []Whisky, err error) {
	start := time.Now()
	defer func() { c.obs.observe("whiskies", start, err) }()

	snap, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("list whiskies: %w", err)
	}
	out := make([]Whisky, len(snap.Whiskies))
	for i := range snap.Whiskies {
		out[i] = whiskyFromDomain(&snap.Whiskies[i])
	}
	return out, nil
}
