package catalog

import (
	"strings"

	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// FlavorThreshold is the minimum intensity for a whisky to match a flavor filter.
const FlavorThreshold = 3

// WhiskyFilter narrows a whisky listing. Zero fields match everything.
type WhiskyFilter struct {
	Search         string // name or region substring
	Region         string
	Flavor         flavor.Dimension
	DistillerySlug string
}

// Matches reports whether w passes the filter.
func (f WhiskyFilter) Matches(w *Whisky) bool {
	if f.Region != "" && !strings.EqualFold(w.Region, f.Region) {
		return false
	}
	if f.DistillerySlug != "" && w.Distillery.Slug != f.DistillerySlug {
		return false
	}
	if f.Flavor != "" && w.Flavor.Get(f.Flavor) < FlavorThreshold {
		return false
	}
	if f.Search != "" {
		n := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(w.Name), n) && !strings.Contains(strings.ToLower(w.Region), n) {
			return false
		}
	}
	return true
}

// FilterWhiskies keeps the order of ws.
func FilterWhiskies(ws []Whisky, f WhiskyFilter) []Whisky {
	out := make([]Whisky, 0, len(ws))
	for i := range ws {
		if f.Matches(&ws[i]) {
			out = append(out, ws[i])
		}
	}
	return out
}

// DistilleryFilter narrows a distillery listing.
type DistilleryFilter struct {
	Search  string // name substring
	Region  string
	Country string
}

// Matches reports whether d passes the filter.
func (f DistilleryFilter) Matches(d *Distillery) bool {
	if f.Region != "" && !strings.EqualFold(d.Region, f.Region) {
		return false
	}
	if f.Country != "" && !strings.EqualFold(d.Country, f.Country) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// FilterDistilleries keeps the order of ds.
func FilterDistilleries(ds []Distillery, f DistilleryFilter) []Distillery {
	out := make([]Distillery, 0, len(ds))
	for i := range ds {
		if f.Matches(&ds[i]) {
			out = append(out, ds[i])
		}
	}
	return out
}
