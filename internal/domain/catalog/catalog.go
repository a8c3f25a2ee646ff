// Package catalog holds the read-only reference data: distilleries and the
// whiskies they produce.
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase hyphenated slug.
func ValidSlug(s string) bool { return len(s) <= 100 && slugRegex.MatchString(s) }

// Distillery is a reference distillery.
type Distillery struct {
	ID              string
	Slug            string
	Name            string
	Region          string
	Country         string
	Latitude        *float64
	Longitude       *float64
	Founded         *int
	Owner           string
	History         string
	ProductionNotes string
	Website         string
}

// DistillerySummary is the short form embedded in other resources.
type DistillerySummary struct {
	ID      string
	Slug    string
	Name    string
	Region  string
	Country string
}

// Summary returns the short form.
func (d *Distillery) Summary() DistillerySummary {
	return DistillerySummary{ID: d.ID, Slug: d.Slug, Name: d.Name, Region: d.Region, Country: d.Country}
}

// Whisky is a reference whisky with a known flavor profile.
type Whisky struct {
	ID           string
	Slug         string
	Name         string
	Distillery   DistillerySummary
	AgeStatement *int
	Region       string
	Country      string
	Flavor       flavor.Vector
	Description  string
}

// Snapshot is the whole catalog held in memory.
type Snapshot struct {
	Whiskies     []Whisky // ordered by name, then slug
	Distilleries []Distillery
}

// Entries converts the whiskies into ranking candidates in snapshot order.
func (s *Snapshot) Entries() []flavor.Entry[Whisky] {
	out := make([]flavor.Entry[Whisky], len(s.Whiskies))
	for i, w := range s.Whiskies {
		out[i] = flavor.Entry[Whisky]{ID: w.ID, Vector: w.Flavor, Item: w}
	}
	return out
}

// DistilleryByName finds a distillery by case-insensitive name.
func (s *Snapshot) DistilleryByName(name string) (Distillery, bool) {
	for _, d := range s.Distilleries {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Distillery{}, false
}

// SortWhiskies orders whiskies by name, then slug.
func SortWhiskies(ws []Whisky) {
	sort.SliceStable(ws, func(i, j int) bool {
		a, b := strings.ToLower(ws[i].Name), strings.ToLower(ws[j].Name)
		if a != b {
			return a < b
		}
		return ws[i].Slug < ws[j].Slug
	})
}

// SortDistilleries orders distilleries by name, then slug.
func SortDistilleries(ds []Distillery) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := strings.ToLower(ds[i].Name), strings.ToLower(ds[j].Name)
		if a != b {
			return a < b
		}
		return ds[i].Slug < ds[j].Slug
	})
}
