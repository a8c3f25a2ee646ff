package caskbook

import (
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/taste"
)

// Whisky is a catalog whisky. FlavorProfile holds every dimension, 0..5.
type Whisky struct {
	ID             string
	Slug           string
	Name           string
	Distillery     string
	DistillerySlug string
	AgeStatement   *int
	Region         string
	Country        string
	FlavorProfile  map[string]int
	Description    string
}

// Match is a ranked whisky. Score is in [0, 1], higher is more similar.
type Match struct {
	Whisky Whisky
	Score  float64
}

// Sample is one bottle fed to the taste aggregator. A nil or all-zero
// FlavorProfile still counts toward TotalBottles and the category
// distribution.
type Sample struct {
	FlavorProfile map[string]int
	Category      string
}

// DominantFlavor is a dimension with a positive average intensity.
type DominantFlavor struct {
	Flavor           string
	AverageIntensity float64
}

// TasteSummary aggregates a set of samples.
type TasteSummary struct {
	TotalBottles         int
	BottlesWithProfiles  int
	AverageProfile       map[string]float64 // rounded to one decimal
	DominantFlavors      []DominantFlavor   // highest average first
	CategoryDistribution map[string]int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}

func whiskyFromDomain(w *domcat.Whisky) Whisky {
	return Whisky{
		ID:             w.ID,
		Slug:           w.Slug,
		Name:           w.Name,
		Distillery:     w.Distillery.Name,
		DistillerySlug: w.Distillery.Slug,
		AgeStatement:   w.AgeStatement,
		Region:         w.Region,
		Country:        w.Country,
		FlavorProfile:  w.Flavor.Map(),
		Description:    w.Description,
	}
}

func matchesFromDomain(ranked []flavor.Scored[domcat.Whisky]) []Match {
	out := make([]Match, len(ranked))
	for i := range ranked {
		out[i] = Match{Whisky: whiskyFromDomain(&ranked[i].Entry.Item), Score: ranked[i].Score}
	}
	return out
}

func summaryFromDomain(s *taste.Summary) TasteSummary {
	dominant := make([]DominantFlavor, len(s.DominantFlavors))
	for i, d := range s.DominantFlavors {
		dominant[i] = DominantFlavor{Flavor: string(d.Flavor), AverageIntensity: d.AverageIntensity}
	}
	return TasteSummary{
		TotalBottles:         s.TotalBottles,
		BottlesWithProfiles:  s.BottlesWithProfiles,
		AverageProfile:       s.AverageMap(),
		DominantFlavors:      dominant,
		CategoryDistribution: s.CategoryDistribution,
	}
}
