// Package taste aggregates a user's collection into a taste summary and
// turns that summary into catalog recommendations.
package taste

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// DefaultRecommendations is the number of recommendations in a taste report.
const DefaultRecommendations = 5

// Sample is one owned bottle as seen by the aggregator.
type Sample struct {
	Vector     flavor.Vector
	HasProfile bool
	Category   string
}

// DominantFlavor is a dimension with a positive average intensity.
type DominantFlavor struct {
	Flavor           flavor.Dimension
	AverageIntensity float64
}

// Summary describes a collection.
type Summary struct {
	TotalBottles         int
	BottlesWithProfiles  int
	AverageProfile       [flavor.NumDimensions]float64
	DominantFlavors      []DominantFlavor
	CategoryDistribution map[string]int
}

// Summarize averages the profiles of bottles that carry a signal and counts
// categories across all bottles. Degenerate input yields a zero summary.
func Summarize(samples []Sample) Summary {
	sum := Summary{
		TotalBottles:         len(samples),
		DominantFlavors:      []DominantFlavor{},
		CategoryDistribution: make(map[string]int),
	}

	var totals [flavor.NumDimensions]int
	for _, s := range samples {
		sum.CategoryDistribution[s.Category]++
		if !s.HasProfile || !s.Vector.HasSignal() {
			continue
		}
		sum.BottlesWithProfiles++
		for i, x := range s.Vector {
			totals[i] += x
		}
	}
	if sum.BottlesWithProfiles == 0 {
		return sum
	}

	n := float64(sum.BottlesWithProfiles)
	for i, t := range totals {
		sum.AverageProfile[i] = roundTo(float64(t)/n, 1)
	}

	dims := flavor.Dimensions()
	for i, avg := range sum.AverageProfile {
		if avg > 0 {
			sum.DominantFlavors = append(sum.DominantFlavors, DominantFlavor{Flavor: dims[i], AverageIntensity: avg})
		}
	}
	sort.SliceStable(sum.DominantFlavors, func(i, j int) bool {
		return sum.DominantFlavors[i].AverageIntensity > sum.DominantFlavors[j].AverageIntensity
	})
	return sum
}

// HasSignal reports whether at least one bottle contributed to the averages.
func (s Summary) HasSignal() bool { return s.BottlesWithProfiles > 0 }

// AverageMap returns the averages keyed by dimension name.
func (s Summary) AverageMap() map[string]float64 {
	m := make(map[string]float64, flavor.NumDimensions)
	for i, d := range flavor.Dimensions() {
		m[string(d)] = s.AverageProfile[i]
	}
	return m
}

// QueryVector rounds the averages to the nearest integer intensity, ties
// to even (2.5 -> 2, 3.5 -> 4).
func (s Summary) QueryVector() flavor.Vector {
	var v flavor.Vector
	for i, avg := range s.AverageProfile {
		v[i] = int(math.RoundToEven(avg))
	}
	return v
}

// Recommend ranks catalog against the summary's rounded averages. A summary
// without signal yields no recommendations.
func Recommend[T any](
	s *flavor.Scorer, sum Summary, catalog []flavor.Entry[T], k int,
) ([]flavor.Scored[T], error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", domain.ErrInvalidArgument, k)
	}
	if !sum.HasSignal() {
		return []flavor.Scored[T]{}, nil
	}
	return flavor.Rank(s, sum.QueryVector(), catalog, k)
}

// roundTo rounds half to even on the scaled value, so 0.25 -> 0.2 and
// 0.75 -> 0.8.
func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}
