package flavor

import "math"

// Scorer computes weighted Euclidean similarity between two profiles.
// A Scorer is immutable and safe for concurrent use.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer over the given weight table.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the scorer's weight table.
func (s *Scorer) Weights() Weights { return s.weights }

// Distance returns sqrt(sum w[d] * (a[d]-b[d])^2).
func (s *Scorer) Distance(a, b Vector) float64 {
	var sum float64
	for i := range a {
		diff := float64(a[i] - b[i])
		sum += s.weights[i] * diff * diff
	}
	return math.Sqrt(sum)
}

// Score maps the distance into (0, 1]: identical profiles score 1.0.
func (s *Scorer) Score(a, b Vector) float64 {
	return 1.0 / (1.0 + s.Distance(a, b))
}

// ScoreMaps scores two sparse profiles; missing dimensions are 0.
func (s *Scorer) ScoreMaps(a, b map[string]int) float64 {
	return s.Score(FromMap(a), FromMap(b))
}
