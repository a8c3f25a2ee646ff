package flavor

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// Weights holds one positive multiplier per dimension.
type Weights [NumDimensions]float64

// DefaultWeights returns the standard table. Peat, medicinal and maritime
// character dominate perceived similarity; nutty and malty matter less.
func DefaultWeights() Weights {
	return Weights{
		1.5, // smoky_peaty
		1.0, // fruity
		1.2, // sherried
		1.0, // spicy
		1.0, // floral_grassy
		1.3, // maritime
		1.0, // honey_sweet
		1.0, // vanilla_caramel
		1.0, // oak_woody
		0.8, // nutty
		0.8, // malty_biscuity
		1.5, // medicinal_iodine
	}
}

// UniformWeights returns a table of 1.0 for every dimension.
func UniformWeights() Weights {
	var w Weights
	for i := range w {
		w[i] = 1.0
	}
	return w
}

// WeightsFromMap overrides a uniform table with the given entries.
// Unlisted dimensions keep weight 1.0.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	w := UniformWeights()
	for k, val := range m {
		i := Dimension(k).Index()
		if i < 0 {
			return Weights{}, fmt.Errorf("%w: unknown flavor dimension %q", domain.ErrValidation, k)
		}
		if val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
			return Weights{}, fmt.Errorf("%w: weight for %s must be positive and finite, got %v",
				domain.ErrValidation, k, val)
		}
		w[i] = val
	}
	return w, nil
}

// Weight returns the multiplier for d (1.0 for an unknown dimension).
func (w Weights) Weight(d Dimension) float64 {
	if i := d.Index(); i >= 0 {
		return w[i]
	}
	return 1.0
}

// Map returns the table keyed by dimension name.
func (w Weights) Map() map[string]float64 {
	m := make(map[string]float64, NumDimensions)
	for i, d := range dimensions {
		m[string(d)] = w[i]
	}
	return m
}
