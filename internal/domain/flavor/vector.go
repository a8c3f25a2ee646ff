package flavor

import (
	"fmt"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// Intensity bounds for a single dimension.
const (
	MinIntensity = 0
	MaxIntensity = 5
)

// Vector is a dense flavor profile indexed by dimension position.
// The zero value is the all-zero profile.
type Vector [NumDimensions]int

// FromMap builds a Vector from a sparse map. Missing dimensions are 0,
// unknown keys are ignored. Values are taken as-is.
func FromMap(m map[string]int) Vector {
	var v Vector
	for k, val := range m {
		if i := Dimension(k).Index(); i >= 0 {
			v[i] = val
		}
	}
	return v
}

// Parse is the validating constructor for user input: every key must be a
// known dimension and every value must lie in [MinIntensity, MaxIntensity].
func Parse(m map[string]int) (Vector, error) {
	var v Vector
	for k, val := range m {
		i := Dimension(k).Index()
		if i < 0 {
			return Vector{}, fmt.Errorf("%w: unknown flavor dimension %q", domain.ErrValidation, k)
		}
		if val < MinIntensity || val > MaxIntensity {
			return Vector{}, fmt.Errorf("%w: %s must be between %d and %d, got %d",
				domain.ErrValidation, k, MinIntensity, MaxIntensity, val)
		}
		v[i] = val
	}
	return v, nil
}

// Get returns the intensity of d (0 for an unknown dimension).
func (v Vector) Get(d Dimension) int {
	if i := d.Index(); i >= 0 {
		return v[i]
	}
	return 0
}

// HasSignal reports whether at least one dimension is positive.
func (v Vector) HasSignal() bool {
	for _, x := range v {
		if x > 0 {
			return true
		}
	}
	return false
}

// Map returns the full 12-key representation.
func (v Vector) Map() map[string]int {
	m := make(map[string]int, NumDimensions)
	for i, d := range dimensions {
		m[string(d)] = v[i]
	}
	return m
}

// Clamp returns a copy with every value forced into the intensity bounds.
func (v Vector) Clamp() Vector {
	for i, x := range v {
		switch {
		case x < MinIntensity:
			v[i] = MinIntensity
		case x > MaxIntensity:
			v[i] = MaxIntensity
		}
	}
	return v
}
