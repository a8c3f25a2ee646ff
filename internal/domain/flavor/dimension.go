// Package flavor holds the 12-dimension flavor model and the weighted
// similarity scorer used to rank whiskies against a profile.
package flavor

// Dimension is one axis of a flavor profile.
type Dimension string

// Flavor dimensions in declaration order. The order is significant: vectors
// are indexed by it and ties between equal intensities are broken by it.
const (
	SmokyPeaty      Dimension = "smoky_peaty"
	Fruity          Dimension = "fruity"
	Sherried        Dimension = "sherried"
	Spicy           Dimension = "spicy"
	FloralGrassy    Dimension = "floral_grassy"
	Maritime        Dimension = "maritime"
	HoneySweet      Dimension = "honey_sweet"
	VanillaCaramel  Dimension = "vanilla_caramel"
	OakWoody        Dimension = "oak_woody"
	Nutty           Dimension = "nutty"
	MaltyBiscuity   Dimension = "malty_biscuity"
	MedicinalIodine Dimension = "medicinal_iodine"
)

// NumDimensions is the fixed size of a flavor profile.
const NumDimensions = 12

var dimensions = [NumDimensions]Dimension{
	SmokyPeaty, Fruity, Sherried, Spicy, FloralGrassy, Maritime,
	HoneySweet, VanillaCaramel, OakWoody, Nutty, MaltyBiscuity, MedicinalIodine,
}

var dimensionIndex = func() map[Dimension]int {
	m := make(map[Dimension]int, NumDimensions)
	for i, d := range dimensions {
		m[d] = i
	}
	return m
}()

// Dimensions returns all dimensions in declaration order.
func Dimensions() []Dimension {
	out := make([]Dimension, NumDimensions)
	copy(out, dimensions[:])
	return out
}

// ParseDimension recognises a dimension name.
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(s)
	_, ok := dimensionIndex[d]
	return d, ok
}

// Index returns the position of d in declaration order, or -1.
func (d Dimension) Index() int {
	if i, ok := dimensionIndex[d]; ok {
		return i
	}
	return -1
}

func (d Dimension) String() string { return string(d) }
