package flavor

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

func TestDimensions_Order(t *testing.T) {
	dims := Dimensions()
	if len(dims) != NumDimensions {
		t.Fatalf("expected %d dimensions, got %d", NumDimensions, len(dims))
	}
	if dims[0] != SmokyPeaty || dims[11] != MedicinalIodine {
		t.Errorf("unexpected order: first=%s last=%s", dims[0], dims[11])
	}

	dims[0] = "mutated"
	if Dimensions()[0] != SmokyPeaty {
		t.Error("Dimensions() must return a copy")
	}
}

func TestParseDimension(t *testing.T) {
	if d, ok := ParseDimension("maritime"); !ok || d != Maritime {
		t.Errorf("ParseDimension(maritime) = %q, %v", d, ok)
	}
	if _, ok := ParseDimension("chocolate"); ok {
		t.Error("expected unknown dimension to be rejected")
	}
}

func TestFromMap_MissingKeysDefaultToZero(t *testing.T) {
	v := FromMap(map[string]int{"smoky_peaty": 4, "unknown": 3})

	if v.Get(SmokyPeaty) != 4 {
		t.Errorf("smoky_peaty = %d", v.Get(SmokyPeaty))
	}
	for _, d := range Dimensions()[1:] {
		if v.Get(d) != 0 {
			t.Errorf("%s = %d, want 0", d, v.Get(d))
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]int
		wantErr bool
	}{
		{"empty", map[string]int{}, false},
		{"bounds", map[string]int{"fruity": 0, "nutty": 5}, false},
		{"negative", map[string]int{"fruity": -1}, true},
		{"too high", map[string]int{"spicy": 6}, true},
		{"unknown name", map[string]int{"chocolate": 2}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestVector_HasSignal(t *testing.T) {
	var zero Vector
	if zero.HasSignal() {
		t.Error("all-zero vector has no signal")
	}
	if !FromMap(map[string]int{"nutty": 1}).HasSignal() {
		t.Error("expected signal")
	}
}

func TestVector_MapRoundTrip(t *testing.T) {
	v := FromMap(map[string]int{"sherried": 3, "oak_woody": 2})
	m := v.Map()
	if len(m) != NumDimensions {
		t.Fatalf("expected %d keys, got %d", NumDimensions, len(m))
	}
	if FromMap(m) != v {
		t.Error("FromMap(v.Map()) != v")
	}
}

func TestVector_Clamp(t *testing.T) {
	v := Vector{-2, 7, 3}
	got := v.Clamp()
	if got[0] != 0 || got[1] != 5 || got[2] != 3 {
		t.Errorf("Clamp() = %v", got)
	}
	if v[0] != -2 {
		t.Error("Clamp must not mutate the receiver")
	}
}

func TestWeightsFromMap(t *testing.T) {
	w, err := WeightsFromMap(map[string]float64{"smoky_peaty": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Weight(SmokyPeaty) != 2 {
		t.Errorf("smoky_peaty weight = %v", w.Weight(SmokyPeaty))
	}
	if w.Weight(Fruity) != 1.0 {
		t.Errorf("unlisted weight = %v, want 1.0", w.Weight(Fruity))
	}

	for _, bad := range []map[string]float64{
		{"fruity": 0},
		{"fruity": -1},
		{"chocolate": 1},
	} {
		if _, err := WeightsFromMap(bad); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("WeightsFromMap(%v): expected ErrValidation, got %v", bad, err)
		}
	}
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	want := map[Dimension]float64{
		SmokyPeaty: 1.5, Sherried: 1.2, Maritime: 1.3, MedicinalIodine: 1.5,
		Nutty: 0.8, MaltyBiscuity: 0.8, Fruity: 1.0,
	}
	for d, x := range want {
		if w.Weight(d) != x {
			t.Errorf("%s = %v, want %v", d, w.Weight(d), x)
		}
	}
	if w.Weight("unknown") != 1.0 {
		t.Error("unknown dimension weight should be 1.0")
	}
}
