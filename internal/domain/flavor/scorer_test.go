package flavor

import (
	"math"
	"testing"
)

func TestScorer_SelfScoreIsOne(t *testing.T) {
	s := NewScorer(DefaultWeights())
	vecs := []Vector{
		{},
		FromMap(map[string]int{"smoky_peaty": 5, "medicinal_iodine": 4}),
		{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5},
	}
	for _, v := range vecs {
		if got := s.Score(v, v); got != 1.0 {
			t.Errorf("Score(%v, %v) = %v, want 1.0", v, v, got)
		}
	}
}

func TestScorer_Symmetric(t *testing.T) {
	s := NewScorer(DefaultWeights())
	a := map[string]int{"smoky_peaty": 5, "fruity": 1}
	b := map[string]int{"smoky_peaty": 2, "fruity": 4}

	ab, ba := s.ScoreMaps(a, b), s.ScoreMaps(b, a)
	if ab != ba {
		t.Errorf("asymmetric: %v vs %v", ab, ba)
	}

	// D = sqrt(1.5*9 + 1.0*9) = sqrt(22.5)
	want := 1 / (1 + math.Sqrt(22.5))
	if math.Abs(ab-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", ab, want)
	}
}

func TestScorer_Bounds(t *testing.T) {
	s := NewScorer(DefaultWeights())
	var zero Vector
	full := Vector{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}

	got := s.Score(zero, full)
	if got <= 0 || got > 1 {
		t.Errorf("score out of (0,1]: %v", got)
	}
	if got >= 1 {
		t.Error("different vectors must score below 1")
	}
}

func TestScorer_MonotoneInDistance(t *testing.T) {
	s := NewScorer(DefaultWeights())
	q := FromMap(map[string]int{"sherried": 5})
	near := FromMap(map[string]int{"sherried": 4})
	far := FromMap(map[string]int{"sherried": 1})

	if !(s.Score(q, near) > s.Score(q, far)) {
		t.Error("closer profile must score higher")
	}
}

func TestScorer_WeightsMatter(t *testing.T) {
	s := NewScorer(DefaultWeights())
	var zero Vector
	smoky := FromMap(map[string]int{"smoky_peaty": 2})
	nutty := FromMap(map[string]int{"nutty": 2})

	// Same raw difference; smoky carries weight 1.5, nutty 0.8.
	if !(s.Score(zero, smoky) < s.Score(zero, nutty)) {
		t.Error("heavier dimension should reduce similarity more")
	}
}

func TestScoreMaps_MissingKeysEqualZero(t *testing.T) {
	s := NewScorer(UniformWeights())
	sparse := map[string]int{"fruity": 3}
	dense := FromMap(sparse).Map()

	if s.ScoreMaps(sparse, dense) != 1.0 {
		t.Error("sparse and dense forms of the same profile must be identical")
	}
}
