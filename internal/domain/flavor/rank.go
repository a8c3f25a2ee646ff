package flavor

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// Entry is one catalog candidate. Item is carried through ranking untouched.
type Entry[T any] struct {
	ID     string
	Vector Vector
	Item   T
}

// Scored is a ranked candidate.
type Scored[T any] struct {
	Entry Entry[T]
	Score float64
}

// Rank scores every entry against query and returns the k best, highest
// score first. Equal scores keep catalog order. An empty catalog yields an
// empty slice.
func Rank[T any](s *Scorer, query Vector, catalog []Entry[T], k int) ([]Scored[T], error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", domain.ErrInvalidArgument, k)
	}

	scored := make([]Scored[T], len(catalog))
	for i, e := range catalog {
		scored[i] = Scored[T]{Entry: e, Score: s.Score(query, e.Vector)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
