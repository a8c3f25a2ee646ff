package bottle

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// SortKey is a bottle list ordering.
type SortKey string

// Sort keys.
const (
	SortName       SortKey = "name"
	SortDistillery SortKey = "distillery"
	SortAge        SortKey = "age"
	SortCreatedAt  SortKey = "created_at"
	SortRating     SortKey = "rating"
)

// ParseSortKey validates a sort key. Empty means created_at.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortCreatedAt, nil
	case SortName, SortDistillery, SortAge, SortCreatedAt, SortRating:
		return SortKey(s), nil
	default:
		return "", domain.NewFieldError("sort", "must be one of name, distillery, age, created_at, rating")
	}
}

// Query filters and orders a collection listing.
type Query struct {
	Search     string // case-insensitive substring of name, distillery or region
	Region     string
	Status     Status
	Sort       SortKey
	Descending bool
}

// Matches reports whether b passes the filters.
func (q Query) Matches(b *Bottle) bool {
	if q.Region != "" && b.Region != q.Region {
		return false
	}
	if q.Status != "" && b.Status != q.Status {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(b.Name), needle) ||
		strings.Contains(strings.ToLower(b.DistilleryName), needle) ||
		strings.Contains(strings.ToLower(b.Region), needle)
}

// Apply filters bottles and sorts them. Ties fall back to ID descending so
// pages stay stable between requests. Missing ages and ratings sort last.
func (q Query) Apply(bottles []Bottle) []Bottle {
	out := make([]Bottle, 0, len(bottles))
	for i := range bottles {
		if q.Matches(&bottles[i]) {
			out = append(out, bottles[i])
		}
	}

	cmp := q.compare()
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(&out[i], &out[j])
		if c == 0 {
			return out[i].ID > out[j].ID
		}
		if q.Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

func (q Query) compare() func(a, b *Bottle) int {
	switch q.Sort {
	case SortName:
		return func(a, b *Bottle) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case SortDistillery:
		return func(a, b *Bottle) int {
			return strings.Compare(strings.ToLower(a.DistilleryName), strings.ToLower(b.DistilleryName))
		}
	case SortAge:
		return func(a, b *Bottle) int { return compareOptional(a.AgeStatement, b.AgeStatement, q.Descending) }
	case SortRating:
		return func(a, b *Bottle) int { return compareOptional(a.Rating, b.Rating, q.Descending) }
	default:
		return func(a, b *Bottle) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// compareOptional orders nil after every value regardless of direction.
func compareOptional(a, b *int, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if desc {
			return -1
		}
		return 1
	case b == nil:
		if desc {
			return 1
		}
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
