// Package bottle holds the collection aggregate: a bottle owned by a user.
package bottle

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// Field limits.
const (
	MaxNameLen     = 255
	MaxRegionLen   = 100
	MaxLocationLen = 255
	MinRating      = 1
	MaxRating      = 5
)

// Status is the lifecycle state of a bottle.
type Status string

// Bottle statuses.
const (
	StatusSealed   Status = "sealed"
	StatusOpened   Status = "opened"
	StatusFinished Status = "finished"
)

// ParseStatus validates a status string. Empty means sealed.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusSealed, nil
	case StatusSealed, StatusOpened, StatusFinished:
		return Status(s), nil
	default:
		return "", domain.NewFieldError("status", fmt.Sprintf("unknown status %q", s))
	}
}

// Attributes are the user-editable fields of a bottle.
type Attributes struct {
	Name             string
	DistilleryName   string
	AgeStatement     *int
	Region           string
	Country          string
	SizeML           *int
	ABV              *float64
	Flavor           *flavor.Vector // nil: no profile recorded
	TastingNotes     *string
	Rating           *int
	Status           Status
	PurchasePrice    *float64
	PurchaseDate     *time.Time
	PurchaseLocation *string
}

// Bottle is a whisky in a user's collection.
type Bottle struct {
	Attributes

	ID           string
	UserID       string
	DistilleryID string // empty when the name matched no reference distillery
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New validates attrs and creates a bottle.
func New(id, userID string, attrs Attributes, now time.Time) (Bottle, error) {
	if id == "" || userID == "" {
		return Bottle{}, fmt.Errorf("%w: bottle id and owner are required", domain.ErrInvalidArgument)
	}
	if attrs.Status == "" {
		attrs.Status = StatusSealed
	}
	if err := attrs.Validate(); err != nil {
		return Bottle{}, err
	}
	return Bottle{
		Attributes: attrs,
		ID:         id,
		UserID:     userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Validate checks field constraints.
func (a Attributes) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return domain.NewFieldError("name", "is required")
	}
	if len(a.Name) > MaxNameLen {
		return domain.NewFieldError("name", fmt.Sprintf("must be at most %d characters", MaxNameLen))
	}
	if strings.TrimSpace(a.DistilleryName) == "" {
		return domain.NewFieldError("distillery_name", "is required")
	}
	if len(a.DistilleryName) > MaxNameLen {
		return domain.NewFieldError("distillery_name", fmt.Sprintf("must be at most %d characters", MaxNameLen))
	}
	if strings.TrimSpace(a.Region) == "" || len(a.Region) > MaxRegionLen {
		return domain.NewFieldError("region", fmt.Sprintf("must be 1-%d characters", MaxRegionLen))
	}
	if strings.TrimSpace(a.Country) == "" || len(a.Country) > MaxRegionLen {
		return domain.NewFieldError("country", fmt.Sprintf("must be 1-%d characters", MaxRegionLen))
	}
	if a.AgeStatement != nil && *a.AgeStatement < 0 {
		return domain.NewFieldError("age_statement", "must be >= 0")
	}
	if a.SizeML != nil && *a.SizeML <= 0 {
		return domain.NewFieldError("size_ml", "must be > 0")
	}
	if a.ABV != nil && (*a.ABV < 0 || *a.ABV > 100) {
		return domain.NewFieldError("abv", "must be between 0 and 100")
	}
	if a.Rating != nil && (*a.Rating < MinRating || *a.Rating > MaxRating) {
		return domain.NewFieldError("rating", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating))
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	if a.PurchaseLocation != nil && len(*a.PurchaseLocation) > MaxLocationLen {
		return domain.NewFieldError("purchase_location", fmt.Sprintf("must be at most %d characters", MaxLocationLen))
	}
	if a.Flavor != nil {
		for i, x := range a.Flavor {
			if x < flavor.MinIntensity || x > flavor.MaxIntensity {
				return domain.NewFieldError("flavor_profile."+string(flavor.Dimensions()[i]), "must be between 0 and 5")
			}
		}
	}
	return nil
}

// HasFlavorSignal reports whether the bottle has a profile with at least one
// positive dimension.
func (b *Bottle) HasFlavorSignal() bool {
	return b.Flavor != nil && b.Flavor.HasSignal()
}

// FlavorVector returns the profile, or the zero vector when none is recorded.
func (b *Bottle) FlavorVector() flavor.Vector {
	if b.Flavor == nil {
		return flavor.Vector{}
	}
	return *b.Flavor
}
