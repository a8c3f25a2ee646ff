package bottle

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// Patch is a partial bottle update. Nil fields are unchanged.
type Patch struct {
	Name             *string
	DistilleryName   *string
	AgeStatement     *int
	Region           *string
	Country          *string
	SizeML           *int
	ABV              *float64
	Flavor           *flavor.Vector
	TastingNotes     *string
	Rating           *int
	Status           *Status
	PurchasePrice    *float64
	PurchaseDate     *time.Time
	PurchaseLocation *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// RenamesDistillery reports whether the distillery link has to be recomputed.
func (p Patch) RenamesDistillery() bool { return p.DistilleryName != nil }

// Apply returns a copy of b with the patch applied and validated.
func (p Patch) Apply(b Bottle, now time.Time) (Bottle, error) {
	if p.IsEmpty() {
		return Bottle{}, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	a := b.Attributes
	setIf(&a.Name, p.Name)
	setIf(&a.DistilleryName, p.DistilleryName)
	setIf(&a.Region, p.Region)
	setIf(&a.Country, p.Country)
	setIf(&a.Status, p.Status)
	if p.AgeStatement != nil {
		a.AgeStatement = p.AgeStatement
	}
	if p.SizeML != nil {
		a.SizeML = p.SizeML
	}
	if p.ABV != nil {
		a.ABV = p.ABV
	}
	if p.Flavor != nil {
		a.Flavor = p.Flavor
	}
	if p.TastingNotes != nil {
		a.TastingNotes = p.TastingNotes
	}
	if p.Rating != nil {
		a.Rating = p.Rating
	}
	if p.PurchasePrice != nil {
		a.PurchasePrice = p.PurchasePrice
	}
	if p.PurchaseDate != nil {
		a.PurchaseDate = p.PurchaseDate
	}
	if p.PurchaseLocation != nil {
		a.PurchaseLocation = p.PurchaseLocation
	}
	if err := a.Validate(); err != nil {
		return Bottle{}, err
	}
	b.Attributes = a
	b.UpdatedAt = now
	return b, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
