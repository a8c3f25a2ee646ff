package bottle

import (
	"time"

	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// bottleRecord is the stored JSON form of a bottle.
type bottleRecord struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	Name             string         `json:"name"`
	DistilleryName   string         `json:"distillery_name"`
	DistilleryID     string         `json:"distillery_id,omitempty"`
	AgeStatement     *int           `json:"age_statement,omitempty"`
	Region           string         `json:"region"`
	Country          string         `json:"country"`
	SizeML           *int           `json:"size_ml,omitempty"`
	ABV              *float64       `json:"abv,omitempty"`
	FlavorProfile    map[string]int `json:"flavor_profile,omitempty"`
	TastingNotes     *string        `json:"tasting_notes,omitempty"`
	Rating           *int           `json:"rating,omitempty"`
	Status           string         `json:"status"`
	PurchasePrice    *float64       `json:"purchase_price,omitempty"`
	PurchaseDate     *time.Time     `json:"purchase_date,omitempty"`
	PurchaseLocation *string        `json:"purchase_location,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func toRecord(b *dombottle.Bottle) bottleRecord {
	rec := bottleRecord{
		ID:               b.ID,
		UserID:           b.UserID,
		Name:             b.Name,
		DistilleryName:   b.DistilleryName,
		DistilleryID:     b.DistilleryID,
		AgeStatement:     b.AgeStatement,
		Region:           b.Region,
		Country:          b.Country,
		SizeML:           b.SizeML,
		ABV:              b.ABV,
		TastingNotes:     b.TastingNotes,
		Rating:           b.Rating,
		Status:           string(b.Status),
		PurchasePrice:    b.PurchasePrice,
		PurchaseDate:     b.PurchaseDate,
		PurchaseLocation: b.PurchaseLocation,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.Flavor != nil {
		rec.FlavorProfile = b.Flavor.Map()
	}
	return rec
}

// fromRecord hydrates without validation. A stored empty profile map is
// kept as a present (all-zero) profile.
func fromRecord(rec *bottleRecord) dombottle.Bottle {
	b := dombottle.Bottle{
		Attributes: dombottle.Attributes{
			Name:             rec.Name,
			DistilleryName:   rec.DistilleryName,
			AgeStatement:     rec.AgeStatement,
			Region:           rec.Region,
			Country:          rec.Country,
			SizeML:           rec.SizeML,
			ABV:              rec.ABV,
			TastingNotes:     rec.TastingNotes,
			Rating:           rec.Rating,
			Status:           dombottle.Status(rec.Status),
			PurchasePrice:    rec.PurchasePrice,
			PurchaseDate:     rec.PurchaseDate,
			PurchaseLocation: rec.PurchaseLocation,
		},
		ID:           rec.ID,
		UserID:       rec.UserID,
		DistilleryID: rec.DistilleryID,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.FlavorProfile != nil {
		v := flavor.FromMap(rec.FlavorProfile)
		b.Flavor = &v
	}
	return b
}
