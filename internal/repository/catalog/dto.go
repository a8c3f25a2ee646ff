package catalog

import (
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

type distilleryRecord struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Region          string   `json:"region"`
	Country         string   `json:"country"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Founded         *int     `json:"founded,omitempty"`
	Owner           string   `json:"owner,omitempty"`
	History         string   `json:"history,omitempty"`
	ProductionNotes string   `json:"production_notes,omitempty"`
	Website         string   `json:"website,omitempty"`
}

type distillerySummaryRecord struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type whiskyRecord struct {
	ID            string                  `json:"id"`
	Slug          string                  `json:"slug"`
	Name          string                  `json:"name"`
	Distillery    distillerySummaryRecord `json:"distillery"`
	AgeStatement  *int                    `json:"age_statement,omitempty"`
	Region        string                  `json:"region"`
	Country       string                  `json:"country"`
	FlavorProfile map[string]int          `json:"flavor_profile"`
	Description   string                  `json:"description,omitempty"`
}

func distilleryToRecord(d *domcat.Distillery) distilleryRecord { return distilleryRecord(*d) }

func distilleryFromRecord(rec *distilleryRecord) domcat.Distillery { return domcat.Distillery(*rec) }

func whiskyToRecord(w *domcat.Whisky) whiskyRecord {
	return whiskyRecord{
		ID:            w.ID,
		Slug:          w.Slug,
		Name:          w.Name,
		Distillery:    distillerySummaryRecord(w.Distillery),
		AgeStatement:  w.AgeStatement,
		Region:        w.Region,
		Country:       w.Country,
		FlavorProfile: w.Flavor.Map(),
		Description:   w.Description,
	}
}

func whiskyFromRecord(rec *whiskyRecord) domcat.Whisky {
	return domcat.Whisky{
		ID:           rec.ID,
		Slug:         rec.Slug,
		Name:         rec.Name,
		Distillery:   domcat.DistillerySummary(rec.Distillery),
		AgeStatement: rec.AgeStatement,
		Region:       rec.Region,
		Country:      rec.Country,
		Flavor:       flavor.FromMap(rec.FlavorProfile),
		Description:  rec.Description,
	}
}
