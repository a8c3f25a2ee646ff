// Package seed loads the reference catalog from a YAML file into the store.
package seed

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/caskbook/internal/domain"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// File is the on-disk catalog.
type File struct {
	Distilleries []Distillery `yaml:"distilleries"`
	Whiskies     []Whisky     `yaml:"whiskies"`
}

// Distillery is one distillery entry.
type Distillery struct {
	Slug            string   `yaml:"slug"`
	Name            string   `yaml:"name"`
	Region          string   `yaml:"region"`
	Country         string   `yaml:"country"`
	Latitude        *float64 `yaml:"latitude"`
	Longitude       *float64 `yaml:"longitude"`
	Founded         *int     `yaml:"founded"`
	Owner           string   `yaml:"owner"`
	History         string   `yaml:"history"`
	ProductionNotes string   `yaml:"production_notes"`
	Website         string   `yaml:"website"`
}

// Whisky is one whisky entry. DistillerySlug must name a distillery in the
// same file or one already stored.
type Whisky struct {
	Slug           string         `yaml:"slug"`
	Name           string         `yaml:"name"`
	DistillerySlug string         `yaml:"distillery_slug"`
	AgeStatement   *int           `yaml:"age_statement"`
	Region         string         `yaml:"region"`
	Country        string         `yaml:"country"`
	FlavorProfile  map[string]int `yaml:"flavor_profile"`
	Description    string         `yaml:"description"`
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks slugs, required fields and flavor profiles.
func (f *File) Validate() error {
	seen := make(map[string]struct{}, len(f.Distilleries))
	for i, d := range f.Distilleries {
		if !domcat.ValidSlug(d.Slug) {
			return fmt.Errorf("%w: distilleries[%d]: invalid slug %q", domain.ErrValidation, i, d.Slug)
		}
		if _, dup := seen[d.Slug]; dup {
			return fmt.Errorf("%w: distilleries[%d]: duplicate slug %q", domain.ErrValidation, i, d.Slug)
		}
		seen[d.Slug] = struct{}{}
		if d.Name == "" || d.Region == "" || d.Country == "" {
			return fmt.Errorf("%w: distillery %s: name, region and country are required", domain.ErrValidation, d.Slug)
		}
	}

	seenW := make(map[string]struct{}, len(f.Whiskies))
	for i, w := range f.Whiskies {
		if !domcat.ValidSlug(w.Slug) {
			return fmt.Errorf("%w: whiskies[%d]: invalid slug %q", domain.ErrValidation, i, w.Slug)
		}
		if _, dup := seenW[w.Slug]; dup {
			return fmt.Errorf("%w: whiskies[%d]: duplicate slug %q", domain.ErrValidation, i, w.Slug)
		}
		seenW[w.Slug] = struct{}{}
		if w.Name == "" || w.Region == "" || w.Country == "" {
			return fmt.Errorf("%w: whisky %s: name, region and country are required", domain.ErrValidation, w.Slug)
		}
		if _, err := flavor.Parse(w.FlavorProfile); err != nil {
			return fmt.Errorf("whisky %s: %w", w.Slug, err)
		}
	}
	return nil
}

func (d *Distillery) toDomain(id string) domcat.Distillery {
	return domcat.Distillery{
		ID:              id,
		Slug:            d.Slug,
		Name:            d.Name,
		Region:          d.Region,
		Country:         d.Country,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Founded:         d.Founded,
		Owner:           d.Owner,
		History:         d.History,
		ProductionNotes: d.ProductionNotes,
		Website:         d.Website,
	}
}

func (w *Whisky) toDomain(id string, distillery domcat.DistillerySummary) domcat.Whisky {
	v, _ := flavor.Parse(w.FlavorProfile) // validated in Parse
	return domcat.Whisky{
		ID:           id,
		Slug:         w.Slug,
		Name:         w.Name,
		Distillery:   distillery,
		AgeStatement: w.AgeStatement,
		Region:       w.Region,
		Country:      w.Country,
		Flavor:       v,
		Description:  w.Description,
	}
}
