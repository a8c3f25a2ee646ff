// Package bottle manages a user's collection.
package bottle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/caskbook/internal/domain"
	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/page"
	"github.com/kailas-cloud/caskbook/internal/usecase/catalog"
)

// Service handles bottle CRUD, listing and similarity lookups.
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
	newID   func() string
}

// New creates a bottle service.
func New(repo Repository, cat Catalog) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Create validates and stores a new bottle owned by userID.
func (s *Service) Create(ctx context.Context, userID string, attrs dombottle.Attributes) (dombottle.Bottle, error) {
	b, err := dombottle.New(s.newID(), userID, attrs, s.now())
	if err != nil {
		return dombottle.Bottle{}, fmt.Errorf("validate bottle: %w", err)
	}
	if b.DistilleryID, err = s.linkDistillery(ctx, b.DistilleryName); err != nil {
		return dombottle.Bottle{}, err
	}
	if err := s.repo.Save(ctx, &b); err != nil {
		return dombottle.Bottle{}, fmt.Errorf("create bottle: %w", err)
	}
	return b, nil
}

// Get returns one of the user's bottles.
func (s *Service) Get(ctx context.Context, userID, id string) (dombottle.Bottle, error) {
	b, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return dombottle.Bottle{}, fmt.Errorf("get bottle: %w", err)
	}
	return b, nil
}

// Update applies a partial update. The distillery link is recomputed when
// the distillery name changes.
func (s *Service) Update(ctx context.Context, userID, id string, p dombottle.Patch) (dombottle.Bottle, error) {
	cur, err := s.Get(ctx, userID, id)
	if err != nil {
		return dombottle.Bottle{}, err
	}
	b, err := p.Apply(cur, s.now())
	if err != nil {
		return dombottle.Bottle{}, fmt.Errorf("validate patch: %w", err)
	}
	if p.RenamesDistillery() {
		if b.DistilleryID, err = s.linkDistillery(ctx, b.DistilleryName); err != nil {
			return dombottle.Bottle{}, err
		}
	}
	if err := s.repo.Save(ctx, &b); err != nil {
		return dombottle.Bottle{}, fmt.Errorf("update bottle: %w", err)
	}
	return b, nil
}

// Delete removes one of the user's bottles.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete bottle: %w", err)
	}
	return nil
}

// List returns one page of the user's bottles after filtering and sorting.
func (s *Service) List(
	ctx context.Context, userID string, q dombottle.Query, req page.Request,
) (page.Page[dombottle.Bottle], error) {
	all, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return page.Page[dombottle.Bottle]{}, fmt.Errorf("list bottles: %w", err)
	}
	return page.Slice(q.Apply(all), req)
}

// Similar ranks the reference catalog against the bottle's flavor profile.
func (s *Service) Similar(
	ctx context.Context, userID, id string, limit int,
) ([]flavor.Scored[domcat.Whisky], error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !b.HasFlavorSignal() {
		return nil, domain.ErrNoFlavorProfile
	}
	ranked, err := s.catalog.Rank(ctx, b.FlavorVector(), limit, catalog.SourceBottle)
	if err != nil {
		return nil, fmt.Errorf("similar whiskies: %w", err)
	}
	return ranked, nil
}

func (s *Service) linkDistillery(ctx context.Context, name string) (string, error) {
	d, ok, err := s.catalog.DistilleryByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("link distillery: %w", err)
	}
	if !ok {
		return "", nil
	}
	return d.ID, nil
}
