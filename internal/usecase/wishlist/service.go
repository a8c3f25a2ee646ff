// Package wishlist manages whiskies a user wants to acquire.
package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/page"
	domwish "github.com/kailas-cloud/caskbook/internal/domain/wishlist"
	"github.com/kailas-cloud/caskbook/internal/logger"
)

// Service handles wishlist operations.
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
	newID   func() string
}

// New creates a wishlist service.
func New(repo Repository, cat Catalog) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Add puts a reference whisky on the user's wishlist.
func (s *Service) Add(ctx context.Context, userID, whiskyID, notes string) (domwish.Item, error) {
	it, err := domwish.New(s.newID(), userID, whiskyID, notes, s.now())
	if err != nil {
		return domwish.Item{}, fmt.Errorf("validate wishlist item: %w", err)
	}
	w, err := s.catalog.WhiskyByID(ctx, whiskyID)
	if err != nil {
		return domwish.Item{}, fmt.Errorf("resolve whisky: %w", err)
	}
	if err := s.repo.Add(ctx, &it); err != nil {
		return domwish.Item{}, fmt.Errorf("add wishlist item: %w", err)
	}
	it.Whisky = w
	return it, nil
}

// List returns one page of the user's wishlist, newest first. Items whose
// whisky left the catalog are skipped.
func (s *Service) List(ctx context.Context, userID string, req page.Request) (page.Page[domwish.Item], error) {
	items, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return page.Page[domwish.Item]{}, fmt.Errorf("list wishlist: %w", err)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return page.Page[domwish.Item]{}, fmt.Errorf("load catalog: %w", err)
	}

	byID := make(map[string]domcat.Whisky, len(snap.Whiskies))
	for _, w := range snap.Whiskies {
		byID[w.ID] = w
	}
	out := make([]domwish.Item, 0, len(items))
	for _, it := range items {
		w, ok := byID[it.WhiskyID]
		if !ok {
			logger.FromContext(ctx).Warn("wishlist item references unknown whisky",
				zap.String("item_id", it.ID), zap.String("whisky_id", it.WhiskyID))
			continue
		}
		it.Whisky = w
		out = append(out, it)
	}
	return page.Slice(out, req)
}

// Remove deletes one of the user's items.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if err := s.repo.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}
