// Package suggest proposes flavor profiles for free-form tasting notes.
package suggest

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// Service exposes the suggestion chain. A nil suggester disables the feature.
type Service struct {
	suggester flavor.Suggester
}

// New creates a suggestion service.
func New(s flavor.Suggester) *Service {
	return &Service{suggester: s}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool { return s.suggester != nil }

// Suggest returns a profile for notes.
func (s *Service) Suggest(ctx context.Context, notes string) (flavor.Vector, error) {
	if s.suggester == nil {
		return flavor.Vector{}, fmt.Errorf("%w: flavor suggestions are not configured", domain.ErrNotImplemented)
	}
	res, err := s.suggester.Suggest(ctx, notes)
	if err != nil {
		return flavor.Vector{}, fmt.Errorf("suggest flavor: %w", err)
	}
	return res.Profile, nil
}
