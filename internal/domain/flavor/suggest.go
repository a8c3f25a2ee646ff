package flavor

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// MaxNotesLen bounds the tasting notes sent for a suggestion.
const MaxNotesLen = 4000

// Suggester proposes a flavor profile for free-form tasting notes.
type Suggester interface {
	Suggest(ctx context.Context, notes string) (Suggestion, error)
}

// HealthChecker verifies suggestion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Suggestion carries the proposed profile and token usage through the decorator chain.
type Suggestion struct {
	Profile      Vector
	PromptTokens int
	TotalTokens  int
}

// ClampingSuggester trims notes, rejects empty or oversized input and forces
// the proposed profile into the intensity bounds.
type ClampingSuggester struct {
	inner Suggester
}

// NewClampingSuggester wraps inner.
func NewClampingSuggester(inner Suggester) *ClampingSuggester {
	return &ClampingSuggester{inner: inner}
}

// Suggest implements Suggester.
func (s *ClampingSuggester) Suggest(ctx context.Context, notes string) (Suggestion, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return Suggestion{}, domain.NewFieldError("tasting_notes", "is required")
	}
	if len(notes) > MaxNotesLen {
		return Suggestion{}, domain.NewFieldError("tasting_notes", fmt.Sprintf("must be at most %d characters", MaxNotesLen))
	}
	res, err := s.inner.Suggest(ctx, notes)
	if err != nil {
		return Suggestion{}, err
	}
	res.Profile = res.Profile.Clamp()
	return res, nil
}
