// Package wishlist holds whiskies a user wants to acquire.
package wishlist

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

// MaxNotesLen bounds free-form notes.
const MaxNotesLen = 2000

// Item is a wishlist entry. Whisky is hydrated from the catalog on read.
type Item struct {
	ID        string
	UserID    string
	WhiskyID  string
	Notes     string
	CreatedAt time.Time
	Whisky    catalog.Whisky
}

// New validates and creates an item.
func New(id, userID, whiskyID, notes string, now time.Time) (Item, error) {
	if whiskyID == "" {
		return Item{}, domain.NewFieldError("reference_whisky_id", "is required")
	}
	if len(notes) > MaxNotesLen {
		return Item{}, domain.NewFieldError("notes", fmt.Sprintf("must be at most %d characters", MaxNotesLen))
	}
	return Item{ID: id, UserID: userID, WhiskyID: whiskyID, Notes: notes, CreatedAt: now}, nil
}
