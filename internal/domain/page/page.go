// Package page implements opaque offset cursors for list endpoints.
package page

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// Default and maximum page sizes. Overridden once at startup from the
// pagination config.
var (
	DefaultLimit = 20
	MaxLimit     = 100
)

type cursorPayload struct {
	Offset int `json:"offset"`
}

// EncodeCursor returns the opaque cursor for offset.
func EncodeCursor(offset int) string {
	raw, _ := json.Marshal(cursorPayload{Offset: offset})
	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a cursor. The empty cursor is offset 0.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	var p cursorPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Offset < 0 {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	return p.Offset, nil
}

// Request is a cursor plus a page size.
type Request struct {
	Cursor string
	Limit  int
}

// Page is one slice of a listing.
type Page[T any] struct {
	Items      []T
	NextCursor string // empty when HasMore is false
	HasMore    bool
}

// Slice cuts one page out of items.
func Slice[T any](items []T, req Request) (Page[T], error) {
	offset, err := DecodeCursor(req.Cursor)
	if err != nil {
		return Page[T]{}, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Page[T]{}, domain.NewFieldError("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}

	if offset > len(items) {
		offset = len(items)
	}
	end := min(offset+limit, len(items))
	p := Page[T]{Items: items[offset:end], HasMore: end < len(items)}
	if p.HasMore {
		p.NextCursor = EncodeCursor(end)
	}
	return p, nil
}
