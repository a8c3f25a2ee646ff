package wishlist

import (
	"context"

	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	domwish "github.com/kailas-cloud/caskbook/internal/domain/wishlist"
)

// Repository defines the storage contract for wishlist items.
type Repository interface {
	Add(ctx context.Context, it *domwish.Item) error
	Remove(ctx context.Context, userID, id string) error
	ListAll(ctx context.Context, userID string) ([]domwish.Item, error)
}

// Catalog resolves reference whiskies.
type Catalog interface {
	WhiskyByID(ctx context.Context, id string) (domcat.Whisky, error)
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
}
