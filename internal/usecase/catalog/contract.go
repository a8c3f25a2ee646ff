package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

// Repository defines point lookups against the stored catalog.
type Repository interface {
	Whisky(ctx context.Context, slug string) (domcat.Whisky, error)
	WhiskyByID(ctx context.Context, id string) (domcat.Whisky, error)
	Distillery(ctx context.Context, slug string) (domcat.Distillery, error)
}

// SnapshotSource returns the whole catalog, typically from an in-process cache.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
}
