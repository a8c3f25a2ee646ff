package profile

import (
	"context"

	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
)

// BottleLister returns every bottle a user owns.
type BottleLister interface {
	ListAll(ctx context.Context, userID string) ([]dombottle.Bottle, error)
}

// SnapshotSource returns the reference catalog.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
}
