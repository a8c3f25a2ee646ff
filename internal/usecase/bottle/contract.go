package bottle

import (
	"context"

	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// Repository defines the storage contract for bottles.
type Repository interface {
	Save(ctx context.Context, b *dombottle.Bottle) error
	Get(ctx context.Context, userID, id string) (dombottle.Bottle, error)
	Delete(ctx context.Context, userID, id string) error
	ListAll(ctx context.Context, userID string) ([]dombottle.Bottle, error)
}

// Catalog links bottles to reference distilleries and ranks reference whiskies.
type Catalog interface {
	DistilleryByName(ctx context.Context, name string) (domcat.Distillery, bool, error)
	Rank(ctx context.Context, query flavor.Vector, limit int, source string) ([]flavor.Scored[domcat.Whisky], error)
}
