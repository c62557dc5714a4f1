package persistence

import (
	"context"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// LotRepository defines methods to interact with the lot ledger. The ledger
// is a disposable projection: it is dropped and regenerated at the start of
// every recalculation pass.
type LotRepository interface {
	// DeleteAll removes every lot; the ledger-clear step of a rebuild
	DeleteAll(ctx context.Context) error

	// CreateBatch inserts the rebuilt lots, preserving insertion order
	CreateBatch(ctx context.Context, lots []*entity.Lot) error

	// ListByAssetDateAsc retrieves all lots for an asset ordered by acquisition
	// date ascending, ties broken by insertion order. The FIFO consumption order.
	ListByAssetDateAsc(ctx context.Context, asset string) ([]*entity.Lot, error)

	// UpdateRemaining persists a lot's decremented remaining amount
	//
	// Possible errors:
	// - ErrNotFound: if the lot no longer exists
	// - ErrDatabaseConnection: if database connection fails
	UpdateRemaining(ctx context.Context, lot *entity.Lot) error

	// ListOpen retrieves all lots with a positive remaining amount, ordered by
	// (asset, acquisition date)
	ListOpen(ctx context.Context) ([]*entity.Lot, error)
}
