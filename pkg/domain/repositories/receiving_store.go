package repositories

import (
	"context"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// ReceivingCommit is everything one reconciliation pass writes back
type ReceivingCommit struct {
	OrderID string

	// Expected holds the persisted QuantityReceived of every updated item as
	// seen when the pass started. A store must refuse the commit with
	// entities.ErrConcurrencyConflict if any of them changed since.
	Expected     map[entities.ItemID]entities.Quantity
	UpdatedItems []entities.PurchaseOrderItem
	StockDeltas  map[entities.PartID]entities.Quantity
	// Complete transitions the order to entities.Complete
	Complete bool
}

// ReceivingStore persists a reconciliation pass as a single atomic unit:
// item updates, stock deltas and the status transition all commit or none do.
type ReceivingStore interface {
	CommitReceiving(ctx context.Context, commit ReceivingCommit) error
}
