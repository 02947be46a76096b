package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// ReceivingResult reports what one reconciliation pass changed
type ReceivingResult struct {
	Order           entities.PurchaseOrder                `json:"order"`
	UpdatedItems    []entities.PurchaseOrderItem          `json:"updated_items"`
	PartStockDeltas map[entities.PartID]entities.Quantity `json:"part_stock_deltas"`
	Completed       bool                                  `json:"completed"`
	Attempts        int                                   `json:"attempts"`
	// OrderTotal is the order value in base currency after the pass
	OrderTotal decimal.Decimal `json:"order_total"`
}

// Changed reports whether the pass produced anything to persist
func (r ReceivingResult) Changed() bool {
	return len(r.UpdatedItems) > 0 || r.Completed
}

// JournalEntry is one receiving event as recorded in the event journal
type JournalEntry struct {
	Position        int               `json:"position"`
	Kind            string            `json:"kind"`
	PurchaseOrderID string            `json:"purchase_order_id"`
	PartID          entities.PartID   `json:"part_id,omitempty"`
	Quantity        entities.Quantity `json:"quantity,omitempty"`
	Supplier        string            `json:"supplier,omitempty"`
	RecordedAt      time.Time         `json:"recorded_at"`
}

// ReceivingReport is everything one receive run produced
type ReceivingReport struct {
	Results []ReceivingResult `json:"results"`
	Journal []JournalEntry    `json:"journal"`
}
