package events

import (
	"github.com/vsinha/partstock/pkg/domain/entities"
)

// Event kinds published by partstock
const (
	KindStockReceived  Kind = "stock.received"
	KindOrderCompleted Kind = "purchase_order.completed"
)

// StockReceived records a stock increase credited by a receiving pass
type StockReceived struct {
	PartID          entities.PartID   `json:"part_id"`
	Quantity        entities.Quantity `json:"quantity"`
	PurchaseOrderID string            `json:"purchase_order_id"`
}

// OrderCompleted records a purchase order reaching Complete
type OrderCompleted struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	Supplier        string `json:"supplier"`
}

// NewStockReceived builds an event on the part's stream
func NewStockReceived(orderID string, partID entities.PartID, quantity entities.Quantity) Event {
	return New(KindStockReceived, string(partID), StockReceived{
		PartID:          partID,
		Quantity:        quantity,
		PurchaseOrderID: orderID,
	})
}

// NewOrderCompleted builds an event on the order's stream
func NewOrderCompleted(order entities.PurchaseOrder) Event {
	return New(KindOrderCompleted, order.ID, OrderCompleted{
		PurchaseOrderID: order.ID,
		Supplier:        order.Supplier,
	})
}
