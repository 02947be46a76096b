package repositories

import (
	"context"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// PurchaseOrderRepository provides access to purchase orders and their items
type PurchaseOrderRepository interface {
	GetPurchaseOrder(ctx context.Context, id string) (*entities.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]entities.PurchaseOrder, error)
	// ListOpenPurchaseOrders returns orders whose status is not Complete
	ListOpenPurchaseOrders(ctx context.Context) ([]entities.PurchaseOrder, error)
	SavePurchaseOrder(ctx context.Context, order *entities.PurchaseOrder) error
}
