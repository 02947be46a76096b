package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// LoadPurchaseOrders loads purchase orders into the repository
func (s *Store) LoadPurchaseOrders(orders []*entities.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range orders {
		if err := s.upsertOrder(*order); err != nil {
			return err
		}
	}
	return nil
}

// SavePurchaseOrder inserts a purchase order or merges it over the stored
// one; see entities.ResolveSave
func (s *Store) SavePurchaseOrder(_ context.Context, order *entities.PurchaseOrder) error {
	if order == nil || order.ID == "" {
		return entities.NewValidationError("id", "purchase order id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertOrder(*order)
}

func (s *Store) upsertOrder(order entities.PurchaseOrder) error {
	index, exists := s.ordersMap[order.ID]

	var persisted *entities.PurchaseOrder
	if exists {
		persisted = &s.orders[index]
	}
	merged, err := entities.ResolveSave(persisted, order)
	if err != nil {
		return fmt.Errorf("save purchase order %s: %w", order.ID, err)
	}

	if exists {
		s.orders[index] = merged
		return nil
	}
	s.ordersMap[order.ID] = len(s.orders)
	s.orders = append(s.orders, merged)
	return nil
}

// GetPurchaseOrder returns a deep copy of one purchase order
func (s *Store) GetPurchaseOrder(_ context.Context, id string) (*entities.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, exists := s.ordersMap[id]
	if !exists {
		return nil, fmt.Errorf("purchase order %s: %w", id, entities.ErrNotFound)
	}
	order := s.orders[index].Clone()
	return &order, nil
}

// ListPurchaseOrders returns deep copies of all purchase orders
func (s *Store) ListPurchaseOrders(_ context.Context) ([]entities.PurchaseOrder, error) {
	return s.listOrders(func(entities.PurchaseOrder) bool { return true }), nil
}

// ListOpenPurchaseOrders returns deep copies of orders that are not Complete
func (s *Store) ListOpenPurchaseOrders(_ context.Context) ([]entities.PurchaseOrder, error) {
	return s.listOrders(func(o entities.PurchaseOrder) bool { return o.Status != entities.Complete }), nil
}

func (s *Store) listOrders(keep func(entities.PurchaseOrder) bool) []entities.PurchaseOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []entities.PurchaseOrder
	for _, order := range s.orders {
		if keep(order) {
			orders = append(orders, order.Clone())
		}
	}
	return orders
}
