package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/domain/repositories"
)

// Store provides in-memory storage for parts, component edges and purchase
// orders. All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	parts     []entities.Part
	partsMap  map[entities.PartID]int
	edges     []entities.AssemblyComponent
	edgeIndex map[entities.PartID][]int
	orders    []entities.PurchaseOrder
	ordersMap map[string]int
}

// NewStore creates an empty store sized for the expected number of parts
func NewStore(expectedParts int) *Store {
	return &Store{
		parts:     make([]entities.Part, 0, expectedParts),
		partsMap:  make(map[entities.PartID]int, expectedParts),
		edgeIndex: make(map[entities.PartID][]int, expectedParts),
		ordersMap: make(map[string]int),
	}
}

// Verify interface compliance
var (
	_ repositories.PartRepository          = (*Store)(nil)
	_ repositories.BOMRepository           = (*Store)(nil)
	_ repositories.PurchaseOrderRepository = (*Store)(nil)
	_ repositories.ReceivingStore          = (*Store)(nil)
)

// CommitReceiving applies a reconciliation pass under one write lock. Every
// precondition is checked before the first write.
func (s *Store) CommitReceiving(_ context.Context, commit repositories.ReceivingCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderIdx, exists := s.ordersMap[commit.OrderID]
	if !exists {
		return fmt.Errorf("purchase order %s: %w", commit.OrderID, entities.ErrNotFound)
	}
	order := &s.orders[orderIdx]

	itemIdx := make(map[entities.ItemID]int, len(order.Items))
	for i, item := range order.Items {
		itemIdx[item.ID] = i
	}

	for _, updated := range commit.UpdatedItems {
		i, ok := itemIdx[updated.ID]
		if !ok {
			return fmt.Errorf("purchase order %s item %s: %w", commit.OrderID, updated.ID, entities.ErrNotFound)
		}
		if order.Items[i].QuantityReceived != commit.Expected[updated.ID] {
			return fmt.Errorf("purchase order %s item %s received %d, expected %d: %w",
				commit.OrderID, updated.ID, order.Items[i].QuantityReceived, commit.Expected[updated.ID],
				entities.ErrConcurrencyConflict)
		}
	}
	for partID := range commit.StockDeltas {
		if _, ok := s.partsMap[partID]; !ok {
			return fmt.Errorf("part %s: %w", partID, entities.ErrNotFound)
		}
	}
	if commit.Complete && order.Status == entities.Complete {
		return fmt.Errorf("purchase order %s already complete: %w", commit.OrderID, entities.ErrConcurrencyConflict)
	}

	for _, updated := range commit.UpdatedItems {
		i := itemIdx[updated.ID]
		order.Items[i].QuantityReceived = updated.QuantityReceived
		order.Items[i].Received = updated.Received
	}
	for partID, delta := range commit.StockDeltas {
		s.parts[s.partsMap[partID]].StockQuantity += delta
	}
	if commit.Complete {
		order.Status = entities.Complete
	}

	return nil
}
