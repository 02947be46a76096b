// Package testing builds catalog fixtures shared by tests across layers.
package testing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/infrastructure/repositories/memory"
)

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Atomic builds an atomic part without a markup
func Atomic(id entities.PartID, unitCost string, stock entities.Quantity) entities.Part {
	return entities.Part{
		ID:            id,
		Description:   string(id),
		UnitCost:      Dec(unitCost),
		StockQuantity: stock,
	}
}

// Assembly builds an assembly part without a markup
func Assembly(id entities.PartID, laborCost string) entities.Part {
	return entities.Part{
		ID:                id,
		Description:       string(id),
		IsAssembly:        true,
		AssemblyLaborCost: Dec(laborCost),
	}
}

// Edge builds one assembly component edge
func Edge(assembly, component entities.PartID, qty entities.Quantity) entities.AssemblyComponent {
	return entities.AssemblyComponent{AssemblyID: assembly, ComponentID: component, QuantityRequired: qty}
}

// Item builds a purchase order line with the received flag derived
func Item(id entities.ItemID, part entities.PartID, ordered, received entities.Quantity) entities.PurchaseOrderItem {
	item := entities.PurchaseOrderItem{
		ID:               id,
		PartID:           part,
		QuantityOrdered:  ordered,
		QuantityReceived: received,
		UnitPrice:        decimal.NewFromInt(1),
	}
	item.Received = item.IsFullyReceived()
	return item
}

// Order builds a purchase order and stamps its items with the order id
func Order(id string, status entities.POStatus, items ...entities.PurchaseOrderItem) entities.PurchaseOrder {
	order := entities.PurchaseOrder{
		ID:           id,
		Supplier:     "ACME",
		Status:       status,
		Currency:     "USD",
		ExchangeRate: decimal.NewFromInt(1),
	}
	for _, item := range items {
		item.PurchaseOrderID = id
		order.Items = append(order.Items, item)
	}
	return order
}

// KitCatalog is a single-level kit: Kit-1 (labor 5.00) needs 4 Bolt
// (0.50 each, 40 in stock). Kit-1 costs 7.00 and 10 can be built.
func KitCatalog() *entities.Catalog {
	return &entities.Catalog{
		Parts: []entities.Part{
			Assembly("Kit-1", "5.00"),
			Atomic("Bolt", "0.50", 40),
		},
		Components: []entities.AssemblyComponent{
			Edge("Kit-1", "Bolt", 4),
		},
	}
}

// NestedKitCatalog nests a sub-assembly: Kit-1 (labor 5.00) needs 4 Bolt and
// 2 Sub-A; Sub-A (labor 1.00) needs 2 Nut and 1 Washer.
//
//	Sub-A cost  = 1.00 + 2*0.10 + 1*0.25 = 1.45
//	Kit-1 cost  = 5.00 + 4*0.50 + 2*1.45 = 9.90
//	Sub-A avail = min(30/2, 12/1)        = 12
//	Kit-1 avail = min(40/4, 12/2)        = 6
func NestedKitCatalog() *entities.Catalog {
	return &entities.Catalog{
		Parts: []entities.Part{
			Assembly("Kit-1", "5.00"),
			Assembly("Sub-A", "1.00"),
			Atomic("Bolt", "0.50", 40),
			Atomic("Nut", "0.10", 30),
			Atomic("Washer", "0.25", 12),
		},
		Components: []entities.AssemblyComponent{
			Edge("Kit-1", "Bolt", 4),
			Edge("Kit-1", "Sub-A", 2),
			Edge("Sub-A", "Nut", 2),
			Edge("Sub-A", "Washer", 1),
		},
	}
}

// CyclicCatalog has A and B containing each other, with A also needing Bolt
func CyclicCatalog() *entities.Catalog {
	return &entities.Catalog{
		Parts: []entities.Part{
			Assembly("A", "1.00"),
			Assembly("B", "2.00"),
			Atomic("Bolt", "0.50", 40),
		},
		Components: []entities.AssemblyComponent{
			Edge("A", "B", 1),
			Edge("A", "Bolt", 2),
			Edge("B", "A", 1),
		},
	}
}

// WideCatalog builds n assemblies that each use the same shared atomic parts,
// under a single top-level assembly. Used to exercise memoization and bulk
// writes.
func WideCatalog(n int) *entities.Catalog {
	catalog := &entities.Catalog{
		Parts: []entities.Part{
			Assembly("TOP", "0"),
			Atomic("Shared-1", "1.00", 1000),
			Atomic("Shared-2", "2.00", 1000),
		},
	}
	for i := 0; i < n; i++ {
		id := entities.PartID(fmt.Sprintf("Sub-%04d", i))
		catalog.Parts = append(catalog.Parts, Assembly(id, "0.10"))
		catalog.Components = append(catalog.Components,
			Edge("TOP", id, 1),
			Edge(id, "Shared-1", 1),
			Edge(id, "Shared-2", 2),
		)
	}
	return catalog
}

// NewMemoryStore loads a catalog into a fresh memory store
func NewMemoryStore(catalog *entities.Catalog) *memory.Store {
	store := memory.NewStore(len(catalog.Parts))

	parts := make([]*entities.Part, len(catalog.Parts))
	for i := range catalog.Parts {
		parts[i] = &catalog.Parts[i]
	}
	if err := store.LoadParts(parts); err != nil {
		panic(err)
	}

	edges := make([]*entities.AssemblyComponent, len(catalog.Components))
	for i := range catalog.Components {
		edges[i] = &catalog.Components[i]
	}
	if err := store.LoadComponents(edges); err != nil {
		panic(err)
	}

	orders := make([]*entities.PurchaseOrder, len(catalog.PurchaseOrders))
	for i := range catalog.PurchaseOrders {
		orders[i] = &catalog.PurchaseOrders[i]
	}
	if err := store.LoadPurchaseOrders(orders); err != nil {
		panic(err)
	}

	return store
}
