package entities

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POStatus represents the lifecycle state of a purchase order
type POStatus int

const (
	Draft POStatus = iota
	Ordered
	Complete
)

// String method for POStatus enum
func (s POStatus) String() string {
	switch s {
	case Draft:
		return "Draft"
	case Ordered:
		return "Ordered"
	case Complete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// MarshalText renders the status by name in JSON
func (s POStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParsePOStatus parses a status name case-insensitively
func ParsePOStatus(s string) (POStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return Draft, nil
	case "ordered":
		return Ordered, nil
	case "complete":
		return Complete, nil
	default:
		return Draft, fmt.Errorf("invalid purchase order status: %s (expected: Draft, Ordered, or Complete)", s)
	}
}

// ReceiptState is the receiving state of a single line item
type ReceiptState int

const (
	NotReceived ReceiptState = iota
	PartiallyReceived
	FullyReceived
)

// String method for ReceiptState enum
func (s ReceiptState) String() string {
	switch s {
	case NotReceived:
		return "NotReceived"
	case PartiallyReceived:
		return "PartiallyReceived"
	case FullyReceived:
		return "FullyReceived"
	default:
		return "Unknown"
	}
}

// ItemID identifies a purchase order line item
type ItemID string

// PurchaseOrderItem is one line of a purchase order. QuantityReceived never
// decreases over the lifetime of the item.
type PurchaseOrderItem struct {
	ID               ItemID
	PurchaseOrderID  string
	PartID           PartID
	QuantityOrdered  Quantity
	QuantityReceived Quantity
	Received         bool
	UnitPrice        decimal.Decimal
}

// NewPurchaseOrderItem creates a validated, not yet received line item.
// An empty id is replaced by a generated one.
func NewPurchaseOrderItem(id ItemID, partID PartID, quantityOrdered Quantity, unitPrice decimal.Decimal) (*PurchaseOrderItem, error) {
	if string(partID) == "" {
		return nil, NewValidationError("part_id", "part id cannot be empty")
	}
	if quantityOrdered <= 0 {
		return nil, NewValidationError("quantity_ordered", fmt.Sprintf("quantity ordered must be positive, got %d", quantityOrdered))
	}
	if unitPrice.IsNegative() {
		return nil, NewValidationError("unit_price", "unit price cannot be negative, got "+unitPrice.String())
	}
	if id == "" {
		id = ItemID(uuid.NewString())
	}

	return &PurchaseOrderItem{
		ID:              id,
		PartID:          partID,
		QuantityOrdered: quantityOrdered,
		UnitPrice:       unitPrice,
	}, nil
}

// IsFullyReceived reports whether the received quantity covers the ordered quantity
func (i PurchaseOrderItem) IsFullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}

// State derives the receiving state from the quantities
func (i PurchaseOrderItem) State() ReceiptState {
	switch {
	case i.QuantityReceived <= 0:
		return NotReceived
	case i.IsFullyReceived():
		return FullyReceived
	default:
		return PartiallyReceived
	}
}

// Outstanding returns the quantity still expected from the supplier
func (i PurchaseOrderItem) Outstanding() Quantity {
	if i.QuantityReceived >= i.QuantityOrdered {
		return 0
	}
	return i.QuantityOrdered - i.QuantityReceived
}

// LineTotal returns UnitPrice x QuantityOrdered converted with the given exchange rate
func (i PurchaseOrderItem) LineTotal(exchangeRate decimal.Decimal) decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.QuantityOrdered))).Mul(effectiveRate(exchangeRate))
}

// PurchaseOrder groups line items ordered from one supplier
type PurchaseOrder struct {
	ID       string
	Supplier string
	Status   POStatus
	Currency string
	// ExchangeRate converts supplier currency into base currency. It is
	// computed by the caller; zero means 1.
	ExchangeRate decimal.Decimal
	Items        []PurchaseOrderItem
}

// NewPurchaseOrder creates a validated purchase order. Items are stamped with
// the order id and start with nothing received. An empty id is replaced by a
// generated one.
func NewPurchaseOrder(id, supplier string, status POStatus, items []PurchaseOrderItem) (*PurchaseOrder, error) {
	if status == Complete {
		return nil, NewValidationError("status", "purchase order cannot be created complete")
	}
	if len(items) == 0 {
		return nil, NewValidationError("items", "purchase order must have at least one item")
	}
	if id == "" {
		id = uuid.NewString()
	}

	seen := make(map[ItemID]bool, len(items))
	owned := make([]PurchaseOrderItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = ItemID(uuid.NewString())
		}
		if seen[item.ID] {
			return nil, NewValidationError("items", fmt.Sprintf("duplicate item id %s", item.ID))
		}
		seen[item.ID] = true
		if string(item.PartID) == "" {
			return nil, NewValidationError("items", fmt.Sprintf("item %s has no part id", item.ID))
		}
		if item.QuantityOrdered <= 0 {
			return nil, NewValidationError("items", fmt.Sprintf("item %s quantity ordered must be positive, got %d", item.ID, item.QuantityOrdered))
		}

		item.PurchaseOrderID = id
		item.QuantityReceived = 0
		item.Received = false
		owned[i] = item
	}

	return &PurchaseOrder{
		ID:           id,
		Supplier:     supplier,
		Status:       status,
		ExchangeRate: decimal.NewFromInt(1),
		Items:        owned,
	}, nil
}

// Item returns the line item with the given id
func (o PurchaseOrder) Item(id ItemID) (PurchaseOrderItem, bool) {
	for _, item := range o.Items {
		if item.ID == id {
			return item, true
		}
	}
	return PurchaseOrderItem{}, false
}

// AllReceived reports whether every line item is received
func (o PurchaseOrder) AllReceived() bool {
	for _, item := range o.Items {
		if !item.Received {
			return false
		}
	}
	return true
}

// Total returns the order value in base currency
func (o PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal(o.ExchangeRate))
	}
	return total
}

// CheckComplete rejects a Complete order that still has items to receive
func (o PurchaseOrder) CheckComplete() error {
	if o.Status != Complete {
		return nil
	}
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return NewValidationError("status", fmt.Sprintf(
				"purchase order %s is complete but item %s has %d of %d received",
				o.ID, item.ID, item.QuantityReceived, item.QuantityOrdered))
		}
	}
	return nil
}

// ResolveSave returns the order to store when incoming is saved over
// persisted (nil for a new order). Receiving history always wins: received
// quantities never go down, an item with receipts cannot be dropped or moved
// to another part, and a Complete order stays Complete.
func ResolveSave(persisted *PurchaseOrder, incoming PurchaseOrder) (PurchaseOrder, error) {
	merged := incoming.Clone()

	if persisted != nil {
		if persisted.Status == Complete {
			merged.Status = Complete
		}
		for _, prior := range persisted.Items {
			if prior.QuantityReceived == 0 {
				continue
			}
			i := merged.itemIndex(prior.ID)
			if i < 0 {
				return PurchaseOrder{}, NewValidationError("items", fmt.Sprintf(
					"item %s of %s has %d received and cannot be removed", prior.ID, merged.ID, prior.QuantityReceived))
			}
			if merged.Items[i].PartID != prior.PartID {
				return PurchaseOrder{}, NewValidationError("items", fmt.Sprintf(
					"item %s of %s has received %s and cannot change part to %s",
					prior.ID, merged.ID, prior.PartID, merged.Items[i].PartID))
			}
			if merged.Items[i].QuantityReceived < prior.QuantityReceived {
				merged.Items[i].QuantityReceived = prior.QuantityReceived
			}
		}
	}

	for i := range merged.Items {
		merged.Items[i].PurchaseOrderID = merged.ID
		merged.Items[i].Received = merged.Items[i].IsFullyReceived()
	}

	if err := merged.CheckComplete(); err != nil {
		return PurchaseOrder{}, err
	}
	return merged, nil
}

func (o PurchaseOrder) itemIndex(id ItemID) int {
	for i, item := range o.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can modify items freely
func (o PurchaseOrder) Clone() PurchaseOrder {
	clone := o
	clone.Items = make([]PurchaseOrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return clone
}

func effectiveRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return rate
}
