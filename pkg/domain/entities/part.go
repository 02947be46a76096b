package entities

import "github.com/shopspring/decimal"

// PartID represents a unique part identifier
type PartID string

// Quantity represents an integer quantity of discrete units
type Quantity int64

// Part is either an atomic part (purchased and stocked directly) or an
// assembly built from other parts. For assemblies, UnitCost and StockQuantity
// are cache values only and are never read by the resolver.
type Part struct {
	ID                PartID
	Description       string
	IsAssembly        bool
	UnitCost          decimal.Decimal
	StockQuantity     Quantity
	MarkupPercent     decimal.Decimal
	AssemblyLaborCost decimal.Decimal
}

// NewAtomicPart creates a validated atomic part
func NewAtomicPart(id PartID, description string, unitCost decimal.Decimal, stock Quantity, markupPercent decimal.Decimal) (*Part, error) {
	if string(id) == "" {
		return nil, NewValidationError("id", "part id cannot be empty")
	}
	if unitCost.IsNegative() {
		return nil, NewValidationError("unit_cost", "unit cost cannot be negative, got "+unitCost.String())
	}
	if stock < 0 {
		return nil, NewValidationError("stock_quantity", "stock quantity cannot be negative")
	}
	if markupPercent.IsNegative() {
		return nil, NewValidationError("markup_percent", "markup percent cannot be negative, got "+markupPercent.String())
	}

	return &Part{
		ID:            id,
		Description:   description,
		UnitCost:      unitCost,
		StockQuantity: stock,
		MarkupPercent: markupPercent,
	}, nil
}

// NewAssemblyPart creates a validated assembly part
func NewAssemblyPart(id PartID, description string, laborCost decimal.Decimal, markupPercent decimal.Decimal) (*Part, error) {
	if string(id) == "" {
		return nil, NewValidationError("id", "part id cannot be empty")
	}
	if laborCost.IsNegative() {
		return nil, NewValidationError("assembly_labor_cost", "labor cost cannot be negative, got "+laborCost.String())
	}
	if markupPercent.IsNegative() {
		return nil, NewValidationError("markup_percent", "markup percent cannot be negative, got "+markupPercent.String())
	}

	return &Part{
		ID:                id,
		Description:       description,
		IsAssembly:        true,
		MarkupPercent:     markupPercent,
		AssemblyLaborCost: laborCost,
	}, nil
}

// PartSet indexes parts by id
type PartSet map[PartID]Part

// NewPartSet builds a PartSet from a list of parts. Later duplicates win.
func NewPartSet(parts []Part) PartSet {
	set := make(PartSet, len(parts))
	for _, p := range parts {
		set[p.ID] = p
	}
	return set
}
