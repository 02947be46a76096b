package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// PartView is a part augmented with values derived from the component graph
// and open purchase orders. Atomic parts pass their stored values through.
type PartView struct {
	ID                       entities.PartID   `json:"id"`
	Description              string            `json:"description"`
	IsAssembly               bool              `json:"is_assembly"`
	MarkupPercent            decimal.Decimal   `json:"markup_percent"`
	AssemblyLaborCost        decimal.Decimal   `json:"assembly_labor_cost"`
	DerivedUnitCost          decimal.Decimal   `json:"derived_unit_cost"`
	DerivedSalesPrice        decimal.Decimal   `json:"derived_sales_price"`
	DerivedAvailableQuantity entities.Quantity `json:"derived_available_quantity"`
	OnOrderQuantity          entities.Quantity `json:"on_order_quantity"`
}

// PartsViewResult is the materialized view handed to presentation
type PartsViewResult struct {
	Parts    []PartView         `json:"parts"`
	Warnings []entities.Warning `json:"warnings"`
}
