package valuation

import "github.com/shopspring/decimal"

// DefaultPricePlaces is the currency minor unit used when reporting amounts
const DefaultPricePlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// ProjectSalesPrice applies a markup percentage to a unit cost. The result
// keeps full precision; round with ReportAmount when it leaves the system.
func ProjectSalesPrice(unitCost, markupPercent decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(1).Add(markupPercent.Div(hundred)))
}

// ReportAmount rounds an amount to the given number of decimal places,
// half away from zero
func ReportAmount(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}
