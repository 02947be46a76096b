package entities

// Catalog is one snapshot of everything a valuation or import needs
type Catalog struct {
	Parts          []Part
	Components     []AssemblyComponent
	PurchaseOrders []PurchaseOrder
}

// OpenPurchaseOrders returns the orders that are not yet complete
func (c Catalog) OpenPurchaseOrders() []PurchaseOrder {
	open := make([]PurchaseOrder, 0, len(c.PurchaseOrders))
	for _, order := range c.PurchaseOrders {
		if order.Status != Complete {
			open = append(open, order)
		}
	}
	return open
}
