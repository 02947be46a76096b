package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_OpenPurchaseOrders(t *testing.T) {
	catalog := Catalog{PurchaseOrders: []PurchaseOrder{
		{ID: "PO-1", Status: Draft},
		{ID: "PO-2", Status: Complete},
		{ID: "PO-3", Status: Ordered},
	}}

	open := catalog.OpenPurchaseOrders()
	assert.Len(t, open, 2)
	assert.Equal(t, "PO-1", open[0].ID)
	assert.Equal(t, "PO-3", open[1].ID)
}
