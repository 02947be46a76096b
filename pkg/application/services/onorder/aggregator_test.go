package onorder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/partstock/pkg/domain/entities"
	testhelpers "github.com/vsinha/partstock/pkg/infrastructure/testing"
)

func TestComputeOnOrder(t *testing.T) {
	orders := []entities.PurchaseOrder{
		testhelpers.Order("PO-1", entities.Ordered,
			testhelpers.Item("L1", "BOLT", 10, 3),
			testhelpers.Item("L2", "NUT", 5, 0),
		),
		testhelpers.Order("PO-2", entities.Draft,
			testhelpers.Item("L1", "BOLT", 8, 0),
			testhelpers.Item("L2", "BOLT", 2, 5),
		),
		testhelpers.Order("PO-3", entities.Complete,
			testhelpers.Item("L1", "BOLT", 100, 0),
		),
	}

	testCases := []struct {
		part     entities.PartID
		expected entities.Quantity
	}{
		{"BOLT", 15},
		{"NUT", 5},
		{"WASHER", 0},
	}

	for _, tc := range testCases {
		t.Run(string(tc.part), func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeOnOrder(tc.part, orders))
		})
	}

	all := ComputeOnOrderAll(orders)
	assert.Equal(t, map[entities.PartID]entities.Quantity{"BOLT": 15, "NUT": 5}, all)
}

func TestComputeOnOrder_NoOrders(t *testing.T) {
	assert.Zero(t, ComputeOnOrder("BOLT", nil))
	assert.Empty(t, ComputeOnOrderAll(nil))
}
