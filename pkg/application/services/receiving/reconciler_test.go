package receiving

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/partstock/pkg/domain/entities"
	testhelpers "github.com/vsinha/partstock/pkg/infrastructure/testing"
)

func TestApplyReceipt(t *testing.T) {
	item := testhelpers.Item("L1", "BOLT", 10, 3)

	testCases := []struct {
		name     string
		proposed entities.Quantity
		delta    entities.Quantity
		received bool
		wantErr  bool
	}{
		{"unchanged proposal", 3, 0, false, false},
		{"partial receipt", 7, 4, false, false},
		{"exact receipt", 10, 7, true, false},
		{"over receipt", 12, 9, true, false},
		{"lowered proposal", 2, 0, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ApplyReceipt(item, tc.proposed)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, entities.ErrValidation)
				assert.Equal(t, item, result.Item, "a rejected receipt leaves the item as it was")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.delta, result.InventoryDelta)
			assert.Equal(t, tc.received, result.Item.Received)
			if tc.delta == 0 {
				assert.Equal(t, item, result.Item)
			} else {
				assert.Equal(t, tc.proposed, result.Item.QuantityReceived)
			}
		})
	}
}

func TestApplyReceipt_RetryIsIdempotent(t *testing.T) {
	item := testhelpers.Item("L1", "BOLT", 10, 3)

	first, err := ApplyReceipt(item, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(4), first.InventoryDelta)

	// the same value proposed against the saved item credits nothing
	again, err := ApplyReceipt(first.Item, 7)
	require.NoError(t, err)
	assert.Zero(t, again.InventoryDelta)
	assert.Equal(t, first.Item, again.Item)
}

func TestApplyReceipt_SingleUnit(t *testing.T) {
	result, err := ApplyReceipt(testhelpers.Item("L1", "BOLT", 1, 0), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(1), result.InventoryDelta)
	assert.True(t, result.Item.Received)
	assert.Equal(t, entities.FullyReceived, result.Item.State())
}

func TestReconcile_PartialThenMore(t *testing.T) {
	order := testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "BOLT", 10, 3))

	noop, err := Reconcile(order, map[entities.ItemID]entities.Quantity{"L1": 3})
	require.NoError(t, err)
	assert.False(t, noop.Changed())
	assert.Empty(t, noop.PartStockDeltas)
	assert.Equal(t, order, noop.Order)

	result, err := Reconcile(order, map[entities.ItemID]entities.Quantity{"L1": 7})
	require.NoError(t, err)
	assert.True(t, result.Changed())
	assert.False(t, result.Completed)
	assert.Equal(t, entities.Ordered, result.Order.Status)
	assert.Equal(t, map[entities.PartID]entities.Quantity{"BOLT": 4}, result.PartStockDeltas)
	require.Len(t, result.UpdatedItems, 1)
	assert.Equal(t, entities.Quantity(7), result.UpdatedItems[0].QuantityReceived)
	assert.False(t, result.UpdatedItems[0].Received)

	assert.Equal(t, entities.Quantity(3), order.Items[0].QuantityReceived, "input order is not mutated")
}

func TestReconcile_CompletesOrder(t *testing.T) {
	order := testhelpers.Order("PO-1", entities.Ordered,
		testhelpers.Item("L1", "BOLT", 10, 0),
		testhelpers.Item("L2", "NUT", 4, 1),
	)

	result, err := Reconcile(order, map[entities.ItemID]entities.Quantity{"L1": 10, "L2": 4})
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, entities.Complete, result.Order.Status)
	assert.True(t, result.Order.AllReceived())
	assert.Equal(t, map[entities.PartID]entities.Quantity{"BOLT": 10, "NUT": 3}, result.PartStockDeltas)
	assert.True(t, testhelpers.Dec("14").Equal(result.OrderTotal), "got %s", result.OrderTotal)

	require.Len(t, result.UpdatedItems, 2)
	assert.Equal(t, entities.ItemID("L1"), result.UpdatedItems[0].ID, "items are reported in order")
}

func TestReconcile_CompletesWhenLastItemArrives(t *testing.T) {
	order := testhelpers.Order("PO-1", entities.Ordered,
		testhelpers.Item("L1", "BOLT", 10, 10),
		testhelpers.Item("L2", "NUT", 4, 0),
	)

	partial, err := Reconcile(order, map[entities.ItemID]entities.Quantity{"L2": 2})
	require.NoError(t, err)
	assert.False(t, partial.Completed)

	result, err := Reconcile(partial.Order, map[entities.ItemID]entities.Quantity{"L2": 4})
	require.NoError(t, err)
	assert.True(t, result.Completed)
}

func TestReconcile_AggregatesDeltasPerPart(t *testing.T) {
	order := testhelpers.Order("PO-1", entities.Draft,
		testhelpers.Item("L1", "BOLT", 10, 0),
		testhelpers.Item("L2", "BOLT", 5, 0),
	)

	result, err := Reconcile(order, map[entities.ItemID]entities.Quantity{"L1": 6, "L2": 2})
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(8), result.PartStockDeltas["BOLT"])
}

func TestReconcile_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		order    entities.PurchaseOrder
		proposed map[entities.ItemID]entities.Quantity
		field    string
	}{
		{
			name:     "unknown item",
			order:    testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "BOLT", 10, 0)),
			proposed: map[entities.ItemID]entities.Quantity{"L1": 5, "L9": 1},
			field:    "item_id",
		},
		{
			name: "one lowered item rejects the batch",
			order: testhelpers.Order("PO-1", entities.Ordered,
				testhelpers.Item("L1", "BOLT", 10, 0),
				testhelpers.Item("L2", "NUT", 10, 6),
			),
			proposed: map[entities.ItemID]entities.Quantity{"L1": 5, "L2": 4},
			field:    "quantity_received",
		},
		{
			name:     "increase on a complete order",
			order:    testhelpers.Order("PO-1", entities.Complete, testhelpers.Item("L1", "BOLT", 10, 10)),
			proposed: map[entities.ItemID]entities.Quantity{"L1": 11},
			field:    "status",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.order.Clone()

			result, err := Reconcile(tc.order, tc.proposed)
			require.Error(t, err)

			var verr *entities.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.False(t, result.Changed())
			assert.Equal(t, before, tc.order)
		})
	}
}

func TestReconcile_CompleteOrderAcceptsUnchangedProposal(t *testing.T) {
	order := testhelpers.Order("PO-1", entities.Complete, testhelpers.Item("L1", "BOLT", 10, 10))

	result, err := Reconcile(order, map[entities.ItemID]entities.Quantity{"L1": 10})
	require.NoError(t, err)
	assert.False(t, result.Changed())
	assert.False(t, result.Completed, "completion is reported once")
}
