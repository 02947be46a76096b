// Package receiving applies supplier deliveries to purchase order items and
// part stock using deltas against the last persisted state.
package receiving

import (
	"fmt"

	"github.com/vsinha/partstock/pkg/application/dto"
	"github.com/vsinha/partstock/pkg/domain/entities"
)

// ReceiptResult is the outcome of applying one proposed received quantity
type ReceiptResult struct {
	Item           entities.PurchaseOrderItem
	InventoryDelta entities.Quantity
}

// ApplyReceipt computes the stock increase implied by a proposed received
// quantity. Proposing the persisted value again yields a zero delta and an
// unchanged item, so retried saves never credit stock twice.
func ApplyReceipt(item entities.PurchaseOrderItem, proposed entities.Quantity) (ReceiptResult, error) {
	if proposed < item.QuantityReceived {
		return ReceiptResult{Item: item}, entities.NewValidationError(
			"quantity_received",
			fmt.Sprintf("item %s: received quantity cannot decrease from %d to %d", item.ID, item.QuantityReceived, proposed),
		)
	}

	delta := proposed - item.QuantityReceived
	if delta == 0 {
		return ReceiptResult{Item: item}, nil
	}

	item.QuantityReceived = proposed
	item.Received = item.IsFullyReceived()
	return ReceiptResult{Item: item, InventoryDelta: delta}, nil
}

// Reconcile applies a batch of proposed received quantities to one purchase
// order. The whole batch is validated before anything is applied; on error
// the returned result is empty and the input order is untouched.
func Reconcile(order entities.PurchaseOrder, proposed map[entities.ItemID]entities.Quantity) (dto.ReceivingResult, error) {
	receipts := make(map[entities.ItemID]ReceiptResult, len(proposed))
	for itemID, quantity := range proposed {
		item, ok := order.Item(itemID)
		if !ok {
			return dto.ReceivingResult{}, entities.NewValidationError(
				"item_id",
				fmt.Sprintf("purchase order %s has no item %s", order.ID, itemID),
			)
		}
		receipt, err := ApplyReceipt(item, quantity)
		if err != nil {
			return dto.ReceivingResult{}, err
		}
		if receipt.InventoryDelta > 0 && order.Status == entities.Complete {
			return dto.ReceivingResult{}, entities.NewValidationError(
				"status",
				fmt.Sprintf("purchase order %s is complete", order.ID),
			)
		}
		receipts[itemID] = receipt
	}

	updated := order.Clone()
	result := dto.ReceivingResult{PartStockDeltas: make(map[entities.PartID]entities.Quantity)}

	// walk items in order so UpdatedItems is deterministic
	for i, item := range updated.Items {
		receipt, ok := receipts[item.ID]
		if !ok || receipt.InventoryDelta == 0 {
			continue
		}
		updated.Items[i] = receipt.Item
		result.UpdatedItems = append(result.UpdatedItems, receipt.Item)
		result.PartStockDeltas[item.PartID] += receipt.InventoryDelta
	}

	// evaluated once, on the final item states
	if updated.Status != entities.Complete && updated.AllReceived() {
		updated.Status = entities.Complete
		result.Completed = true
	}

	result.Order = updated
	result.OrderTotal = updated.Total()
	return result, nil
}
