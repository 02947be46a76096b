// Package onorder sums outstanding purchase order quantities per part.
package onorder

import "github.com/vsinha/partstock/pkg/domain/entities"

// ComputeOnOrder returns the quantity of partID ordered but not yet received
// across every purchase order that is not Complete
func ComputeOnOrder(partID entities.PartID, orders []entities.PurchaseOrder) entities.Quantity {
	var total entities.Quantity
	for _, order := range orders {
		if order.Status == entities.Complete {
			continue
		}
		for _, item := range order.Items {
			if item.PartID == partID {
				total += item.Outstanding()
			}
		}
	}
	return total
}

// ComputeOnOrderAll returns the on-order quantity of every part referenced by
// an open purchase order. Parts with nothing outstanding are omitted.
func ComputeOnOrderAll(orders []entities.PurchaseOrder) map[entities.PartID]entities.Quantity {
	totals := make(map[entities.PartID]entities.Quantity)
	for _, order := range orders {
		if order.Status == entities.Complete {
			continue
		}
		for _, item := range order.Items {
			if outstanding := item.Outstanding(); outstanding > 0 {
				totals[item.PartID] += outstanding
			}
		}
	}
	return totals
}
