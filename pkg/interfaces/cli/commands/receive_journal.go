package commands

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/partstock/pkg/application/dto"
	"github.com/vsinha/partstock/pkg/infrastructure/events"
)

// receiveJournal collects receiving events for the run report. Orders are
// reconciled concurrently, so Handle may be called from several goroutines.
type receiveJournal struct {
	mu      sync.Mutex
	entries []dto.JournalEntry
}

func (j *receiveJournal) Handle(event events.Event) error {
	entry := dto.JournalEntry{
		Position:   event.Position,
		Kind:       string(event.Kind),
		RecordedAt: event.RecordedAt,
	}

	switch event.Kind {
	case events.KindStockReceived:
		received, ok := events.PayloadOf[events.StockReceived](event)
		if !ok {
			return fmt.Errorf("event %s: unexpected payload %T", event.ID, event.Payload)
		}
		entry.PurchaseOrderID = received.PurchaseOrderID
		entry.PartID = received.PartID
		entry.Quantity = received.Quantity
	case events.KindOrderCompleted:
		completed, ok := events.PayloadOf[events.OrderCompleted](event)
		if !ok {
			return fmt.Errorf("event %s: unexpected payload %T", event.ID, event.Payload)
		}
		entry.PurchaseOrderID = completed.PurchaseOrderID
		entry.Supplier = completed.Supplier
	default:
		return nil
	}

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
	return nil
}

// Entries returns the collected entries in journal order
func (j *receiveJournal) Entries() []dto.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := append([]dto.JournalEntry(nil), j.entries...)
	sort.Slice(out, func(a, b int) bool { return out[a].Position < out[b].Position })
	return out
}
