package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

func TestMemoryStore_Streams(t *testing.T) {
	store := NewMemoryStore()

	for _, e := range []Event{
		NewStockReceived("PO-1", "BOLT", 4),
		NewStockReceived("PO-1", "NUT", 2),
		NewStockReceived("PO-2", "BOLT", 6),
	} {
		_, err := store.Append(e)
		require.NoError(t, err)
	}

	bolt, err := store.Stream("BOLT", 0)
	require.NoError(t, err)
	require.Len(t, bolt, 2)
	assert.Equal(t, 1, bolt[0].Version)
	assert.Equal(t, 2, bolt[1].Version)
	assert.Equal(t, 3, bolt[1].Position)

	received, ok := PayloadOf[StockReceived](bolt[1])
	require.True(t, ok)
	assert.Equal(t, "PO-2", received.PurchaseOrderID)

	_, ok = PayloadOf[OrderCompleted](bolt[1])
	assert.False(t, ok)

	fromTwo, err := store.Stream("BOLT", 2)
	require.NoError(t, err)
	assert.Len(t, fromTwo, 1)

	missing, err := store.Stream("WASHER", 0)
	require.NoError(t, err)
	assert.Empty(t, missing)

	since, err := store.Since(1)
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.Equal(t, "NUT", since[0].StreamID)
	assert.NotEqual(t, since[0].ID, since[1].ID)

	none, err := store.Since(3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_AppendRejectsIncompleteEvents(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Append(Event{StreamID: "BOLT"})
	assert.EqualError(t, err, "event kind cannot be empty")

	_, err = store.Append(Event{Kind: KindStockReceived})
	assert.EqualError(t, err, "event stream id cannot be empty")

	saved, err := store.Append(Event{Kind: KindStockReceived, StreamID: "BOLT"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore()

	var seen []Event
	unsubscribe := store.Subscribe(HandlerFunc(func(e Event) error {
		seen = append(seen, e)
		if e.StreamID == "PO-9" {
			return errors.New("handler failure")
		}
		return nil
	}), KindOrderCompleted)

	var everything int
	store.Subscribe(HandlerFunc(func(Event) error {
		everything++
		return nil
	}))

	order := entities.PurchaseOrder{ID: "PO-1", Supplier: "ACME"}
	_, err := store.Append(NewStockReceived("PO-1", "BOLT", 1))
	require.NoError(t, err)
	_, err = store.Append(NewOrderCompleted(order))
	require.NoError(t, err)

	// a failing handler is logged, not returned
	_, err = store.Append(NewOrderCompleted(entities.PurchaseOrder{ID: "PO-9"}))
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, KindOrderCompleted, seen[0].Kind)
	completed, _ := PayloadOf[OrderCompleted](seen[0])
	assert.Equal(t, "ACME", completed.Supplier)
	assert.Equal(t, 2, seen[0].Position)
	assert.Equal(t, "PO-9", seen[1].StreamID)
	assert.Equal(t, 3, everything)

	unsubscribe()
	unsubscribe()
	_, err = store.Append(NewOrderCompleted(entities.PurchaseOrder{ID: "PO-2"}))
	require.NoError(t, err)
	assert.Len(t, seen, 2)
	assert.Equal(t, 4, everything)
}

func TestMemoryStore_HandlerMayAppend(t *testing.T) {
	store := NewMemoryStore()
	store.Subscribe(HandlerFunc(func(e Event) error {
		received, _ := PayloadOf[StockReceived](e)
		_, err := store.Append(NewOrderCompleted(entities.PurchaseOrder{ID: received.PurchaseOrderID}))
		return err
	}), KindStockReceived)

	_, err := store.Append(NewStockReceived("PO-7", "BOLT", 1))
	require.NoError(t, err)

	all, err := store.Since(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "PO-7", all[1].StreamID)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Append(NewStockReceived("PO-1", "BOLT", 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	bolt, err := store.Stream("BOLT", 0)
	require.NoError(t, err)
	require.Len(t, bolt, 20)
	for i, e := range bolt {
		assert.Equal(t, i+1, e.Version)
		assert.Equal(t, i+1, e.Position)
	}
}

func TestNewStockReceived_Stream(t *testing.T) {
	e := NewStockReceived("PO-1", "BOLT", 3)
	assert.Equal(t, "BOLT", e.StreamID)
	received, ok := PayloadOf[StockReceived](e)
	require.True(t, ok)
	assert.Equal(t, "PO-1", received.PurchaseOrderID)

	_, ok = PayloadOf[OrderCompleted](e)
	assert.False(t, ok)
}
