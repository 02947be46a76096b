package receiving

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/domain/repositories"
	"github.com/vsinha/partstock/pkg/infrastructure/events"
	"github.com/vsinha/partstock/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/partstock/pkg/infrastructure/testing"
)

func receivingStore(orders ...entities.PurchaseOrder) *memory.Store {
	catalog := testhelpers.NestedKitCatalog()
	catalog.PurchaseOrders = orders
	return testhelpers.NewMemoryStore(catalog)
}

func stockOf(t *testing.T, store *memory.Store, id entities.PartID) entities.Quantity {
	t.Helper()
	part, err := store.GetPart(context.Background(), id)
	require.NoError(t, err)
	return part.StockQuantity
}

// flakyStore fails the first commits with a conflict
type flakyStore struct {
	next      repositories.ReceivingStore
	conflicts int
	calls     int
}

func (f *flakyStore) CommitReceiving(ctx context.Context, commit repositories.ReceivingCommit) error {
	f.calls++
	if f.calls <= f.conflicts {
		return fmt.Errorf("simulated: %w", entities.ErrConcurrencyConflict)
	}
	return f.next.CommitReceiving(ctx, commit)
}

func TestService_ApplyReceiving(t *testing.T) {
	ctx := context.Background()
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered,
		testhelpers.Item("L1", "Bolt", 10, 3),
		testhelpers.Item("L2", "Nut", 5, 0),
	))
	eventStore := events.NewMemoryStore()
	service := NewService(store, store, WithEventStore(eventStore))

	result, err := service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 7})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.Completed)
	assert.Equal(t, entities.Quantity(44), stockOf(t, store, "Bolt"))

	order, err := store.GetPurchaseOrder(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(7), order.Items[0].QuantityReceived)
	assert.Equal(t, entities.Ordered, order.Status)

	result, err = service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 10, "L2": 5})
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, entities.Quantity(47), stockOf(t, store, "Bolt"))
	assert.Equal(t, entities.Quantity(35), stockOf(t, store, "Nut"))

	order, err = store.GetPurchaseOrder(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, entities.Complete, order.Status)

	all, err := eventStore.Since(0)
	require.NoError(t, err)
	kinds := make([]events.Kind, len(all))
	for i, e := range all {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []events.Kind{
		events.KindStockReceived,
		events.KindStockReceived,
		events.KindStockReceived,
		events.KindOrderCompleted,
	}, kinds)

	boltEvents, err := eventStore.Stream("Bolt", 0)
	require.NoError(t, err)
	require.Len(t, boltEvents, 2)
	received, ok := events.PayloadOf[events.StockReceived](boltEvents[1])
	require.True(t, ok)
	assert.Equal(t, entities.Quantity(3), received.Quantity)
}

func TestService_NoOpPassWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "Bolt", 10, 3)))
	eventStore := events.NewMemoryStore()
	flaky := &flakyStore{next: store}
	service := NewService(store, flaky, WithEventStore(eventStore))

	result, err := service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 3})
	require.NoError(t, err)
	assert.False(t, result.Changed())
	assert.Zero(t, flaky.calls)
	assert.Equal(t, entities.Quantity(40), stockOf(t, store, "Bolt"))

	all, _ := eventStore.Since(0)
	assert.Empty(t, all)
}

func TestService_RetriesConflicts(t *testing.T) {
	ctx := context.Background()
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "Bolt", 10, 0)))
	flaky := &flakyStore{next: store, conflicts: 2}
	service := NewService(store, flaky)

	result, err := service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 4})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, entities.Quantity(44), stockOf(t, store, "Bolt"))
}

func TestService_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "Bolt", 10, 0)))
	flaky := &flakyStore{next: store, conflicts: 10}
	service := NewService(store, flaky, WithMaxAttempts(2))

	_, err := service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrConcurrencyConflict)
	assert.Equal(t, 2, flaky.calls)
	assert.Equal(t, entities.Quantity(40), stockOf(t, store, "Bolt"))
}

func TestService_ValidationIsNotRetried(t *testing.T) {
	ctx := context.Background()
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "Bolt", 10, 5)))
	flaky := &flakyStore{next: store}
	service := NewService(store, flaky)

	_, err := service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrValidation)
	assert.Zero(t, flaky.calls)
}

func TestService_UnknownOrder(t *testing.T) {
	store := receivingStore()
	service := NewService(store, store)

	_, err := service.ApplyReceiving(context.Background(), "PO-404", map[entities.ItemID]entities.Quantity{"L1": 1})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestService_CancelledContext(t *testing.T) {
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "Bolt", 10, 0)))
	service := NewService(store, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 1})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestService_ConcurrentDuplicatePassesCreditOnce(t *testing.T) {
	ctx := context.Background()
	store := receivingStore(testhelpers.Order("PO-1", entities.Ordered, testhelpers.Item("L1", "Bolt", 10, 0)))
	service := NewService(store, store)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.ApplyReceiving(ctx, "PO-1", map[entities.ItemID]entities.Quantity{"L1": 6})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, entities.Quantity(46), stockOf(t, store, "Bolt"))
}

func TestService_ConcurrentOrdersSharingAPart(t *testing.T) {
	ctx := context.Background()
	var orders []entities.PurchaseOrder
	for i := 0; i < 8; i++ {
		orders = append(orders, testhelpers.Order(fmt.Sprintf("PO-%d", i), entities.Ordered,
			testhelpers.Item("L1", "Bolt", 5, 0),
			testhelpers.Item("L2", "Nut", 2, 0),
		))
	}
	store := receivingStore(orders...)
	service := NewService(store, store)

	var wg sync.WaitGroup
	for _, order := range orders {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := service.ApplyReceiving(ctx, id, map[entities.ItemID]entities.Quantity{"L1": 5, "L2": 2})
			assert.NoError(t, err)
		}(order.ID)
	}
	wg.Wait()

	assert.Equal(t, entities.Quantity(40+8*5), stockOf(t, store, "Bolt"))
	assert.Equal(t, entities.Quantity(30+8*2), stockOf(t, store, "Nut"))

	open, err := store.ListOpenPurchaseOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
