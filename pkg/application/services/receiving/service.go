package receiving

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/partstock/pkg/application/dto"
	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/domain/repositories"
	"github.com/vsinha/partstock/pkg/infrastructure/events"
)

// DefaultMaxAttempts bounds retries after a concurrency conflict
const DefaultMaxAttempts = 3

// Service loads a purchase order, reconciles proposed quantities against it
// and commits the pass through a ReceivingStore
type Service struct {
	orders      repositories.PurchaseOrderRepository
	store       repositories.ReceivingStore
	events      events.Store
	locker      *PartLocker
	maxAttempts int
}

// Option configures a Service
type Option func(*Service)

// WithEventStore publishes receiving events after every commit
func WithEventStore(store events.Store) Option {
	return func(s *Service) { s.events = store }
}

// WithMaxAttempts sets how many times a pass is tried before a concurrency
// conflict is returned to the caller
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewService creates a receiving service
func NewService(orders repositories.PurchaseOrderRepository, store repositories.ReceivingStore, opts ...Option) *Service {
	s := &Service{
		orders:      orders,
		store:       store,
		locker:      NewPartLocker(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyReceiving reconciles proposed received quantities for one purchase
// order and persists the result atomically. A pass that finds the persisted
// state changed underneath it is retried from fresh state.
func (s *Service) ApplyReceiving(
	ctx context.Context,
	orderID string,
	proposed map[entities.ItemID]entities.Quantity,
) (*dto.ReceivingResult, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		order, err := s.orders.GetPurchaseOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load purchase order %s: %w", orderID, err)
		}

		result, err := Reconcile(*order, proposed)
		if err != nil {
			return nil, err
		}
		result.Attempts = attempt

		if !result.Changed() {
			log.Debug().Str("purchase_order_id", orderID).Msg("receiving pass is a no-op")
			return &result, nil
		}

		err = s.commit(ctx, *order, result)
		if err == nil {
			s.publish(result)
			log.Info().
				Str("purchase_order_id", orderID).
				Int("updated_items", len(result.UpdatedItems)).
				Bool("completed", result.Completed).
				Int("attempt", attempt).
				Msg("receiving pass committed")
			return &result, nil
		}

		if !errors.Is(err, entities.ErrConcurrencyConflict) || attempt >= s.maxAttempts {
			return nil, fmt.Errorf("failed to commit receiving for purchase order %s: %w", orderID, err)
		}
		log.Warn().
			Err(err).
			Str("purchase_order_id", orderID).
			Int("attempt", attempt).
			Msg("receiving conflict, retrying with fresh state")
	}
}

func (s *Service) commit(ctx context.Context, prior entities.PurchaseOrder, result dto.ReceivingResult) error {
	partIDs := make([]entities.PartID, 0, len(result.PartStockDeltas))
	for partID := range result.PartStockDeltas {
		partIDs = append(partIDs, partID)
	}
	unlock := s.locker.Lock(partIDs)
	defer unlock()

	expected := make(map[entities.ItemID]entities.Quantity, len(result.UpdatedItems))
	for _, item := range result.UpdatedItems {
		previous, _ := prior.Item(item.ID)
		expected[item.ID] = previous.QuantityReceived
	}

	return s.store.CommitReceiving(ctx, repositories.ReceivingCommit{
		OrderID:      prior.ID,
		Expected:     expected,
		UpdatedItems: result.UpdatedItems,
		StockDeltas:  result.PartStockDeltas,
		Complete:     result.Completed,
	})
}

func (s *Service) publish(result dto.ReceivingResult) {
	if s.events == nil {
		return
	}

	partIDs := make([]entities.PartID, 0, len(result.PartStockDeltas))
	for partID := range result.PartStockDeltas {
		partIDs = append(partIDs, partID)
	}
	sort.Slice(partIDs, func(i, j int) bool { return partIDs[i] < partIDs[j] })

	for _, partID := range partIDs {
		event := events.NewStockReceived(result.Order.ID, partID, result.PartStockDeltas[partID])
		if _, err := s.events.Append(event); err != nil {
			log.Error().Err(err).Str("part_id", string(partID)).Msg("failed to append receiving event")
		}
	}
	if result.Completed {
		if _, err := s.events.Append(events.NewOrderCompleted(result.Order)); err != nil {
			log.Error().Err(err).Str("purchase_order_id", result.Order.ID).Msg("failed to append completion event")
		}
	}
}
