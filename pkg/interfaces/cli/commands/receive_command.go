package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/partstock/pkg/application/dto"
	"github.com/vsinha/partstock/pkg/application/services/receiving"
	"github.com/vsinha/partstock/pkg/config"
	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/infrastructure/events"
	"github.com/vsinha/partstock/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/partstock/pkg/interfaces/cli/output"
)

// ReceiveConfig holds flags for the receive command
type ReceiveConfig struct {
	ReceiptsFile string
	Database     string
	Format       string
	OutputFile   string
}

// ReceiveCommand applies a receipts file against the database. Purchase
// orders are reconciled concurrently; orders sharing a part serialize on the
// part locks inside the receiving service.
type ReceiveCommand struct {
	app    *config.Config
	config ReceiveConfig
	out    io.Writer
}

// NewReceiveCommand creates a new receive command
func NewReceiveCommand(app *config.Config, cfg ReceiveConfig, out io.Writer) *ReceiveCommand {
	return &ReceiveCommand{app: app, config: cfg, out: out}
}

// Execute runs the receive command
func (c *ReceiveCommand) Execute(ctx context.Context) error {
	if c.config.ReceiptsFile == "" {
		return errors.New("a receipts CSV file is required")
	}

	receipts, err := csv.NewLoader().LoadReceipts(c.config.ReceiptsFile)
	if err != nil {
		return fmt.Errorf("error loading receipts: %w", err)
	}

	store, err := openStore(c.app, c.config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	eventStore := events.NewMemoryStore()
	journal := &receiveJournal{}
	unsubscribe := eventStore.Subscribe(journal, events.KindStockReceived, events.KindOrderCompleted)
	defer unsubscribe()

	service := receiving.NewService(store, store,
		receiving.WithEventStore(eventStore),
		receiving.WithMaxAttempts(c.app.ReceivingMaxAttempts),
	)

	orderIDs := make([]string, 0, len(receipts))
	for id := range receipts {
		orderIDs = append(orderIDs, id)
	}
	sort.Strings(orderIDs)

	results := make([]dto.ReceivingResult, len(orderIDs))
	errs := make([]error, len(orderIDs))

	var wg sync.WaitGroup
	for i, orderID := range orderIDs {
		wg.Add(1)
		go func(i int, orderID string, proposed map[entities.ItemID]entities.Quantity) {
			defer wg.Done()
			result, err := service.ApplyReceiving(ctx, orderID, proposed)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = *result
		}(i, orderID, receipts[orderID])
	}
	wg.Wait()

	var applied []dto.ReceivingResult
	for i, err := range errs {
		if err != nil {
			log.Error().Err(err).Str("purchase_order_id", orderIDs[i]).Msg("receiving failed")
			continue
		}
		applied = append(applied, results[i])
	}

	report := &dto.ReceivingReport{Results: applied, Journal: journal.Entries()}
	log.Info().
		Int("purchase_orders", len(report.Results)).
		Int("events", len(report.Journal)).
		Msg("receiving finished")

	if err := output.GenerateReceiving(report, output.Config{
		Format:     c.config.Format,
		Out:        c.out,
		OutputFile: c.config.OutputFile,
	}); err != nil {
		return err
	}

	return errors.Join(errs...)
}
