package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/partstock/pkg/config"
	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/infrastructure/batch"
)

// ImportConfig holds flags for the import command
type ImportConfig struct {
	Input    string
	Database string
}

// ImportCommand loads a CSV directory or YAML scenario into the database
type ImportCommand struct {
	app    *config.Config
	config ImportConfig
	out    io.Writer
}

// NewImportCommand creates a new import command
func NewImportCommand(app *config.Config, cfg ImportConfig, out io.Writer) *ImportCommand {
	return &ImportCommand{app: app, config: cfg, out: out}
}

// Execute runs the import command
func (c *ImportCommand) Execute(ctx context.Context) error {
	if c.config.Input == "" {
		return errors.New("an input directory or scenario file is required")
	}

	catalog, err := loadCatalog(c.config.Input)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}

	store, err := openStore(c.app, c.config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveParts(ctx, catalog.Parts); err != nil {
		return fmt.Errorf("error importing parts: %w", err)
	}
	if err := store.SaveComponents(ctx, catalog.Components); err != nil {
		return fmt.Errorf("error importing components: %w", err)
	}

	err = batch.Apply(ctx, catalog.PurchaseOrders, c.app.Batch(), func(ctx context.Context, chunk []entities.PurchaseOrder) error {
		for i := range chunk {
			if err := store.SavePurchaseOrder(ctx, &chunk[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error importing purchase orders: %w", err)
	}

	log.Info().
		Int("parts", len(catalog.Parts)).
		Int("components", len(catalog.Components)).
		Int("purchase_orders", len(catalog.PurchaseOrders)).
		Msg("catalog imported")

	fmt.Fprintf(c.out, "Imported %d parts, %d components, %d purchase orders\n",
		len(catalog.Parts), len(catalog.Components), len(catalog.PurchaseOrders))
	return nil
}
