package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/partstock/pkg/application/services/valuation"
	"github.com/vsinha/partstock/pkg/config"
	"github.com/vsinha/partstock/pkg/interfaces/cli/output"
)

// ValuateConfig holds flags for the valuate command
type ValuateConfig struct {
	Input      string
	Database   string
	Format     string
	OutputFile string
	Verbose    bool
}

// ValuateCommand resolves derived cost, price, availability and on-order
// quantities for every part
type ValuateCommand struct {
	app    *config.Config
	config ValuateConfig
	out    io.Writer
}

// NewValuateCommand creates a new valuate command
func NewValuateCommand(app *config.Config, cfg ValuateConfig, out io.Writer) *ValuateCommand {
	return &ValuateCommand{app: app, config: cfg, out: out}
}

// Execute runs the valuate command
func (c *ValuateCommand) Execute(ctx context.Context) error {
	catalog, err := catalogFrom(ctx, c.app, c.config.Input, c.config.Database)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}

	start := time.Now()
	result, err := valuation.ResolvePartsView(
		catalog.Parts,
		catalog.Components,
		catalog.OpenPurchaseOrders(),
		valuation.ViewOptions{PricePlaces: c.app.PricePlaces},
	)
	if err != nil {
		return fmt.Errorf("error resolving parts view: %w", err)
	}
	elapsed := time.Since(start)

	log.Info().
		Int("parts", len(result.Parts)).
		Int("warnings", len(result.Warnings)).
		Dur("elapsed", elapsed).
		Msg("parts view resolved")

	return output.Generate(result, output.Config{
		Format:      c.config.Format,
		Out:         c.out,
		OutputFile:  c.config.OutputFile,
		Verbose:     c.config.Verbose,
		ElapsedTime: elapsed,
	})
}
