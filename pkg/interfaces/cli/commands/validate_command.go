package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/vsinha/partstock/pkg/config"
	"github.com/vsinha/partstock/pkg/domain/services"
	"github.com/vsinha/partstock/pkg/interfaces/cli/output"
)

// ValidateConfig holds flags for the validate command
type ValidateConfig struct {
	Input    string
	Database string
	Format   string
	// Strict turns reported issues into a failing exit status
	Strict bool
}

// ValidateCommand reports structural problems in the component graph
type ValidateCommand struct {
	app    *config.Config
	config ValidateConfig
	out    io.Writer
}

// NewValidateCommand creates a new validate command
func NewValidateCommand(app *config.Config, cfg ValidateConfig, out io.Writer) *ValidateCommand {
	return &ValidateCommand{app: app, config: cfg, out: out}
}

// Execute runs the validate command
func (c *ValidateCommand) Execute(ctx context.Context) error {
	catalog, err := catalogFrom(ctx, c.app, c.config.Input, c.config.Database)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}

	validator := services.NewBOMValidator()
	result := validator.ValidateBOM(catalog.Parts, catalog.Components)

	uniqueness := validator.ValidatePartUniqueness(catalog.Parts)
	result.Errors = append(result.Errors, uniqueness.Errors...)

	if err := output.GenerateValidation(result, output.Config{Format: c.config.Format, Out: c.out}); err != nil {
		return err
	}

	if c.config.Strict && result.HasIssues() {
		return fmt.Errorf("BOM validation found %d issue(s)", len(result.Errors))
	}
	return nil
}
