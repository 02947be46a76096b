// Package commands implements the partstock subcommands.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/partstock/pkg/config"
	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/partstock/pkg/infrastructure/repositories/scenario"
	"github.com/vsinha/partstock/pkg/infrastructure/repositories/sqlite"
)

// loadCatalog reads a YAML scenario file or a directory of CSV files
func loadCatalog(input string) (*entities.Catalog, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", input, err)
	}

	if info.IsDir() {
		return csv.NewLoader().LoadDir(input)
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		return scenario.LoadFile(input)
	default:
		return nil, fmt.Errorf("unsupported input %s: expected a CSV directory or a .yaml scenario", input)
	}
}

// storeCatalog reads everything the database holds
func storeCatalog(ctx context.Context, store *sqlite.Store) (*entities.Catalog, error) {
	parts, err := store.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := store.ListComponents(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := store.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.Catalog{Parts: parts, Components: edges, PurchaseOrders: orders}, nil
}

// openStore opens the database named by the flag, falling back to config
func openStore(cfg *config.Config, database string) (*sqlite.Store, error) {
	if database == "" {
		database = cfg.DatabasePath
	}
	return sqlite.Open(database, cfg.Batch())
}

// catalogFrom loads from input when given, otherwise from the database
func catalogFrom(ctx context.Context, cfg *config.Config, input, database string) (*entities.Catalog, error) {
	if input != "" {
		return loadCatalog(input)
	}

	store, err := openStore(cfg, database)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return storeCatalog(ctx, store)
}
