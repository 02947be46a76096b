package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/vsinha/partstock/pkg/config"
	"github.com/vsinha/partstock/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-help" || args[0] == "--help" || args[0] == "help" {
		showHelp(stdout)
		return nil
	}

	name, rest := args[0], args[1:]
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to a YAML config file (optional)")
	database := fs.String("db", "", "SQLite database path (default from config)")

	var build func(app *config.Config) command
	switch name {
	case "valuate":
		input := fs.String("input", "", "CSV directory or YAML scenario (default: read the database)")
		format := fs.String("format", "text", "Output format: text, json, csv, xlsx")
		out := fs.String("output", "", "Write output to this file instead of stdout")
		verbose := fs.Bool("verbose", false, "Enable verbose output")
		build = func(app *config.Config) command {
			return commands.NewValuateCommand(app, commands.ValuateConfig{
				Input: *input, Database: *database, Format: *format, OutputFile: *out, Verbose: *verbose,
			}, stdout)
		}
	case "receive":
		receipts := fs.String("receipts", "", "Receipts CSV (po_id,item_id,quantity_received)")
		format := fs.String("format", "text", "Output format: text, json")
		out := fs.String("output", "", "Write output to this file instead of stdout")
		build = func(app *config.Config) command {
			return commands.NewReceiveCommand(app, commands.ReceiveConfig{
				ReceiptsFile: *receipts, Database: *database, Format: *format, OutputFile: *out,
			}, stdout)
		}
	case "import":
		input := fs.String("input", "", "CSV directory or YAML scenario to import")
		build = func(app *config.Config) command {
			return commands.NewImportCommand(app, commands.ImportConfig{Input: *input, Database: *database}, stdout)
		}
	case "validate":
		input := fs.String("input", "", "CSV directory or YAML scenario (default: read the database)")
		format := fs.String("format", "text", "Output format: text, json")
		strict := fs.Bool("strict", false, "Exit with an error when issues are found")
		build = func(app *config.Config) command {
			return commands.NewValidateCommand(app, commands.ValidateConfig{
				Input: *input, Database: *database, Format: *format, Strict: *strict,
			}, stdout)
		}
	default:
		showHelp(stderr)
		return fmt.Errorf("unknown command %q", name)
	}

	if err := fs.Parse(rest); err != nil {
		return err
	}

	app, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	app.SetupLogging(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return build(app).Execute(ctx)
}

func showHelp(w io.Writer) {
	fmt.Fprint(w, `partstock - inventory valuation and receiving

USAGE:
    partstock <command> [options]

COMMANDS:
    valuate     Resolve cost, sales price, availability and on-order quantity per part
    receive     Apply a receipts CSV to purchase orders in the database
    import      Load a CSV directory or YAML scenario into the database
    validate    Report cycles, dangling references and duplicate component edges

COMMON OPTIONS:
    -config <file>      YAML config file (default: ./partstock.yaml if present)
    -db <path>          SQLite database (default: partstock.db)

CSV DIRECTORY STRUCTURE:
    catalog/
    ├── parts.csv            # id,description,is_assembly,unit_cost,stock_quantity,markup_percent,assembly_labor_cost
    ├── components.csv       # assembly_id,component_id,quantity_required
    └── purchase_orders.csv  # po_id,supplier,status,currency,exchange_rate,item_id,part_id,quantity_ordered,quantity_received,unit_price

ENVIRONMENT:
    PARTSTOCK_DATABASE_PATH, PARTSTOCK_LOG_LEVEL, PARTSTOCK_LOG_FORMAT, PARTSTOCK_PRICE_PLACES,
    PARTSTOCK_BATCH_SIZE, PARTSTOCK_BATCH_DELAY, PARTSTOCK_RECEIVING_MAX_ATTEMPTS
`)
}
