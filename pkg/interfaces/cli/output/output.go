// Package output renders parts views, receiving results and BOM validation
// reports for the command line.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vsinha/partstock/pkg/application/dto"
	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/domain/services"
)

// Config holds configuration for output generation
type Config struct {
	Format string
	// Out receives the rendering when OutputFile is empty
	Out         io.Writer
	OutputFile  string
	Verbose     bool
	ElapsedTime time.Duration
}

var partHeaders = []string{
	"id", "description", "is_assembly", "markup_percent", "assembly_labor_cost",
	"derived_unit_cost", "derived_sales_price", "derived_available_quantity", "on_order_quantity",
}

// Generate renders a parts view in the configured format
func Generate(result *dto.PartsViewResult, config Config) error {
	return withWriter(config, func(w io.Writer) error {
		switch config.Format {
		case "", "text":
			return writePartsText(w, result, config)
		case "json":
			return writeJSON(w, result)
		case "csv":
			return writeCSV(w, partHeaders, partRows(result))
		case "xlsx":
			return WritePartsXLSX(w, result)
		default:
			return fmt.Errorf("unsupported output format: %s", config.Format)
		}
	})
}

// GenerateReceiving renders the results and event journal of a receive run
func GenerateReceiving(report *dto.ReceivingReport, config Config) error {
	return withWriter(config, func(w io.Writer) error {
		switch config.Format {
		case "", "text":
			return writeReceivingText(w, report)
		case "json":
			return writeJSON(w, report)
		default:
			return fmt.Errorf("unsupported output format for receiving: %s", config.Format)
		}
	})
}

// GenerateValidation renders a BOM validation report
func GenerateValidation(result *services.ValidationResult, config Config) error {
	return withWriter(config, func(w io.Writer) error {
		switch config.Format {
		case "", "text":
			return writeValidationText(w, result)
		case "json":
			return writeJSON(w, result)
		default:
			return fmt.Errorf("unsupported output format for validation: %s", config.Format)
		}
	})
}

func withWriter(config Config, render func(io.Writer) error) error {
	if config.OutputFile == "" {
		out := config.Out
		if out == nil {
			out = os.Stdout
		}
		return render(out)
	}

	if dir := filepath.Dir(config.OutputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if config.Verbose && config.Out != nil {
		fmt.Fprintf(config.Out, "💾 Results saved to: %s\n", config.OutputFile)
	}
	return nil
}

func writePartsText(w io.Writer, result *dto.PartsViewResult, config Config) error {
	fmt.Fprintf(w, "📊 Parts View\n")
	fmt.Fprintf(w, "=============\n\n")

	fmt.Fprintf(w, "Parts: %d\n", len(result.Parts))
	fmt.Fprintf(w, "Warnings: %d\n", len(result.Warnings))
	if config.Verbose {
		fmt.Fprintf(w, "Resolve Time: %v\n", config.ElapsedTime)
	}
	fmt.Fprintln(w)

	if len(result.Parts) > 0 {
		fmt.Fprintf(w, "%-15s %-25s %-5s %12s %12s %10s %10s\n",
			"Part", "Description", "Asm", "Unit Cost", "Sales Price", "Available", "On Order")
		fmt.Fprintf(w, "%-15s %-25s %-5s %12s %12s %10s %10s\n",
			"---------------", "-------------------------", "-----", "------------", "------------", "----------", "----------")

		for _, part := range result.Parts {
			asm := ""
			if part.IsAssembly {
				asm = "yes"
			}
			fmt.Fprintf(w, "%-15s %-25s %-5s %12s %12s %10d %10d\n",
				part.ID,
				truncate(part.Description, 25),
				asm,
				part.DerivedUnitCost.StringFixed(2),
				part.DerivedSalesPrice.StringFixed(2),
				part.DerivedAvailableQuantity,
				part.OnOrderQuantity)
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "⚠️  Warnings:\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning.Message())
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writeReceivingText(w io.Writer, report *dto.ReceivingReport) error {
	fmt.Fprintf(w, "📦 Receiving Results\n")
	fmt.Fprintf(w, "====================\n\n")

	for _, result := range report.Results {
		status := "no change"
		if result.Completed {
			status = "completed"
		} else if result.Changed() {
			status = "updated"
		}
		fmt.Fprintf(w, "Purchase Order %s: %s (%s) total %s\n",
			result.Order.ID, status, result.Order.Status, result.OrderTotal.StringFixed(2))

		for _, item := range result.UpdatedItems {
			fmt.Fprintf(w, "  item %-12s part %-12s received %d/%d\n",
				item.ID, item.PartID, item.QuantityReceived, item.QuantityOrdered)
		}

		partIDs := make([]string, 0, len(result.PartStockDeltas))
		for id := range result.PartStockDeltas {
			partIDs = append(partIDs, string(id))
		}
		sort.Strings(partIDs)
		for _, id := range partIDs {
			fmt.Fprintf(w, "  stock %-12s +%d\n", id, result.PartStockDeltas[entities.PartID(id)])
		}
	}
	fmt.Fprintln(w)

	if len(report.Journal) > 0 {
		fmt.Fprintf(w, "🧾 Journal:\n")
		for _, entry := range report.Journal {
			if entry.PartID != "" {
				fmt.Fprintf(w, "  #%-4d %-26s %-12s +%d from %s\n",
					entry.Position, entry.Kind, entry.PartID, entry.Quantity, entry.PurchaseOrderID)
				continue
			}
			fmt.Fprintf(w, "  #%-4d %-26s %s %s\n",
				entry.Position, entry.Kind, entry.PurchaseOrderID, entry.Supplier)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeValidationText(w io.Writer, result *services.ValidationResult) error {
	fmt.Fprintf(w, "🔍 BOM Validation\n")
	fmt.Fprintf(w, "=================\n\n")

	if !result.HasIssues() {
		fmt.Fprintf(w, "✅ No issues found\n")
		return nil
	}

	for _, msg := range result.Errors {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
	fmt.Fprintln(w)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func partRows(result *dto.PartsViewResult) [][]string {
	rows := make([][]string, 0, len(result.Parts))
	for _, part := range result.Parts {
		rows = append(rows, []string{
			string(part.ID),
			part.Description,
			strconv.FormatBool(part.IsAssembly),
			part.MarkupPercent.String(),
			part.AssemblyLaborCost.String(),
			part.DerivedUnitCost.String(),
			part.DerivedSalesPrice.String(),
			strconv.FormatInt(int64(part.DerivedAvailableQuantity), 10),
			strconv.FormatInt(int64(part.OnOrderQuantity), 10),
		})
	}
	return rows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
