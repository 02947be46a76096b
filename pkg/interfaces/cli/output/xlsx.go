package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/partstock/pkg/application/dto"
)

const (
	partsSheet    = "Parts"
	warningsSheet = "Warnings"
)

// WritePartsXLSX writes the parts view as a workbook with a Parts sheet and,
// when there are any, a Warnings sheet
func WritePartsXLSX(w io.Writer, result *dto.PartsViewResult) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	index, err := f.NewSheet(partsSheet)
	if err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", partsSheet, err)
	}
	f.SetActiveSheet(index)

	if err := writeSheet(f, partsSheet, headerStyle, partHeaders, partCells(result)); err != nil {
		return err
	}

	if len(result.Warnings) > 0 {
		if _, err := f.NewSheet(warningsSheet); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", warningsSheet, err)
		}
		rows := make([][]any, 0, len(result.Warnings))
		for _, warning := range result.Warnings {
			path := make([]string, len(warning.Path))
			for i, id := range warning.Path {
				path[i] = string(id)
			}
			rows = append(rows, []any{
				warning.Kind.String(),
				string(warning.AssemblyID),
				string(warning.ComponentID),
				strings.Join(path, " -> "),
				warning.Message(),
			})
		}
		headers := []string{"kind", "assembly_id", "component_id", "path", "message"}
		if err := writeSheet(f, warningsSheet, headerStyle, headers, rows); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]any) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}

	for rowIdx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, rowIdx+2, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 15)
}

// partCells keeps numbers numeric so spreadsheets can sum them
func partCells(result *dto.PartsViewResult) [][]any {
	rows := make([][]any, 0, len(result.Parts))
	for _, part := range result.Parts {
		cost, _ := part.DerivedUnitCost.Float64()
		price, _ := part.DerivedSalesPrice.Float64()
		markup, _ := part.MarkupPercent.Float64()
		labor, _ := part.AssemblyLaborCost.Float64()
		rows = append(rows, []any{
			string(part.ID),
			part.Description,
			part.IsAssembly,
			markup,
			labor,
			cost,
			price,
			int64(part.DerivedAvailableQuantity),
			int64(part.OnOrderQuantity),
		})
	}
	return rows
}
