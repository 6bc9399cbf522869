// =============================================================================
// Sales Totals Calculator - Workbook Writer
// =============================================================================
//
// This module writes the sale results to an XLSX workbook next to the text
// report, for users who want to keep working with the numbers.
//
// WORKBOOK LAYOUT:
//   Sales        : Sale ID | Customer | Total, one row per sale, then a
//                  GRAND TOTAL row
//   Diagnostics  : Severity | Stage | Sale ID | Product | Message
//   Run          : run id, generation time, counts
//
// Totals are written as numbers with a currency format so the spreadsheet
// can still sum them; the text report's rounding is not applied.
//
// =============================================================================

package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/compute-sales/internal/types"
	"github.com/ginjaninja78/compute-sales/internal/validation"
)

// Sheet names used in the workbook.
const (
	SalesSheet       = "Sales"
	DiagnosticsSheet = "Diagnostics"
	RunSheet         = "Run"
)

// WorkbookOptions controls workbook generation.
type WorkbookOptions struct {
	// CurrencyFormat is the number format applied to totals.
	// Default: "$#,##0.00"
	CurrencyFormat string

	// GeneratedAt is stamped on the Run sheet. Zero means time.Now().
	GeneratedAt time.Time
}

// DefaultWorkbookOptions returns the default workbook options.
func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{CurrencyFormat: "$#,##0.00"}
}

// WorkbookData is everything the workbook shows.
type WorkbookData struct {
	RunID       string
	Results     []types.SaleResult
	GrandTotal  float64
	Diagnostics validation.Diagnostics
}

// WriteWorkbook writes the workbook to path with default options.
func WriteWorkbook(path string, data WorkbookData) error {
	return WriteWorkbookWithOptions(path, data, DefaultWorkbookOptions())
}

// WriteWorkbookWithOptions writes the workbook to path.
//
// PARAMETERS:
//   - path: The destination .xlsx file. It is overwritten.
//   - data: The results and diagnostics of a run.
//   - options: Formatting options.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteWorkbookWithOptions(path string, data WorkbookData, options WorkbookOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	if options.CurrencyFormat == "" {
		options.CurrencyFormat = DefaultWorkbookOptions().CurrencyFormat
	}
	if options.GeneratedAt.IsZero() {
		options.GeneratedAt = time.Now()
	}

	if err := f.SetSheetName("Sheet1", SalesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeSalesSheet(f, data, options); err != nil {
		return fmt.Errorf("failed to write %s sheet: %w", SalesSheet, err)
	}
	if err := writeDiagnosticsSheet(f, data.Diagnostics); err != nil {
		return fmt.Errorf("failed to write %s sheet: %w", DiagnosticsSheet, err)
	}
	if err := writeRunSheet(f, data, options); err != nil {
		return fmt.Errorf("failed to write %s sheet: %w", RunSheet, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// =============================================================================
// SHEETS
// =============================================================================

func writeSalesSheet(f *excelize.File, data WorkbookData, options WorkbookOptions) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	currency := options.CurrencyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &currency,
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(SalesSheet, "A1", &[]any{"Sale ID", "Customer", "Total"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SalesSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, result := range data.Results {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SalesSheet, cell, &[]any{result.SaleID, result.Customer, result.Total}); err != nil {
			return err
		}
		row++
	}

	if row > 2 {
		if err := f.SetCellStyle(SalesSheet, "C2", fmt.Sprintf("C%d", row-1), moneyStyle); err != nil {
			return err
		}
	}

	totalCell := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(SalesSheet, totalCell, &[]any{"GRAND TOTAL", "", data.GrandTotal}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SalesSheet, totalCell, fmt.Sprintf("C%d", row), totalStyle); err != nil {
		return err
	}

	return f.SetColWidth(SalesSheet, "A", "C", 20)
}

func writeDiagnosticsSheet(f *excelize.File, diags validation.Diagnostics) error {
	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(DiagnosticsSheet, "A1", &[]any{"Severity", "Stage", "Sale ID", "Product", "Message"}); err != nil {
		return err
	}

	for i, d := range diags {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{string(d.Severity), string(d.Stage), d.SaleID, d.Product, d.Message}
		if err := f.SetSheetRow(DiagnosticsSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetColWidth(DiagnosticsSheet, "E", "E", 80)
}

func writeRunSheet(f *excelize.File, data WorkbookData, options WorkbookOptions) error {
	if _, err := f.NewSheet(RunSheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Run ID", data.RunID},
		{"Generated", options.GeneratedAt.Format(time.RFC3339)},
		{"Sales", len(data.Results)},
		{"Errors", data.Diagnostics.Count(validation.SeverityError)},
		{"Warnings", data.Diagnostics.Count(validation.SeverityWarning)},
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RunSheet, cell, &values); err != nil {
			return err
		}
	}

	return nil
}
