package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/compute-sales/internal/types"
	"github.com/ginjaninja78/compute-sales/internal/validation"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	var diags validation.Diagnostics
	diags.Error(validation.Diagnostic{
		Stage:   validation.StageSales,
		SaleID:  "S2",
		Product: "Kiwi",
		Message: "Product 'Kiwi' not found in catalogue (Sale: S2). Skipping.",
	})

	data := WorkbookData{
		RunID: "run-42",
		Results: []types.SaleResult{
			{SaleID: "S1", Customer: "Bob", Total: 7.5},
			{SaleID: "S2", Customer: "Ann", Total: 0},
		},
		GrandTotal:  7.5,
		Diagnostics: diags,
	}
	options := WorkbookOptions{GeneratedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)}

	if err := WriteWorkbookWithOptions(path, data, options); err != nil {
		t.Fatalf("WriteWorkbookWithOptions() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sales, err := f.GetRows(SalesSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", SalesSheet, err)
	}
	if len(sales) != 4 {
		t.Fatalf("%s has %d rows, want 4", SalesSheet, len(sales))
	}
	if sales[1][0] != "S1" || sales[1][1] != "Bob" {
		t.Errorf("first sale row = %v", sales[1])
	}
	if sales[3][0] != "GRAND TOTAL" {
		t.Errorf("last row = %v, want GRAND TOTAL", sales[3])
	}

	raw, err := f.GetCellValue(SalesSheet, "C2", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(C2): %v", err)
	}
	if raw != "7.5" {
		t.Errorf("C2 raw value = %q, want 7.5", raw)
	}

	diagRows, err := f.GetRows(DiagnosticsSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", DiagnosticsSheet, err)
	}
	if len(diagRows) != 2 || diagRows[1][0] != "error" || diagRows[1][3] != "Kiwi" {
		t.Errorf("%s rows = %v", DiagnosticsSheet, diagRows)
	}

	runID, err := f.GetCellValue(RunSheet, "B1")
	if err != nil {
		t.Fatalf("GetCellValue(Run!B1): %v", err)
	}
	if runID != "run-42" {
		t.Errorf("run id = %q, want run-42", runID)
	}
	generated, _ := f.GetCellValue(RunSheet, "B2")
	if generated != "2024-01-15T14:30:00Z" {
		t.Errorf("generated = %q", generated)
	}
}

func TestWriteWorkbook_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "results.xlsx")
	if err := WriteWorkbook(path, WorkbookData{}); err == nil {
		t.Error("WriteWorkbook() into a missing directory returned nil error")
	}
}
