package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/compute-sales/internal/config"
	"github.com/ginjaninja78/compute-sales/internal/logger"
	"github.com/ginjaninja78/compute-sales/internal/source"
	"github.com/ginjaninja78/compute-sales/internal/types"
	"github.com/ginjaninja78/compute-sales/internal/validation"
)

var fixedNow = time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

const catalogueJSON = `[
  {"title": "Widget", "price": 10.5},
  {"title": "Gadget", "price": 4},
  {"title": "Broken", "price": "abc"}
]`

const salesJSON = `[
  {"SALE_ID": "S1", "Customer": "Ann", "Items": [
    {"Product": "Widget", "Quantity": 2},
    {"Product": "Gizmo", "Quantity": 1}
  ]},
  {"SALE_ID": "S2", "Customer": "Bob", "Items": [
    {"Product": "Gadget", "Quantity": -1},
    {"Product": "Gadget", "Quantity": 3}
  ]}
]`

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cat := filepath.Join(dir, "catalogue.json")
	sales := filepath.Join(dir, "sales.json")
	if err := os.WriteFile(cat, []byte(catalogueJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sales, []byte(salesJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return cat, sales
}

// quiet returns a context whose logger discards everything.
func quiet() context.Context {
	return logger.WithContext(context.Background(), zerolog.Nop())
}

func TestEvaluate(t *testing.T) {
	var entries []types.CatalogueEntry
	var records []types.SaleRecord
	if err := json.Unmarshal([]byte(catalogueJSON), &entries); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(salesJSON), &records); err != nil {
		t.Fatal(err)
	}

	outcome := Evaluate(entries, records)

	wantResults := []types.SaleResult{
		{SaleID: "S1", Customer: "Ann", Total: 21},
		{SaleID: "S2", Customer: "Bob", Total: 12},
	}
	if diff := cmp.Diff(wantResults, outcome.Summary.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if outcome.Summary.GrandTotal != 33 {
		t.Errorf("GrandTotal = %v, want 33", outcome.Summary.GrandTotal)
	}

	wantMessages := []string{
		"Invalid price for 'Broken': \"abc\". Skipping.",
		"Product 'Gizmo' not found in catalogue (Sale: S1). Skipping.",
		"Invalid quantity for 'Gadget' (Sale: S2): -1. Skipping.",
	}
	if diff := cmp.Diff(wantMessages, outcome.Diagnostics.Messages()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if got := outcome.Diagnostics[0].Stage; got != validation.StageCatalogue {
		t.Errorf("first diagnostic stage = %q, want catalogue", got)
	}
}

func TestRun_WritesOutputs(t *testing.T) {
	cat, sales := writeInputs(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cfg := config.Default()
	cfg.OutputDir = outDir
	cfg.OutputFile = "report_{run_id}.txt"
	cfg.WorkbookFile = "results.xlsx"
	cfg.DiagnosticsLog = "diagnostics.log"

	p := New(Options{CataloguePath: cat, SalesPath: sales, Config: cfg})
	p.now = func() time.Time { return fixedNow }
	result, err := p.Run(quiet())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.RunID != p.RunID() || result.RunID == "" {
		t.Errorf("RunID = %q, pipeline RunID = %q", result.RunID, p.RunID())
	}
	if want := filepath.Join(outDir, "report_"+p.RunID()+".txt"); result.ReportPath != want {
		t.Errorf("ReportPath = %q, want %q", result.ReportPath, want)
	}

	data, err := os.ReadFile(result.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(data) != result.Report {
		t.Error("written report differs from Result.Report")
	}
	if !strings.Contains(result.Report, "GRAND TOTAL: $33.00") {
		t.Errorf("report missing grand total:\n%s", result.Report)
	}

	if _, err := os.Stat(result.WorkbookPath); err != nil {
		t.Errorf("expected workbook %q: %v", result.WorkbookPath, err)
	}

	diagLog, err := os.ReadFile(result.DiagnosticLogPath)
	if err != nil {
		t.Fatalf("read diagnostic log: %v", err)
	}
	for _, want := range []string{"Run:       " + p.RunID(), "Generated: 2024-01-15 14:30:22", "Errors:    1"} {
		if !strings.Contains(string(diagLog), want) {
			t.Errorf("diagnostic log missing %q:\n%s", want, diagLog)
		}
	}
	leftovers, _ := filepath.Glob(filepath.Join(outDir, ".*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}

	wantStats := Stats{
		CatalogueEntries: 3,
		Products:         2,
		Sales:            2,
		ItemsPriced:      2,
		ItemsSkipped:     2,
		Warnings:         2,
		Errors:           1,
	}
	got := result.Stats
	got.Elapsed = 0
	if diff := cmp.Diff(wantStats, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_DryRun(t *testing.T) {
	cat, sales := writeInputs(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cfg := config.Default()
	cfg.OutputDir = outDir

	result, err := New(Options{
		CataloguePath: cat,
		SalesPath:     sales,
		Config:        cfg,
		DryRun:        true,
	}).Run(quiet())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.ReportPath != "" {
		t.Errorf("ReportPath = %q on dry run", result.ReportPath)
	}
	if result.Report == "" {
		t.Error("dry run produced no report text")
	}
	if _, err := os.Stat(outDir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("output dir created on dry run: %v", err)
	}
}

func TestRun_LoadErrors(t *testing.T) {
	cat, sales := writeInputs(t)
	dir := t.TempDir()

	notArray := filepath.Join(dir, "object.json")
	if err := os.WriteFile(notArray, []byte(`{"title": "x"}`), 0644); err != nil {
		t.Fatal(err)
	}
	unsupported := filepath.Join(dir, "sales.txt")
	if err := os.WriteFile(unsupported, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		catalogue string
		sales     string
		want      error
	}{
		{"missing catalogue", filepath.Join(dir, "nope.json"), sales, fs.ErrNotExist},
		{"missing sales", cat, filepath.Join(dir, "nope.json"), fs.ErrNotExist},
		{"wrong shape", notArray, sales, source.ErrInputShape},
		{"unsupported", cat, unsupported, source.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{
				CataloguePath: tt.catalogue,
				SalesPath:     tt.sales,
				DryRun:        true,
			}).Run(quiet())
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	cat, sales := writeInputs(t)
	ctx, cancel := context.WithCancel(quiet())
	cancel()

	_, err := New(Options{CataloguePath: cat, SalesPath: sales}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_LogsThroughContextLogger(t *testing.T) {
	cat, sales := writeInputs(t)
	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), zerolog.New(&buf))

	p := New(Options{CataloguePath: cat, SalesPath: sales, DryRun: true})
	if _, err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 3 {
		t.Fatalf("got %d log lines, want diagnostics and a summary:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		if entry["run_id"] != p.RunID() {
			t.Errorf("log line without run id %q: %s", p.RunID(), line)
		}
	}
}

func TestLogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	var diags validation.Diagnostics
	diags.Warn(validation.Diagnostic{Stage: validation.StageCatalogue, Message: "bad price"})
	diags.Error(validation.Diagnostic{Stage: validation.StageSales, SaleID: "S9", Product: "Gizmo", Message: "not found"})

	LogDiagnostics(log, diags)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2:\n%s", len(lines), buf.String())
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	want := map[string]any{
		"level":   "error",
		"stage":   "sales",
		"sale_id": "S9",
		"product": "Gizmo",
		"message": "not found",
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Errorf("log line mismatch (-want +got):\n%s", diff)
	}
}
