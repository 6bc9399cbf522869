// =============================================================================
// Sales Totals Calculator - Pipeline
// =============================================================================
//
// This module runs one calculation from input files to written report.
//
// PIPELINE:
//   1. Load the catalogue and the sales records
//   2. Build the price map
//   3. Aggregate the sales
//   4. Format the report (execution time covers steps 1-3)
//   5. Log the diagnostics
//   6. Write the report, and optionally the workbook and diagnostic log
//
// ERROR HANDLING:
//   Only unreadable or malformed input files and failed writes stop a run.
//   Row-level problems become diagnostics and the run always completes.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/compute-sales/internal/config"
	"github.com/ginjaninja78/compute-sales/internal/logger"
	"github.com/ginjaninja78/compute-sales/internal/pricing"
	"github.com/ginjaninja78/compute-sales/internal/report"
	"github.com/ginjaninja78/compute-sales/internal/sales"
	"github.com/ginjaninja78/compute-sales/internal/source"
	"github.com/ginjaninja78/compute-sales/internal/types"
	"github.com/ginjaninja78/compute-sales/internal/validation"
	"github.com/ginjaninja78/compute-sales/pkg/utils"
)

// =============================================================================
// CORE COMPUTATION
// =============================================================================

// Outcome is the result of the in-memory computation.
type Outcome struct {
	Prices      *pricing.PriceMap
	Summary     sales.Summary
	Diagnostics validation.Diagnostics
}

// Evaluate builds the price map and aggregates the sales. Catalogue
// diagnostics come before sales diagnostics.
func Evaluate(entries []types.CatalogueEntry, records []types.SaleRecord) Outcome {
	prices, catalogueDiags := pricing.BuildPriceMap(entries)
	summary, salesDiags := sales.Compute(records, prices)

	diags := make(validation.Diagnostics, 0, len(catalogueDiags)+len(salesDiags))
	diags = append(diags, catalogueDiags...)
	diags = append(diags, salesDiags...)

	return Outcome{Prices: prices, Summary: summary, Diagnostics: diags}
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Stats contains counters about a run.
type Stats struct {
	CatalogueEntries int
	Products         int
	Sales            int
	ItemsPriced      int
	ItemsSkipped     int
	Warnings         int
	Errors           int

	// Elapsed covers loading and computation, not formatting or writing.
	Elapsed time.Duration
}

// Result represents the outcome of a run.
type Result struct {
	RunID string

	// Report is the formatted text report.
	Report string

	Results     []types.SaleResult
	GrandTotal  float64
	Diagnostics validation.Diagnostics
	Stats       Stats

	// ReportPath is empty on a dry run.
	ReportPath string

	// WorkbookPath and DiagnosticLogPath are empty when disabled.
	WorkbookPath      string
	DiagnosticLogPath string
}

// =============================================================================
// PIPELINE
// =============================================================================

// Options configures a Pipeline.
type Options struct {
	CataloguePath string
	SalesPath     string

	// Config supplies output and input settings. Nil means config.Default().
	Config *config.MainConfig

	// DryRun computes and formats but writes no files.
	DryRun bool
}

// Pipeline runs a single calculation. It logs through the logger stored in
// the context passed to Load and Run.
type Pipeline struct {
	opts  Options
	cfg   *config.MainConfig
	runID string
	now   func() time.Time
}

// New creates a Pipeline with a fresh run id.
func New(opts Options) *Pipeline {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	runID := uuid.New().String()

	return &Pipeline{
		opts:  opts,
		cfg:   cfg,
		runID: runID,
		now:   time.Now,
	}
}

// RunID returns the identifier of this run.
func (p *Pipeline) RunID() string {
	return p.runID
}

// runLogger returns the context logger tagged with the run id.
func (p *Pipeline) runLogger(ctx context.Context) zerolog.Logger {
	return logger.WithFields(logger.FromContext(ctx), map[string]interface{}{"run_id": p.runID})
}

// Load reads both input files.
func (p *Pipeline) Load(ctx context.Context) ([]types.CatalogueEntry, []types.SaleRecord, error) {
	log := p.runLogger(ctx)

	srcOpts, err := p.sourceOptions()
	if err != nil {
		return nil, nil, err
	}

	entries, err := source.LoadCatalogue(p.opts.CataloguePath, srcOpts)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Int("entries", len(entries)).Str("path", p.opts.CataloguePath).Msg("loaded catalogue")

	records, err := source.LoadSales(p.opts.SalesPath, srcOpts)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Int("sales", len(records)).Str("path", p.opts.SalesPath).Msg("loaded sales")

	return entries, records, nil
}

// Run executes the pipeline.
//
// RETURNS:
//   - The result, including the report text and the written paths.
//   - An error if an input cannot be loaded, the context is cancelled
//     between steps, or an output cannot be written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := p.runLogger(ctx)
	start := p.now()

	// =========================================================================
	// STEP 1: LOAD INPUTS
	// =========================================================================

	entries, records, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: COMPUTE
	// =========================================================================

	outcome := Evaluate(entries, records)
	elapsed := p.now().Sub(start)

	result := &Result{
		RunID:       p.runID,
		Results:     outcome.Summary.Results,
		GrandTotal:  outcome.Summary.GrandTotal,
		Diagnostics: outcome.Diagnostics,
		Stats: Stats{
			CatalogueEntries: len(entries),
			Products:         outcome.Prices.Len(),
			Sales:            len(records),
			ItemsPriced:      outcome.Summary.ItemsPriced,
			ItemsSkipped:     outcome.Summary.ItemsSkipped,
			Warnings:         outcome.Diagnostics.Count(validation.SeverityWarning),
			Errors:           outcome.Diagnostics.Count(validation.SeverityError),
			Elapsed:          elapsed,
		},
	}

	// =========================================================================
	// STEP 3: FORMAT AND REPORT DIAGNOSTICS
	// =========================================================================

	result.Report = report.Format(result.Results, result.GrandTotal, elapsed.Seconds())
	LogDiagnostics(log, outcome.Diagnostics)

	log.Info().
		Int("sales", result.Stats.Sales).
		Int("products", result.Stats.Products).
		Int("warnings", result.Stats.Warnings).
		Int("errors", result.Stats.Errors).
		Float64("grand_total", result.GrandTotal).
		Msg("computed sales totals")

	if p.opts.DryRun {
		log.Info().Msg("dry run, no files written")
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUTS
	// =========================================================================

	if err := p.writeOutputs(log, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) writeOutputs(log zerolog.Logger, result *Result) error {
	fm := utils.NewFileManager(p.cfg.OutputDir, p.runID)
	fm.Now = p.now()

	if err := fm.EnsureOutputDir(); err != nil {
		return err
	}

	path, err := fm.WriteFile(p.cfg.OutputFile, []byte(result.Report))
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	result.ReportPath = path
	log.Info().Str("path", path).Msg("wrote report")

	if p.cfg.WorkbookFile != "" {
		path := fm.Path(p.cfg.WorkbookFile)
		data := report.WorkbookData{
			RunID:       p.runID,
			Results:     result.Results,
			GrandTotal:  result.GrandTotal,
			Diagnostics: result.Diagnostics,
		}
		if err := report.WriteWorkbookWithOptions(path, data, report.WorkbookOptions{GeneratedAt: fm.Now}); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		result.WorkbookPath = path
		log.Info().Str("path", path).Msg("wrote workbook")
	}

	if p.cfg.DiagnosticsLog != "" {
		path, err := fm.WriteFile(p.cfg.DiagnosticsLog, result.Diagnostics.RenderLog(p.runID, fm.Now))
		if err != nil {
			return fmt.Errorf("failed to write diagnostic log: %w", err)
		}
		result.DiagnosticLogPath = path
		log.Info().Str("path", path).Msg("wrote diagnostic log")
	}

	return nil
}

func (p *Pipeline) sourceOptions() (source.Options, error) {
	delimiter, err := p.cfg.CSV.Rune()
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{Delimiter: delimiter, Sheet: p.cfg.XLSX.Sheet}, nil
}

// =============================================================================
// DIAGNOSTIC LOGGING
// =============================================================================

// LogDiagnostics writes each diagnostic to the logger at its own level.
func LogDiagnostics(log zerolog.Logger, diags validation.Diagnostics) {
	for _, d := range diags {
		event := log.Warn()
		if d.Severity == validation.SeverityError {
			event = log.Error()
		}

		event = event.Str("stage", string(d.Stage))
		if d.SaleID != "" {
			event = event.Str("sale_id", d.SaleID)
		}
		if d.Product != "" {
			event = event.Str("product", d.Product)
		}
		if d.Value != "" {
			event = event.Str("value", d.Value)
		}
		event.Msg(d.Message)
	}
}
