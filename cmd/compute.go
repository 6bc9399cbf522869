// =============================================================================
// Sales Totals Calculator - Compute Command
// =============================================================================
//
// This file defines the 'compute' command, which is the main command of the
// calculator. It runs the whole pipeline for one catalogue and one sales file.
//
// COMMAND USAGE:
//   salescalc compute <catalogue> <sales> [flags]
//
// FLAGS:
//   --output, -o       : Report file name (placeholders allowed)
//   --workbook         : Also write an XLSX workbook with this name
//   --diagnostics-log  : Also write the diagnostics to this file
//   --dry-run          : Print the report without writing any file
//   --strict           : Fail when an error-level diagnostic was recorded
//
// INPUT FORMATS:
//   The format of each input is taken from its extension: .json, .csv,
//   .xlsx. The two inputs may use different formats.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/compute-sales/internal/config"
	"github.com/ginjaninja78/compute-sales/internal/pipeline"
	"github.com/ginjaninja78/compute-sales/internal/validation"
)

// errStrict is returned by a strict run that recorded error-level diagnostics.
var errStrict = errors.New("error-level diagnostics recorded")

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// outputFile overrides the configured report file name.
var outputFile string

// workbookFile overrides the configured workbook file name.
var workbookFile string

// diagnosticsLog overrides the configured diagnostic log file name.
var diagnosticsLog string

// dryRun prints the report without writing output files.
var dryRun bool

// strict fails the command when any error-level diagnostic was recorded.
var strict bool

// =============================================================================
// COMPUTE COMMAND DEFINITION
// =============================================================================

// computeCmd represents the 'compute' command.
var computeCmd = &cobra.Command{
	Use:   "compute <catalogue> <sales>",
	Short: "Compute sale totals and write the report",
	Long: `The compute command loads the product catalogue and the sales, prices
every sale item, and prints the sales results report.

The report is written to the output file (SalesResults.txt by default).
Catalogue entries and sale items that cannot be priced are skipped and
logged; they never stop the calculation.

The command fails only when an input file cannot be read or does not have
the expected shape, when an output file cannot be written, or with --strict
when an item referenced an unknown product.`,

	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompute(cmd, args[0], args[1])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(computeCmd)

	computeCmd.Flags().StringVarP(
		&outputFile,
		"output",
		"o",
		"",
		"Report file name, supports {run_id}, {timestamp}, {date}, {time} (default SalesResults.txt)",
	)

	computeCmd.Flags().StringVar(
		&workbookFile,
		"workbook",
		"",
		"Also write the results to this XLSX workbook",
	)

	computeCmd.Flags().StringVar(
		&diagnosticsLog,
		"diagnostics-log",
		"",
		"Also write the diagnostics to this file",
	)

	computeCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Print the report without writing any file",
	)

	computeCmd.Flags().BoolVar(
		&strict,
		"strict",
		false,
		"Exit with an error when a sale item referenced an unknown product",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runCompute runs the pipeline and prints the report.
func runCompute(cmd *cobra.Command, cataloguePath, salesPath string) error {
	cfg := applyComputeFlags(mainConfig)

	p := pipeline.New(pipeline.Options{
		CataloguePath: cataloguePath,
		SalesPath:     salesPath,
		Config:        cfg,
		DryRun:        dryRun,
	})

	result, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Report)

	if result.ReportPath != "" {
		fmt.Fprintf(out, "\nResults saved to %s\n", result.ReportPath)
	}
	if result.WorkbookPath != "" {
		fmt.Fprintf(out, "Workbook saved to %s\n", result.WorkbookPath)
	}
	if result.DiagnosticLogPath != "" {
		fmt.Fprintf(out, "Diagnostics saved to %s\n", result.DiagnosticLogPath)
	}

	if cfg.Strict && result.Diagnostics.HasErrors() {
		return fmt.Errorf("%w: %d", errStrict, result.Diagnostics.Count(validation.SeverityError))
	}

	return nil
}

// applyComputeFlags returns a copy of the configuration with the compute
// flags applied.
func applyComputeFlags(base *config.MainConfig) *config.MainConfig {
	cfg := config.Default()
	if base != nil {
		copied := *base
		cfg = &copied
	}

	if outputFile != "" {
		cfg.OutputFile = outputFile
	}
	if workbookFile != "" {
		cfg.WorkbookFile = workbookFile
	}
	if diagnosticsLog != "" {
		cfg.DiagnosticsLog = diagnosticsLog
	}
	if strict {
		cfg.Strict = true
	}

	return cfg
}
