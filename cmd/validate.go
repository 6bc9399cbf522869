// =============================================================================
// Sales Totals Calculator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the two input files
// and lists every diagnostic without writing any output.
//
// COMMAND USAGE:
//   salescalc validate <catalogue> <sales>
//
// OUTPUT:
//   Catalogue : 3 entries, 2 products
//   Sales     : 2 sales, 4 items (2 priced, 2 skipped)
//
//   Validation completed with 1 error(s) and 2 warning(s):
//
//   1. [catalogue] WARNING: Invalid price for 'Broken': "abc". Skipping.
//   ...
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/compute-sales/internal/pipeline"
)

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <catalogue> <sales>",
	Short: "Check the input files without writing a report",
	Long: `The validate command loads the catalogue and the sales exactly as compute
does and lists every entry and item that would be skipped. No files are
written.`,

	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate loads both inputs and prints the diagnostic listing.
func runValidate(cmd *cobra.Command, cataloguePath, salesPath string) error {
	p := pipeline.New(pipeline.Options{
		CataloguePath: cataloguePath,
		SalesPath:     salesPath,
		Config:        mainConfig,
		DryRun:        true,
	})

	entries, records, err := p.Load(cmd.Context())
	if err != nil {
		return err
	}
	outcome := pipeline.Evaluate(entries, records)
	summary := outcome.Summary

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalogue : %d entries, %d products\n", len(entries), outcome.Prices.Len())
	fmt.Fprintf(out, "Sales     : %d sales, %d items (%d priced, %d skipped)\n\n",
		len(records), summary.ItemsPriced+summary.ItemsSkipped, summary.ItemsPriced, summary.ItemsSkipped)
	fmt.Fprintln(out, strings.TrimRight(outcome.Diagnostics.Format(), "\n"))

	return nil
}
