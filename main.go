// =============================================================================
// Sales Totals Calculator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the salescalc CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   salescalc compute <catalogue> <sales>   - Compute totals and write the report
//   salescalc validate <catalogue> <sales>  - List skipped entries and items
//   salescalc version                       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loading, pricing, aggregation and reporting
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/compute-sales/cmd"
)

func main() {
	cmd.Execute()
}
