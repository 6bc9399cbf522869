// =============================================================================
// Sales Totals Calculator - Sales Aggregator
// =============================================================================
//
// This module prices every sale against the price map and accumulates the
// per-sale and grand totals.
//
// AGGREGATION RULES (per item, in order):
//   1. A product that is not in the price map is skipped with an error-level
//      diagnostic. Processing continues.
//   2. A quantity that is not a number, or is zero or negative, is skipped
//      with a warning. An absent quantity counts as 0.
//   3. Otherwise price * quantity is added to the sale total.
//
// Every sale yields exactly one result, in input order, even when all of its
// items were skipped. Totals are float64 and are never rounded here.
//
// =============================================================================

package sales

import (
	"fmt"

	"github.com/ginjaninja78/compute-sales/internal/pricing"
	"github.com/ginjaninja78/compute-sales/internal/types"
	"github.com/ginjaninja78/compute-sales/internal/validation"
)

// Summary is the outcome of aggregating a list of sales.
type Summary struct {
	// Results holds one entry per input sale, in input order.
	Results []types.SaleResult

	// GrandTotal is the sum of all result totals.
	GrandTotal float64

	// ItemsPriced and ItemsSkipped count the line items that did and did not
	// contribute to a total.
	ItemsPriced  int
	ItemsSkipped int
}

// Compute prices every sale against the price map.
//
// PARAMETERS:
//   - records: The sales in input order.
//   - prices: The validated price map.
//
// RETURNS:
//   - The summary with per-sale results and the grand total.
//   - The diagnostics for every skipped item, in visiting order.
func Compute(records []types.SaleRecord, prices *pricing.PriceMap) (Summary, validation.Diagnostics) {
	summary := Summary{Results: make([]types.SaleResult, 0, len(records))}
	var diags validation.Diagnostics

	for _, record := range records {
		saleID := record.ID()
		saleTotal := 0.0

		for _, item := range record.Items {
			product := item.Product.Value

			price, ok := prices.Price(product)
			if !ok || !item.Product.Valid {
				diags.Error(validation.Diagnostic{
					Stage:   validation.StageSales,
					SaleID:  saleID,
					Product: product,
					Message: fmt.Sprintf("Product '%s' not found in catalogue (Sale: %s). Skipping.", product, saleID),
				})
				summary.ItemsSkipped++
				continue
			}

			qty := item.Qty()
			if !qty.Valid || qty.Value <= 0 {
				diags.Warn(validation.Diagnostic{
					Stage:   validation.StageSales,
					SaleID:  saleID,
					Product: product,
					Value:   qty.String(),
					Message: fmt.Sprintf("Invalid quantity for '%s' (Sale: %s): %s. Skipping.", product, saleID, qty.String()),
				})
				summary.ItemsSkipped++
				continue
			}

			saleTotal += price * qty.Value
			summary.ItemsPriced++
		}

		summary.Results = append(summary.Results, types.SaleResult{
			SaleID:   saleID,
			Customer: record.CustomerName(),
			Total:    saleTotal,
		})
		summary.GrandTotal += saleTotal
	}

	return summary, diags
}
