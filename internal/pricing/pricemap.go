// =============================================================================
// Sales Totals Calculator - Price Map Builder
// =============================================================================
//
// This module validates the product catalogue and indexes it by title.
//
// VALIDATION RULES:
//   - An entry without a title or without a price is skipped with a warning
//     that names the entry as received.
//   - An entry whose price is not a number, or is negative, is skipped with a
//     warning that names the title and the bad value.
//   - Every other entry is indexed. When a title appears more than once the
//     last entry wins.
//
// No entry is ever fatal: malformed entries are reported and dropped.
//
// =============================================================================

package pricing

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/compute-sales/internal/types"
	"github.com/ginjaninja78/compute-sales/internal/validation"
)

// PriceMap maps product titles to validated, non-negative unit prices.
// It is read-only once built.
type PriceMap struct {
	prices map[string]float64
}

// Price returns the unit price of a product.
func (m *PriceMap) Price(title string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	price, ok := m.prices[title]
	return price, ok
}

// Len returns the number of products in the map.
func (m *PriceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.prices)
}

// Titles returns the product titles in sorted order.
func (m *PriceMap) Titles() []string {
	if m == nil {
		return nil
	}
	titles := make([]string, 0, len(m.prices))
	for title := range m.prices {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Prices returns a copy of the underlying mapping.
func (m *PriceMap) Prices() map[string]float64 {
	out := make(map[string]float64, m.Len())
	if m == nil {
		return out
	}
	for title, price := range m.prices {
		out[title] = price
	}
	return out
}

// BuildPriceMap validates catalogue entries and indexes the valid ones.
//
// PARAMETERS:
//   - entries: The catalogue entries in source order.
//
// RETURNS:
//   - The price map. Never nil.
//   - The warnings for every skipped entry, in source order.
func BuildPriceMap(entries []types.CatalogueEntry) (*PriceMap, validation.Diagnostics) {
	m := &PriceMap{prices: make(map[string]float64, len(entries))}
	var diags validation.Diagnostics

	for _, entry := range entries {
		// A title that is not a string cannot be a map key.
		if !entry.Title.Present || !entry.Title.Valid || !entry.Price.Present {
			diags.Warn(validation.Diagnostic{
				Stage:   validation.StageCatalogue,
				Product: entry.Title.Value,
				Value:   entry.String(),
				Message: fmt.Sprintf("Skipping invalid catalogue entry: %s", entry.String()),
			})
			continue
		}

		title := entry.Title.Value
		if !entry.Price.Valid || entry.Price.Value < 0 {
			diags.Warn(validation.Diagnostic{
				Stage:   validation.StageCatalogue,
				Product: title,
				Value:   entry.Price.String(),
				Message: fmt.Sprintf("Invalid price for '%s': %s. Skipping.", title, entry.Price.String()),
			})
			continue
		}

		m.prices[title] = entry.Price.Value
	}

	return m, diags
}
