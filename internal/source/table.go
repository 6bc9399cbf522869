// =============================================================================
// Sales Totals Calculator - Tabular Sources
// =============================================================================
//
// CSV files and spreadsheets share one layout:
//
//   CATALOGUE:  title | price
//   SALES:      SALE_ID | Customer | Product | Quantity
//
// Header names are matched case-insensitively and columns may appear in any
// order; unknown columns are ignored. An empty cell counts as an absent field
// and a cell that does not parse as a number is kept as a non-numeric value,
// so the core reports it exactly as it would for JSON input.
//
// SALES GROUPING:
//   Each sales row is one item. Rows are grouped into sales by SALE_ID in
//   order of first appearance; the first non-empty Customer of a group wins.
//   A row with no Product and no Quantity adds a sale without items.
//
// =============================================================================

package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/compute-sales/internal/types"
)

// Column names of the tabular layouts.
const (
	ColumnTitle    = "title"
	ColumnPrice    = "price"
	ColumnSaleID   = "SALE_ID"
	ColumnCustomer = "Customer"
	ColumnProduct  = "Product"
	ColumnQuantity = "Quantity"
)

// table is a header row plus data rows, with the 1-based row number of each
// data row kept for diagnostics.
type table struct {
	columns map[string]int
	rows    [][]string
	rowNums []int
}

// newTable locates the header row and collects the data rows below it.
// Leading blank rows are skipped, as are blank data rows.
func newTable(allRows [][]string) (*table, error) {
	header := -1
	for i, row := range allRows {
		if !isRowEmpty(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("%w: no header row", ErrInputShape)
	}

	t := &table{columns: make(map[string]int)}
	for i, name := range allRows[header] {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}

	for i := header + 1; i < len(allRows); i++ {
		if isRowEmpty(allRows[i]) {
			continue
		}
		t.rows = append(t.rows, allRows[i])
		t.rowNums = append(t.rowNums, i+1)
	}

	return t, nil
}

// require fails when any of the named columns is missing from the header.
func (t *table) require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.columns[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing column(s) %s", ErrInputShape, strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the trimmed value of a named column in row i.
func (t *table) cell(i int, name string) string {
	col, ok := t.columns[strings.ToLower(name)]
	if !ok || col >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][col])
}

func (t *table) text(i int, name string) types.Text {
	v := t.cell(i, name)
	if v == "" {
		return types.Text{}
	}
	return types.NewText(v)
}

func (t *table) number(i int, name string) types.Number {
	v := t.cell(i, name)
	if v == "" {
		return types.Number{}
	}
	// ParseFloat accepts NaN and Inf spellings; only finite values count.
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return types.InvalidNumber(strconv.Quote(v))
	}
	n := types.NewNumber(f)
	n.Raw = v
	return n
}

// catalogueEntries converts a table to catalogue entries.
func catalogueEntries(allRows [][]string) ([]types.CatalogueEntry, error) {
	t, err := newTable(allRows)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColumnTitle, ColumnPrice); err != nil {
		return nil, err
	}

	entries := make([]types.CatalogueEntry, 0, len(t.rows))
	for i := range t.rows {
		entry := types.CatalogueEntry{
			Title: t.text(i, ColumnTitle),
			Price: t.number(i, ColumnPrice),
		}
		entry.Raw = fmt.Sprintf("%s (row %d)", entry.String(), t.rowNums[i])
		entries = append(entries, entry)
	}

	return entries, nil
}

// saleRecords converts a table of sale items to sale records.
func saleRecords(allRows [][]string) ([]types.SaleRecord, error) {
	t, err := newTable(allRows)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColumnSaleID, ColumnProduct, ColumnQuantity); err != nil {
		return nil, err
	}

	var records []types.SaleRecord
	index := make(map[string]int)

	for i := range t.rows {
		saleID := t.text(i, ColumnSaleID)
		key := saleID.Or(types.UnknownValue)

		pos, seen := index[key]
		if !seen {
			pos = len(records)
			index[key] = pos
			records = append(records, types.SaleRecord{SaleID: saleID, Items: []types.SaleItem{}})
		}

		record := &records[pos]
		if !record.Customer.Present {
			record.Customer = t.text(i, ColumnCustomer)
		}

		item := types.SaleItem{
			Product:  t.text(i, ColumnProduct),
			Quantity: t.number(i, ColumnQuantity),
		}
		if item.Product.Present || item.Quantity.Present {
			record.Items = append(record.Items, item)
		}
	}

	if records == nil {
		records = []types.SaleRecord{}
	}

	return records, nil
}

// isRowEmpty checks if all cells in a row are empty.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
