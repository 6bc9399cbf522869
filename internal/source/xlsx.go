package source

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/compute-sales/internal/types"
)

// ReadCatalogueXLSX reads catalogue entries from a spreadsheet.
//
// PARAMETERS:
//   - path: The .xlsx file.
//   - sheet: The sheet to read; empty selects the first sheet.
func ReadCatalogueXLSX(path, sheet string) ([]types.CatalogueEntry, error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	return catalogueEntries(rows)
}

// ReadSalesXLSX reads sale items from a spreadsheet and groups them into
// sales.
func ReadSalesXLSX(path, sheet string) ([]types.SaleRecord, error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	return saleRecords(rows)
}

func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrInputShape)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return rows, nil
}
