package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/compute-sales/internal/types"
)

// ReadCatalogueCSV reads catalogue entries from CSV.
func ReadCatalogueCSV(r io.Reader, delimiter rune) ([]types.CatalogueEntry, error) {
	rows, err := readCSV(r, delimiter)
	if err != nil {
		return nil, err
	}
	return catalogueEntries(rows)
}

// ReadSalesCSV reads sale items from CSV and groups them into sales.
func ReadSalesCSV(r io.Reader, delimiter rune) ([]types.SaleRecord, error) {
	rows, err := readCSV(r, delimiter)
	if err != nil {
		return nil, err
	}
	return saleRecords(rows)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	configureReader(reader, delimiter)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: CSV file is empty", ErrInputShape)
	}

	return rows, nil
}

// configureReader applies the delimiter and the lenient parsing settings.
func configureReader(reader *csv.Reader, delimiter rune) {
	if delimiter == 0 {
		delimiter = ','
	}
	reader.Comma = delimiter

	// Rows may have fewer cells than the header.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
