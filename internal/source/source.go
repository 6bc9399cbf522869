// =============================================================================
// Sales Totals Calculator - Input Sources
// =============================================================================
//
// This package reads the price catalogue and the sales records from disk and
// hands them to the core as already-deserialized values.
//
// SUPPORTED FORMATS (chosen by file extension):
//   .json : an array of objects, the native format
//   .csv  : one header row, then one row per catalogue entry or sale item
//   .xlsx : the first sheet laid out like the CSV format
//
// ERROR HANDLING:
//   Only top-level problems are errors here: an unreadable file, malformed
//   syntax, or a document that is not a list of records. Problems inside a
//   record are left for the core to report as diagnostics.
//
// =============================================================================

package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/compute-sales/internal/types"
)

var (
	// ErrUnsupportedFormat is returned for a file extension with no reader.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrMalformedInput is returned when a file cannot be parsed at all.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInputShape is returned when a file parses but is not a list of
	// records of the expected kind.
	ErrInputShape = errors.New("input is not a list of records")
)

// Format identifies an input file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Options controls how tabular sources are read.
type Options struct {
	// Delimiter is the CSV field separator.
	// Default: ','
	Delimiter rune

	// Sheet is the XLSX sheet to read. Empty means the first sheet.
	Sheet string
}

// DefaultOptions returns the default source options.
func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// DetectFormat maps a file path to its input format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadCatalogue reads catalogue entries from a file.
//
// PARAMETERS:
//   - path: The catalogue file. Its extension selects the reader.
//   - options: Settings for tabular formats.
//
// RETURNS:
//   - The entries in file order.
//   - An error if the file cannot be read or is not a list of entries.
func LoadCatalogue(path string, options Options) ([]types.CatalogueEntry, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var entries []types.CatalogueEntry
	switch format {
	case FormatJSON:
		entries, err = withFile(path, DecodeCatalogueJSON)
	case FormatCSV:
		entries, err = withFile(path, func(r io.Reader) ([]types.CatalogueEntry, error) {
			return ReadCatalogueCSV(r, options.Delimiter)
		})
	case FormatXLSX:
		entries, err = ReadCatalogueXLSX(path, options.Sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue %s: %w", path, err)
	}

	return entries, nil
}

// LoadSales reads sale records from a file.
//
// Tabular formats hold one sale item per row; rows are grouped into sales by
// their SALE_ID in order of first appearance.
func LoadSales(path string, options Options) ([]types.SaleRecord, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var records []types.SaleRecord
	switch format {
	case FormatJSON:
		records, err = withFile(path, DecodeSalesJSON)
	case FormatCSV:
		records, err = withFile(path, func(r io.Reader) ([]types.SaleRecord, error) {
			return ReadSalesCSV(r, options.Delimiter)
		})
	case FormatXLSX:
		records, err = ReadSalesXLSX(path, options.Sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sales %s: %w", path, err)
	}

	return records, nil
}

func withFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return read(file)
}
