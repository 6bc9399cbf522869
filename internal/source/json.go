package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ginjaninja78/compute-sales/internal/types"
)

// DecodeCatalogueJSON decodes a JSON array of catalogue entries.
func DecodeCatalogueJSON(r io.Reader) ([]types.CatalogueEntry, error) {
	return decodeArray[types.CatalogueEntry](r)
}

// DecodeSalesJSON decodes a JSON array of sale records.
func DecodeSalesJSON(r io.Reader) ([]types.SaleRecord, error) {
	return decodeArray[types.SaleRecord](r)
}

// decodeArray reads a whole JSON document that must be an array, then
// decodes each element on its own so a bad element can be located.
func decodeArray[T any](r io.Reader) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedInput)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil || elements == nil {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrInputShape)
	}

	out := make([]T, 0, len(elements))
	for i, element := range elements {
		if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
			return nil, fmt.Errorf("%w: element %d is null", ErrInputShape, i)
		}
		var v T
		if err := json.Unmarshal(element, &v); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInputShape, i, err)
		}
		out = append(out, v)
	}

	return out, nil
}
