// =============================================================================
// Sales Totals Calculator - Shared Types
// =============================================================================
//
// This package contains the data model shared by the pricing, sales, report
// and source packages. Keeping it here avoids import cycles between them.
//
// OPTIONAL FIELDS:
//   Input records are loosely shaped: fields may be absent, null, or carry a
//   value of the wrong JSON type. Text and Number record exactly what was
//   received so that validation can tell these cases apart, and defaults are
//   applied here, at the deserialization boundary.
//
// =============================================================================

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnknownValue is substituted for a missing sale id or customer.
const UnknownValue = "UNKNOWN"

// =============================================================================
// OPTIONAL SCALARS
// =============================================================================

// Text is an optional field that is expected to hold a string.
type Text struct {
	// Value is the string value. When Valid is false it holds the raw JSON
	// text of whatever was received instead.
	Value string

	// Present is false when the field was absent or null.
	Present bool

	// Valid is true when the received value was a JSON string.
	Valid bool
}

// NewText returns a present, valid Text.
func NewText(s string) Text {
	return Text{Value: s, Present: true, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = NewText(s)
		return nil
	}

	*t = Text{Value: string(data), Present: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Present {
		return []byte("null"), nil
	}
	if !t.Valid {
		return []byte(t.Value), nil
	}
	return json.Marshal(t.Value)
}

// Or returns the value, or def when the field was absent.
func (t Text) Or(def string) string {
	if !t.Present {
		return def
	}
	return t.Value
}

// Number is an optional field that is expected to hold a number.
type Number struct {
	// Value is the numeric value. Zero unless Valid.
	Value float64

	// Raw is the value as received, used when reporting it back.
	Raw string

	// Present is false when the field was absent or null.
	Present bool

	// Valid is true when the received value was a JSON number.
	Valid bool
}

// NewNumber returns a present, valid Number.
func NewNumber(v float64) Number {
	return Number{
		Value:   v,
		Raw:     strconv.FormatFloat(v, 'f', -1, 64),
		Present: true,
		Valid:   true,
	}
}

// InvalidNumber returns a present Number holding a non-numeric value.
func InvalidNumber(raw string) Number {
	return Number{Raw: raw, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Only JSON numbers are numeric. Quoted numbers and booleans are kept as
// present but invalid values.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	if len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		if f, err := strconv.ParseFloat(string(data), 64); err == nil {
			*n = Number{Value: f, Raw: string(data), Present: true, Valid: true}
			return nil
		}
	}

	*n = InvalidNumber(string(data))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	if !n.Valid {
		return []byte(n.Raw), nil
	}
	return json.Marshal(n.Value)
}

// String returns the value as received.
func (n Number) String() string {
	if !n.Present {
		return "null"
	}
	return n.Raw
}

// =============================================================================
// CATALOGUE
// =============================================================================

// CatalogueEntry is one product of the price catalogue.
// Fields other than title and price are ignored.
type CatalogueEntry struct {
	Title Text
	Price Number

	// Raw is the entry as it appeared in the source, for diagnostics.
	Raw string
}

// UnmarshalJSON reads the exact keys "title" and "price" and keeps the raw
// entry text alongside them.
func (e *CatalogueEntry) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*e = CatalogueEntry{
		Title: textField(fields, "title"),
		Price: numberField(fields, "price"),
		Raw:   compact(data),
	}
	return nil
}

// String renders the entry as received, or rebuilds it from the decoded
// fields when there is no raw text.
func (e CatalogueEntry) String() string {
	if e.Raw != "" {
		return e.Raw
	}
	title, _ := e.Title.MarshalJSON()
	price, _ := e.Price.MarshalJSON()
	return fmt.Sprintf(`{"title":%s,"price":%s}`, title, price)
}

// =============================================================================
// SALES
// =============================================================================

// SaleItem is a single line of a sale.
type SaleItem struct {
	Product  Text
	Quantity Number
}

// UnmarshalJSON reads the exact keys "Product" and "Quantity".
func (i *SaleItem) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*i = SaleItem{
		Product:  textField(fields, "Product"),
		Quantity: numberField(fields, "Quantity"),
	}
	return nil
}

// Qty returns the quantity, defaulting an absent quantity to 0.
func (i SaleItem) Qty() Number {
	if !i.Quantity.Present {
		return NewNumber(0)
	}
	return i.Quantity
}

// SaleRecord is one customer transaction.
type SaleRecord struct {
	SaleID   Text
	Customer Text
	Items    []SaleItem
}

// UnmarshalJSON reads the exact keys "SALE_ID", "Customer" and "Items".
// Absent or null items decode to an empty list.
func (r *SaleRecord) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}

	items := []SaleItem{}
	if raw, ok := fields["Items"]; ok {
		var decoded []SaleItem
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("field Items: %w", err)
		}
		if decoded != nil {
			items = decoded
		}
	}

	*r = SaleRecord{
		SaleID:   textField(fields, "SALE_ID"),
		Customer: textField(fields, "Customer"),
		Items:    items,
	}
	return nil
}

// ID returns the sale id, or UnknownValue when it is missing.
func (r SaleRecord) ID() string {
	return r.SaleID.Or(UnknownValue)
}

// CustomerName returns the customer, or UnknownValue when it is missing.
func (r SaleRecord) CustomerName() string {
	return r.Customer.Or(UnknownValue)
}

// SaleResult is the computed total of one SaleRecord.
type SaleResult struct {
	SaleID   string  `json:"sale_id" yaml:"sale_id"`
	Customer string  `json:"customer" yaml:"customer"`
	Total    float64 `json:"total" yaml:"total"`
}

// =============================================================================
// FIELD LOOKUP
// =============================================================================

// objectFields splits a JSON object into its members. Keys are matched
// exactly as written, so "TITLE" is not "title". A null object has no
// members.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func textField(fields map[string]json.RawMessage, key string) Text {
	var t Text
	if raw, ok := fields[key]; ok {
		_ = t.UnmarshalJSON(raw)
	}
	return t
}

func numberField(fields map[string]json.RawMessage, key string) Number {
	var n Number
	if raw, ok := fields[key]; ok {
		_ = n.UnmarshalJSON(raw)
	}
	return n
}

func compact(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}
