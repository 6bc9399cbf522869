// =============================================================================
// Sales Totals Calculator - Report Formatter
// =============================================================================
//
// This module renders sale results into the fixed-layout text report.
//
// LAYOUT:
//   ==================================================
//              SALES RESULTS REPORT
//   ==================================================
//   Sale ID  : S1
//   Customer : Bob
//   Total    : $1,234.50
//   --------------------------------------------------
//   GRAND TOTAL: $1,234.50
//   ==================================================
//   Execution time: 0.0012 seconds
//
// Lines are joined with "\n" and there is no trailing newline.
//
// =============================================================================

package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/compute-sales/internal/types"
)

const (
	// Title is the centered report title line.
	Title = "           SALES RESULTS REPORT"

	lineWidth = 50
)

var (
	banner    = strings.Repeat("=", lineWidth)
	separator = strings.Repeat("-", lineWidth)
)

// Format renders the report.
//
// PARAMETERS:
//   - results: The per-sale results in display order.
//   - grandTotal: The sum of all result totals.
//   - elapsedSeconds: The execution time supplied by the caller.
//
// RETURNS:
//   - The report text.
func Format(results []types.SaleResult, grandTotal, elapsedSeconds float64) string {
	lines := make([]string, 0, 3+4*len(results)+3)
	lines = append(lines, banner, Title, banner)

	for _, result := range results {
		lines = append(lines,
			"Sale ID  : "+result.SaleID,
			"Customer : "+result.Customer,
			"Total    : $"+Money(result.Total),
			separator,
		)
	}

	lines = append(lines,
		"GRAND TOTAL: $"+Money(grandTotal),
		banner,
		fmt.Sprintf("Execution time: %.4f seconds", elapsedSeconds),
	)

	return strings.Join(lines, "\n")
}

// Money formats an amount with comma thousands separators and exactly two
// decimal places, e.g. 1234567.891 -> "1,234,567.89".
func Money(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	return sign + group(intPart) + "." + frac
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
