// =============================================================================
// Sales Totals Calculator - Diagnostics
// =============================================================================
//
// This module collects the row-level problems found while building the price
// map and aggregating sales.
//
// ERROR HANDLING:
//   - Diagnostics are collected, never thrown
//   - Each diagnostic carries its context (stage, sale, product, value)
//   - Warnings and errors both let processing continue; the severity only
//     tells the caller how serious the data problem is
//   - The caller decides whether to log, print or silently keep them
//
// =============================================================================

package validation

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SEVERITY AND STAGE
// =============================================================================

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityWarning marks a malformed value that was skipped.
	SeverityWarning Severity = "warning"

	// SeverityError marks a reference that could not be resolved, such as a
	// product that is not in the catalogue.
	SeverityError Severity = "error"
)

// Stage names the pipeline step that produced a diagnostic.
type Stage string

const (
	StageCatalogue Stage = "catalogue"
	StageSales     Stage = "sales"
)

// =============================================================================
// DIAGNOSTIC
// =============================================================================

// Diagnostic is a single leveled message about a skipped input row.
type Diagnostic struct {
	Severity Severity
	Stage    Stage

	// SaleID is set for sales diagnostics.
	SaleID string

	// Product is the product or catalogue title the diagnostic is about.
	Product string

	// Value is the offending value as received, if any.
	Value string

	// Message is the human-readable text without the severity prefix.
	Message string
}

// Error implements the error interface so a diagnostic can be wrapped or
// compared by callers that want to treat it as one.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", strings.ToUpper(string(d.Severity)), d.Message)
}

// String returns the same text as Error.
func (d Diagnostic) String() string {
	return d.Error()
}

// =============================================================================
// DIAGNOSTICS LIST
// =============================================================================

// Diagnostics is an ordered list of diagnostics.
// The order is the order in which the rows were visited.
type Diagnostics []Diagnostic

// Append adds a diagnostic to the list.
func (ds *Diagnostics) Append(d Diagnostic) {
	*ds = append(*ds, d)
}

// Warn adds a warning-level diagnostic.
func (ds *Diagnostics) Warn(d Diagnostic) {
	d.Severity = SeverityWarning
	ds.Append(d)
}

// Error adds an error-level diagnostic.
func (ds *Diagnostics) Error(d Diagnostic) {
	d.Severity = SeverityError
	ds.Append(d)
}

// Count returns the number of diagnostics with the given severity.
func (ds Diagnostics) Count(severity Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (ds Diagnostics) HasErrors() bool {
	return ds.Count(SeverityError) > 0
}

// ByStage returns the diagnostics produced by one stage, preserving order.
func (ds Diagnostics) ByStage(stage Stage) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

// Messages returns the rendered diagnostics in order.
func (ds Diagnostics) Messages() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

// =============================================================================
// FORMATTING
// =============================================================================

// Format renders the diagnostics as a numbered listing.
//
// RETURNS:
//   - "No validation issues." when the list is empty.
//   - Otherwise a header line with the counts followed by one line per
//     diagnostic.
func (ds Diagnostics) Format() string {
	if len(ds) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s) and %d warning(s):\n\n",
		ds.Count(SeverityError), ds.Count(SeverityWarning)))

	for i, d := range ds {
		builder.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, d.Stage, d.String()))
	}

	return builder.String()
}

// RenderLog renders the diagnostic log file contents.
//
// PARAMETERS:
//   - runID: The run identifier printed in the header.
//   - generatedAt: The run time printed in the header.
//
// RETURNS:
//   - The log text. The caller decides where and how it is written.
func (ds Diagnostics) RenderLog(runID string, generatedAt time.Time) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Sales Totals Calculator - Diagnostic Log\n"+
		"Run:       %s\n"+
		"Generated: %s\n"+
		"Errors:    %d\n"+
		"Warnings:  %d\n"+
		"================================================================================\n\n",
		runID,
		generatedAt.Format("2006-01-02 15:04:05"),
		ds.Count(SeverityError),
		ds.Count(SeverityWarning))

	for i, d := range ds {
		fmt.Fprintf(&buf, "Diagnostic #%d\n"+
			"  Severity: %s\n"+
			"  Stage:    %s\n"+
			"  Message:  %s\n",
			i+1, d.Severity, d.Stage, d.Message)

		if d.SaleID != "" {
			fmt.Fprintf(&buf, "  Sale:     %s\n", d.SaleID)
		}
		if d.Product != "" {
			fmt.Fprintf(&buf, "  Product:  %s\n", d.Product)
		}
		if d.Value != "" {
			fmt.Fprintf(&buf, "  Value:    %s\n", d.Value)
		}
		buf.WriteString("\n")
	}

	buf.WriteString("================================================================================\n" +
		"End of Diagnostic Log\n")

	return buf.Bytes()
}
