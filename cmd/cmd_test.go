package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCatalogue = `[
  {"title": "Widget", "price": 10.5},
  {"title": "Gadget", "price": 4},
  {"title": "Broken", "price": "abc"}
]`

const testSales = `[
  {"SALE_ID": "S1", "Customer": "Ann", "Items": [
    {"Product": "Widget", "Quantity": 2},
    {"Product": "Gizmo", "Quantity": 1}
  ]},
  {"SALE_ID": "S2", "Customer": "Bob", "Items": [
    {"Product": "Gadget", "Quantity": 3}
  ]}
]`

type fixture struct {
	dir       string
	config    string
	catalogue string
	sales     string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:       dir,
		config:    filepath.Join(dir, "salescalc.yaml"),
		catalogue: filepath.Join(dir, "catalogue.json"),
		sales:     filepath.Join(dir, "sales.json"),
	}

	files := map[string]string{
		f.config:    "output_dir: " + filepath.Join(dir, "out") + "\nlog_level: error\n",
		f.catalogue: testCatalogue,
		f.sales:     testSales,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

// execute runs the root command with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeFull(t, args...)
	return out, err
}

// executeFull runs the root command and returns stdout and stderr.
func executeFull(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	outputFile, workbookFile, diagnosticsLog = "", "", ""
	dryRun, strict, verbose = false, false, false
	logFormat = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCompute(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "compute", f.catalogue, f.sales, "--config", f.config, "--workbook", "results.xlsx")
	if err != nil {
		t.Fatalf("compute error = %v", err)
	}

	reportPath := filepath.Join(f.dir, "out", "SalesResults.txt")
	for _, want := range []string{
		"SALES RESULTS REPORT",
		"Sale ID  : S1",
		"Total    : $21.00",
		"GRAND TOTAL: $33.00",
		"\nResults saved to " + reportPath + "\n",
		"Workbook saved to " + filepath.Join(f.dir, "out", "results.xlsx"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(out, string(data)) {
		t.Error("printed report differs from the written file")
	}
}

func TestCompute_LogsDiagnosticsToStderr(t *testing.T) {
	f := newFixture(t)

	out, stderr, err := executeFull(t, "compute", f.catalogue, f.sales, "--config", f.config, "--log-format", "json", "--dry-run")
	if err != nil {
		t.Fatalf("compute error = %v", err)
	}
	if strings.Contains(out, "not found in catalogue") {
		t.Errorf("diagnostics leaked into the report output:\n%s", out)
	}
	for _, want := range []string{`"level":"error"`, `"sale_id":"S1"`, `"product":"Gizmo"`, `"run_id":`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %s:\n%s", want, stderr)
		}
	}
}

func TestCompute_OutputFlag(t *testing.T) {
	f := newFixture(t)

	if _, err := execute(t, "compute", f.catalogue, f.sales, "--config", f.config, "-o", "custom.txt"); err != nil {
		t.Fatalf("compute error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "out", "custom.txt")); err != nil {
		t.Errorf("custom report not written: %v", err)
	}
}

func TestCompute_DryRun(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "compute", f.catalogue, f.sales, "--config", f.config, "--dry-run")
	if err != nil {
		t.Fatalf("compute error = %v", err)
	}
	if strings.Contains(out, "Results saved to") {
		t.Errorf("dry run reported a saved file:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "out")); err == nil {
		t.Error("dry run created the output directory")
	}
}

func TestCompute_Strict(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "compute", f.catalogue, f.sales, "--config", f.config, "--strict")
	if !errors.Is(err, errStrict) {
		t.Fatalf("compute --strict error = %v, want errStrict", err)
	}
	if !strings.Contains(out, "Results saved to") {
		t.Errorf("strict run did not write its report first:\n%s", out)
	}
}

func TestCompute_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{"compute", filepath.Join(f.dir, "nope.json"), f.sales, "--config", f.config}},
		{"one argument", []string{"compute", f.catalogue, "--config", f.config}},
		{"missing config", []string{"compute", f.catalogue, f.sales, "--config", filepath.Join(f.dir, "nope.yaml")}},
		{"bad log format", []string{"compute", f.catalogue, f.sales, "--config", f.config, "--log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "validate", f.catalogue, f.sales, "--config", f.config)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	for _, want := range []string{
		"Catalogue : 3 entries, 2 products",
		"Sales     : 2 sales, 3 items (2 priced, 1 skipped)",
		"Validation completed with 1 error(s) and 1 warning(s):",
		"2. [sales] ERROR: Product 'Gizmo' not found in catalogue (Sale: S1). Skipping.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(f.dir, "out")); err == nil {
		t.Error("validate created the output directory")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "Sales Totals Calculator\nVersion:    "+Version) {
		t.Errorf("unexpected version output:\n%s", out)
	}
}
