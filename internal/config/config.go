// =============================================================================
// Sales Totals Calculator - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so the calculator runs without any configuration file at all, and
// command-line flags override whatever the file says.
//
// EXAMPLE (salescalc.yaml):
//   output_dir: ./reports
//   output_file: "SalesResults_{date}.txt"
//   workbook_file: "SalesResults_{run_id}.xlsx"
//   diagnostics_log: diagnostics.log
//   log_level: info
//   log_format: console
//   strict: false
//   csv:
//     delimiter: ";"
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory where the report and the optional files are
	// written. It is created if missing.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// OutputFile is the report file name. Supports the placeholders
	// {run_id}, {timestamp}, {date} and {time}.
	// Default: "SalesResults.txt"
	OutputFile string `yaml:"output_file"`

	// WorkbookFile is the XLSX workbook file name. Empty disables it.
	WorkbookFile string `yaml:"workbook_file"`

	// DiagnosticsLog is the diagnostic log file name. Empty disables it.
	DiagnosticsLog string `yaml:"diagnostics_log"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// Strict makes the run fail after writing its output when any
	// error-level diagnostic was recorded.
	Strict bool `yaml:"strict"`

	// CSV holds settings for CSV inputs.
	CSV CSVSettings `yaml:"csv"`

	// XLSX holds settings for spreadsheet inputs.
	XLSX XLSXSettings `yaml:"xlsx"`
}

// CSVSettings defines how CSV inputs are parsed.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// XLSXSettings defines how spreadsheet inputs are read.
type XLSXSettings struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - optional: When true a missing file yields the defaults instead of an
//     error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, optional bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.OutputFile == "" {
		config.OutputFile = "SalesResults.txt"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
}

// Validate checks the configuration values.
func (c *MainConfig) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	if _, err := c.CSV.Rune(); err != nil {
		return err
	}

	return nil
}

// Rune returns the delimiter as a single rune.
func (s CSVSettings) Rune() (rune, error) {
	switch strings.ToLower(s.Delimiter) {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	runes := []rune(s.Delimiter)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("%w: csv delimiter %q must be a single character", ErrInvalidConfig, s.Delimiter)
	}
	return runes[0], nil
}
