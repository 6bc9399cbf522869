// =============================================================================
// Sales Totals Calculator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salescalc)
//   ├── computeCmd (salescalc compute <catalogue> <sales>)
//   ├── validateCmd (salescalc validate <catalogue> <sales>)
//   └── versionCmd (salescalc version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-format)
//   2. Loading the configuration file before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/compute-sales/internal/config"
	"github.com/ginjaninja78/compute-sales/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// defaultConfigFile is read when present and silently skipped when absent.
const defaultConfigFile = "salescalc.yaml"

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logFormat overrides the configured log format when set.
var logFormat string

// mainConfig is set by loadConfig before a subcommand runs.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salescalc",
	Short: "Sales Totals Calculator - Price sales against a product catalogue",
	Long: `Sales Totals Calculator reads a product catalogue and a list of sales,
computes the total of every sale and the grand total, and writes a
plain-text report.

Invalid catalogue entries and sale items are skipped and reported as
diagnostics; the calculation always completes.

Example Usage:
  salescalc compute catalogue.json sales.json
  salescalc compute catalogue.csv sales.xlsx -o "report_{date}.txt"
  salescalc validate catalogue.json sales.json`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Cobra prints the error itself unless silenced; Execute does it once.
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log format: console or json (overrides the configuration file)",
	)
}

// loadConfig reads the configuration file, applies the global flag
// overrides and stores the logger in the command context.
//
// A missing configuration file is only an error when --config was given.
func loadConfig(cmd *cobra.Command) error {
	optional := !cmd.Flags().Changed("config")

	cfg, err := config.LoadMainConfig(cfgFile, optional)
	if err != nil {
		return err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mainConfig = cfg
	log := logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    cmd.ErrOrStderr(),
	})
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	log.Debug().Str("config", cfgFile).Bool("config_optional", optional).Msg("configuration loaded")

	return nil
}
