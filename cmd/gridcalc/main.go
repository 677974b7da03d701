// Package main provides the gridcalc command line tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/javajack/gridcalc"
	"github.com/spf13/cobra"
)

var (
	configPath string
	rowsFlag   int
	colsFlag   int
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridcalc",
		Short: "Evaluate and edit formula spreadsheets",
		Long: `gridcalc loads spreadsheet documents, applies cell edits and
recomputes every dependent formula.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default: built-in 50x26 grid)")
	rootCmd.PersistentFlags().IntVar(&rowsFlag, "rows", 0, "Override the number of rows")
	rootCmd.PersistentFlags().IntVar(&colsFlag, "cols", 0, "Override the number of columns")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine activity to stderr")

	rootCmd.AddCommand(
		newEvalCmd(),
		newShowCmd(),
		newSetCmd(),
		newValidateCmd(),
		newExportCmd(),
		newImportCmd(),
	)
	return rootCmd
}

// loadConfig resolves the config file and flag overrides.
func loadConfig() (gridcalc.Config, error) {
	cfg := gridcalc.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = gridcalc.LoadConfig(configPath); err != nil {
			return cfg, err
		}
	}
	if rowsFlag > 0 {
		cfg.Rows = rowsFlag
	}
	if colsFlag > 0 {
		cfg.Columns = colsFlag
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg gridcalc.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	if !verbose && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newSheet creates an empty sheet from the resolved configuration.
func newSheet() (*gridcalc.Spreadsheet, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	sheet, err := gridcalc.NewFromConfig(cfg, gridcalc.WithLogger(newLogger(cfg)))
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	return sheet, nil
}

// openSheet creates a sheet and loads the XML document at path into it.
func openSheet(path string) (*gridcalc.Spreadsheet, error) {
	sheet, err := newSheet()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	if err := gridcalc.NewInvoker().Run(gridcalc.NewLoadCommand(sheet, f)); err != nil {
		return nil, err
	}
	return sheet, nil
}
