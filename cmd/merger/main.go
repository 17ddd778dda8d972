// Command merger aligns the normalized per-source tables on a shared
// year key and writes the master economic dataset, including the derived
// growth and lag columns. Optional sources that are missing on disk are
// skipped with a warning.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"

	"policysim/internal/config"
	"policysim/internal/dataset"
	"policysim/internal/infrastructure"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths()
	if err != nil {
		return err
	}

	// The anchor table is mandatory; everything else degrades gracefully
	worldBank, err := dataset.ReadFrame(paths.WorldBankCSV)
	if err != nil {
		return fmt.Errorf("anchor table: %w", err)
	}

	inputs := dataset.MergeInputs{
		WorldBank:    worldBank,
		Rates:        optionalFrame(paths.RateCleanCSV, logger),
		CPI:          optionalRecords(paths.CPICSV, logger),
		Unemployment: optionalRecords(paths.UnemploymentCSV, logger),
	}

	merger := dataset.NewMerger(cfg.Merge.ForecastYear, logger)
	master, err := merger.Merge(inputs)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if err := dataset.WriteFrame(paths.MasterCSV, master); err != nil {
		return err
	}

	logger.Info("master dataset written",
		slog.String("path", paths.MasterCSV),
		slog.Int("rows", master.Nrow()),
		slog.Int("columns", master.Ncol()))
	return nil
}

func optionalFrame(path string, logger *slog.Logger) dataframe.DataFrame {
	df, err := dataset.ReadFrame(path)
	if err != nil {
		logger.Warn("optional source unavailable",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return dataframe.DataFrame{}
	}
	return df
}

func optionalRecords(path string, logger *slog.Logger) [][]string {
	records, err := dataset.ReadRecords(path)
	if err != nil {
		logger.Warn("optional source unavailable",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	return records
}
