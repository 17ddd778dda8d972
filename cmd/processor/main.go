// Command processor normalizes the raw extracted rate table: garbled
// header reconstruction, blank-row removal, category forward-fill and
// numeric coercion. Input and output default to the standard artifact
// paths.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"policysim/internal/config"
	"policysim/internal/dataset"
	"policysim/internal/infrastructure"
)

func main() {
	in := flag.String("in", "", "raw rate table CSV (default: standard raw artifact path)")
	out := flag.String("out", "", "normalized output CSV (default: standard processed artifact path)")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out string) error {
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
	if in == "" {
		in = paths.RateRawCSV
	}
	if out == "" {
		out = paths.RateCleanCSV
	}

	raw, err := dataset.ReadRecords(in)
	if err != nil {
		return err
	}

	normalizer := dataset.NewNormalizer(dataset.DefaultRateTableOptions(), logger)
	table, err := normalizer.Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	if err := dataset.WriteRecords(out, table.CSVRecords()); err != nil {
		return err
	}

	logger.Info("rate table normalized",
		slog.String("input", in),
		slog.String("output", out),
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", len(table.Records)))
	return nil
}
