// Command fetcher acquires the upstream source artifacts: the rate PDF,
// the CPI archive, the rendered indicator table and the annual indicator
// API series. Each source is independent; failures are reported per
// source and the exit code reflects whether any failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"policysim/internal/config"
	"policysim/internal/fetch"
	"policysim/internal/infrastructure"
)

func main() {
	only := flag.String("only", "", "comma-separated source names to fetch (rates, cpi, unemployment, worldbank); empty fetches all")
	flag.Parse()

	if err := run(*only); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(only string) error {
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
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.ContextWithTraceID(ctx)

	client := fetch.NewClient(logger)
	acquirers := []fetch.Acquirer{
		fetch.NewRateAcquirer(client, cfg.Fetch.RatePDFURL, paths.RatePDF, paths.RateRawCSV, logger),
		fetch.NewCPIAcquirer(client, cfg.Fetch.CPIArchiveURL, paths.CPICSV, logger),
		fetch.NewUnemploymentAcquirer(cfg.Fetch.UnemploymentURL, paths.UnemploymentCSV, cfg.Fetch.Headless, logger),
		fetch.NewWorldBankAcquirer(client, cfg.Fetch.WorldBankBaseURL, cfg.Fetch.CountryCode,
			cfg.Fetch.YearFrom, cfg.Fetch.YearTo, paths.WorldBankCSV, logger),
	}

	if only != "" {
		acquirers = filterAcquirers(acquirers, only)
		if len(acquirers) == 0 {
			return fmt.Errorf("no sources match -only=%s", only)
		}
	}

	logger.Info("starting acquisition", slog.Int("sources", len(acquirers)))
	return fetch.RunAll(ctx, logger, acquirers...)
}

func filterAcquirers(acquirers []fetch.Acquirer, only string) []fetch.Acquirer {
	wanted := make(map[string]bool)
	for _, name := range strings.Split(only, ",") {
		wanted[strings.TrimSpace(name)] = true
	}
	var out []fetch.Acquirer
	for _, a := range acquirers {
		if wanted[a.Name()] {
			out = append(out, a)
		}
	}
	return out
}
