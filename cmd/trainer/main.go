// Command trainer fits one ridge pipeline per target indicator from the
// master dataset and persists the artifacts the web server loads.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"policysim/internal/config"
	"policysim/internal/dataset"
	"policysim/internal/infrastructure"
	"policysim/internal/model"
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
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	master, err := dataset.ReadFrame(paths.MasterCSV)
	if err != nil {
		return fmt.Errorf("master dataset: %w", err)
	}

	trainer := model.NewTrainer(model.TrainOptions{
		Alpha:        cfg.Train.Alpha,
		TestFraction: cfg.Train.TestFraction,
		Seed:         cfg.Train.Seed,
	}, logger)

	pipelines, err := trainer.Train(master)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	for _, p := range pipelines {
		path := paths.GetModelPath(p.Target)
		if err := p.Save(path); err != nil {
			return err
		}
		logger.Info("pipeline persisted",
			slog.String("target", p.Target),
			slog.String("path", path),
			slog.Float64("test_mse", p.TestMSE))
	}
	return nil
}
