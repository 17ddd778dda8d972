package services

import (
	"fmt"
	"log/slog"

	"policysim/internal/config"
	"policysim/internal/dataset"
	"policysim/internal/model"
	"policysim/pkg/contracts/domain"
)

// SimulationService answers policy simulations: one lending-rate input,
// three clamped outcome forecasts. The pipelines and lag features are
// loaded once at startup; the service itself is stateless afterwards and
// safe for concurrent use.
type SimulationService struct {
	pipelines map[string]*model.Pipeline
	lags      domain.LagFeatureSet
	logger    *slog.Logger
}

// clampFor maps each target to its domain-sanity range
var clampFor = map[string]domain.ClampRange{
	domain.ColumnInflation:    domain.InflationRange,
	domain.ColumnGDPGrowth:    domain.GDPGrowthRange,
	domain.ColumnUnemployment: domain.UnemploymentRange,
}

// NewSimulationService loads the persisted pipelines and the most recent
// lag features from the master dataset. A missing or unreadable dataset
// degrades to the fallback defaults; missing pipelines leave the service
// constructed but unhealthy, so the server can still start and report a
// meaningful error per request.
func NewSimulationService(paths *config.Paths, logger *slog.Logger) *SimulationService {
	s := &SimulationService{
		pipelines: make(map[string]*model.Pipeline),
		lags:      domain.DefaultLagFeatures,
		logger:    logger,
	}

	for _, target := range domain.Targets {
		path := paths.GetModelPath(target)
		p, err := model.LoadPipeline(path)
		if err != nil {
			logger.Error("failed to load pipeline",
				slog.String("target", target),
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		s.pipelines[target] = p
		logger.Info("loaded pipeline",
			slog.String("target", target),
			slog.Float64("test_mse", p.TestMSE))
	}

	if lags, err := s.loadLags(paths.MasterCSV); err != nil {
		logger.Warn("falling back to default lag features",
			slog.String("path", paths.MasterCSV),
			slog.String("error", err.Error()))
	} else {
		s.lags = lags
	}
	logger.Info("lag features resolved",
		slog.String("source", s.lags.Source),
		slog.Float64("inflation_lag1", s.lags.InflationLag1),
		slog.Float64("unemployment_lag1", s.lags.UnemploymentLag1),
		slog.Float64("gdp_growth_lag1", s.lags.GDPGrowthLag1))

	return s
}

func (s *SimulationService) loadLags(masterPath string) (domain.LagFeatureSet, error) {
	df, err := dataset.ReadFrame(masterPath)
	if err != nil {
		return domain.LagFeatureSet{}, err
	}
	return dataset.LatestLagFeatures(df)
}

// Healthy reports whether every target has a loaded pipeline
func (s *SimulationService) Healthy() bool {
	return len(s.pipelines) == len(domain.Targets)
}

// MissingTargets lists targets without a loaded pipeline
func (s *SimulationService) MissingTargets() []string {
	var missing []string
	for _, target := range domain.Targets {
		if _, ok := s.pipelines[target]; !ok {
			missing = append(missing, target)
		}
	}
	return missing
}

// Lags exposes the resolved lag feature set
func (s *SimulationService) Lags() domain.LagFeatureSet {
	return s.lags
}

// Predict runs every pipeline on the feature vector built from the given
// lending rate and the stored lags, clamping each raw output to its
// plausible range. Any pipeline failing fails the whole simulation; a
// partial forecast is never returned.
func (s *SimulationService) Predict(lendingRate float64) (domain.Forecast, error) {
	if !s.Healthy() {
		return domain.Forecast{}, fmt.Errorf("pipelines not loaded for targets %v", s.MissingTargets())
	}

	features := s.lags.Vector(lendingRate)
	raw := make(map[string]float64, len(domain.Targets))
	for _, target := range domain.Targets {
		v, err := s.pipelines[target].Predict(features)
		if err != nil {
			return domain.Forecast{}, fmt.Errorf("simulation failed: %w", err)
		}
		raw[target] = clampFor[target].Clamp(v)
	}

	s.logger.Debug("simulation complete",
		slog.Float64("lending_rate", lendingRate),
		slog.Float64("inflation", raw[domain.ColumnInflation]),
		slog.Float64("gdp_growth", raw[domain.ColumnGDPGrowth]),
		slog.Float64("unemployment", raw[domain.ColumnUnemployment]))

	return domain.Forecast{
		Inflation:        raw[domain.ColumnInflation],
		GDPGrowth:        raw[domain.ColumnGDPGrowth],
		UnemploymentRate: raw[domain.ColumnUnemployment],
	}, nil
}
