package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/internal/config"
	"policysim/internal/dataset"
	"policysim/internal/model"
	"policysim/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// constantPipeline always predicts the intercept
func constantPipeline(target string, intercept float64) *model.Pipeline {
	n := len(domain.FeatureOrder)
	return &model.Pipeline{
		Target:   target,
		Features: append([]string(nil), domain.FeatureOrder...),
		Scaler: model.StandardScaler{
			Mean: make([]float64, n),
			Std:  []float64{1, 1, 1, 1},
		},
		Model: model.Ridge{Alpha: 1, Weights: make([]float64, n), Intercept: intercept},
	}
}

func savePipelines(t *testing.T, paths *config.Paths, intercepts map[string]float64) {
	t.Helper()
	for target, intercept := range intercepts {
		require.NoError(t, constantPipeline(target, intercept).Save(paths.GetModelPath(target)))
	}
}

func writeMaster(t *testing.T, paths *config.Paths) {
	t.Helper()
	df := dataset.LoadFrameRecords([][]string{
		{"year", "gdp_current_usd", "inflation_annual", "unemployment_rate"},
		{"2021", "100", "17.0", "9.8"},
		{"2022", "110", "18.8", "10.5"},
		{"2023", "121", "24.7", "11.0"},
	})
	require.NoError(t, dataset.WriteFrame(paths.MasterCSV, df))
}

func TestSimulationService(t *testing.T) {
	t.Run("predicts with clamping", func(t *testing.T) {
		paths := config.PathsAt(t.TempDir())
		savePipelines(t, paths, map[string]float64{
			domain.ColumnInflation:    100,  // above plausible range
			domain.ColumnGDPGrowth:    -50,  // below plausible range
			domain.ColumnUnemployment: 10.5, // within range
		})
		writeMaster(t, paths)

		s := NewSimulationService(paths, testLogger())
		require.True(t, s.Healthy())

		forecast, err := s.Predict(26.5)
		require.NoError(t, err)
		assert.Equal(t, domain.InflationRange.Max, forecast.Inflation)
		assert.Equal(t, domain.GDPGrowthRange.Min, forecast.GDPGrowth)
		assert.Equal(t, 10.5, forecast.UnemploymentRate)
	})

	t.Run("lags come from the dataset", func(t *testing.T) {
		paths := config.PathsAt(t.TempDir())
		savePipelines(t, paths, map[string]float64{
			domain.ColumnInflation:    20,
			domain.ColumnGDPGrowth:    3,
			domain.ColumnUnemployment: 10,
		})
		writeMaster(t, paths)

		s := NewSimulationService(paths, testLogger())
		lags := s.Lags()
		assert.Equal(t, "dataset", lags.Source)
		// 2023 lags come from the 2022 row
		assert.InDelta(t, 18.8, lags.InflationLag1, 1e-9)
		assert.InDelta(t, 10.5, lags.UnemploymentLag1, 1e-9)
		assert.InDelta(t, 10.0, lags.GDPGrowthLag1, 1e-9)
	})

	t.Run("missing dataset falls back to defaults", func(t *testing.T) {
		paths := config.PathsAt(t.TempDir())
		savePipelines(t, paths, map[string]float64{
			domain.ColumnInflation:    20,
			domain.ColumnGDPGrowth:    3,
			domain.ColumnUnemployment: 10,
		})

		s := NewSimulationService(paths, testLogger())
		assert.Equal(t, domain.DefaultLagFeatures, s.Lags())

		_, err := s.Predict(26.5)
		assert.NoError(t, err, "default lags must still allow simulations")
	})

	t.Run("missing pipeline leaves service degraded", func(t *testing.T) {
		paths := config.PathsAt(t.TempDir())
		savePipelines(t, paths, map[string]float64{
			domain.ColumnInflation: 20,
		})

		s := NewSimulationService(paths, testLogger())
		assert.False(t, s.Healthy())
		assert.ElementsMatch(t,
			[]string{domain.ColumnGDPGrowth, domain.ColumnUnemployment},
			s.MissingTargets())

		_, err := s.Predict(26.5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not loaded")
	})
}

func TestHealthService(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		paths := config.PathsAt(t.TempDir())
		savePipelines(t, paths, map[string]float64{
			domain.ColumnInflation:    20,
			domain.ColumnGDPGrowth:    3,
			domain.ColumnUnemployment: 10,
		})

		h := NewHealthService(NewSimulationService(paths, testLogger()))
		status := h.Check()
		assert.Equal(t, "healthy", status.Status)
		assert.True(t, status.ModelsLoaded)
		assert.Empty(t, status.MissingTargets)
		assert.Equal(t, "defaults", status.LagSource)
	})

	t.Run("degraded", func(t *testing.T) {
		paths := config.PathsAt(t.TempDir())

		h := NewHealthService(NewSimulationService(paths, testLogger()))
		status := h.Check()
		assert.Equal(t, "degraded", status.Status)
		assert.False(t, status.ModelsLoaded)
		assert.Len(t, status.MissingTargets, 3)
	})
}
