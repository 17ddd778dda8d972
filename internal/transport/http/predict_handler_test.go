package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"policysim/internal/config"
	"policysim/internal/model"
	"policysim/internal/services"
	api "policysim/pkg/contracts/api/v1"
	"policysim/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// simWithIntercepts builds a simulation service whose pipelines always
// predict their intercept.
func simWithIntercepts(t *testing.T, intercepts map[string]float64) *services.SimulationService {
	t.Helper()
	paths := config.PathsAt(t.TempDir())
	n := len(domain.FeatureOrder)
	for target, intercept := range intercepts {
		p := &model.Pipeline{
			Target:   target,
			Features: append([]string(nil), domain.FeatureOrder...),
			Scaler:   model.StandardScaler{Mean: make([]float64, n), Std: []float64{1, 1, 1, 1}},
			Model:    model.Ridge{Alpha: 1, Weights: make([]float64, n), Intercept: intercept},
		}
		require.NoError(t, p.Save(paths.GetModelPath(target)))
	}
	return services.NewSimulationService(paths, testLogger())
}

func healthySim(t *testing.T) *services.SimulationService {
	t.Helper()
	return simWithIntercepts(t, map[string]float64{
		domain.ColumnInflation:    22.5,
		domain.ColumnGDPGrowth:    3.1,
		domain.ColumnUnemployment: 9.4,
	})
}

func doPredict(t *testing.T, h *PredictHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Predict(rec, req)
	return rec
}

func TestPredictHandler(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		h := NewPredictHandler(healthySim(t), nil, testLogger())
		rec := doPredict(t, h, `{"lending_rate": 26.5}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

		var resp api.PredictResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.InDelta(t, 22.5, resp.Inflation, 1e-9)
		assert.InDelta(t, 3.1, resp.GDPGrowth, 1e-9)
		assert.InDelta(t, 9.4, resp.UnemploymentRate, 1e-9)
	})

	t.Run("outputs are clamped", func(t *testing.T) {
		h := NewPredictHandler(simWithIntercepts(t, map[string]float64{
			domain.ColumnInflation:    500,
			domain.ColumnGDPGrowth:    -80,
			domain.ColumnUnemployment: 3,
		}), nil, testLogger())
		rec := doPredict(t, h, `{"lending_rate": 26.5}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.PredictResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.InflationRange.Max, resp.Inflation)
		assert.Equal(t, domain.GDPGrowthRange.Min, resp.GDPGrowth)
		assert.Equal(t, domain.UnemploymentRange.Min, resp.UnemploymentRate)
	})

	t.Run("zero rate is a valid input", func(t *testing.T) {
		h := NewPredictHandler(healthySim(t), nil, testLogger())
		rec := doPredict(t, h, `{"lending_rate": 0}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing lending_rate", func(t *testing.T) {
		h := NewPredictHandler(healthySim(t), nil, testLogger())
		rec := doPredict(t, h, `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Missing required field: lending_rate", resp.Error)
	})

	t.Run("non-numeric lending_rate", func(t *testing.T) {
		h := NewPredictHandler(healthySim(t), nil, testLogger())
		rec := doPredict(t, h, `{"lending_rate": "high"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "Invalid request body")
	})

	t.Run("malformed json", func(t *testing.T) {
		h := NewPredictHandler(healthySim(t), nil, testLogger())
		rec := doPredict(t, h, `{"lending_rate":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("models missing", func(t *testing.T) {
		h := NewPredictHandler(simWithIntercepts(t, map[string]float64{
			domain.ColumnInflation: 22.5,
		}), nil, testLogger())
		rec := doPredict(t, h, `{"lending_rate": 26.5}`)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "One or more models failed to load", resp.Error)

		// never a partial forecast alongside the error
		var partial map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &partial))
		assert.NotContains(t, partial, "inflation")
	})

	t.Run("concurrent requests", func(t *testing.T) {
		h := NewPredictHandler(healthySim(t), nil, testLogger())

		var g errgroup.Group
		for i := 0; i < 20; i++ {
			g.Go(func() error {
				rec := doPredict(t, h, `{"lending_rate": 26.5}`)
				if rec.Code != http.StatusOK {
					return assert.AnError
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		h := NewHealthHandler(services.NewHealthService(healthySim(t)))

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		h.Health(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var status services.HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.True(t, status.ModelsLoaded)
	})

	t.Run("degraded service still answers 200", func(t *testing.T) {
		h := NewHealthHandler(services.NewHealthService(simWithIntercepts(t, nil)))

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		h.Health(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var status services.HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "degraded", status.Status)
	})

	t.Run("readiness gates on status code", func(t *testing.T) {
		degraded := NewHealthHandler(services.NewHealthService(simWithIntercepts(t, nil)))
		rec := httptest.NewRecorder()
		degraded.Ready(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		ready := NewHealthHandler(services.NewHealthService(healthySim(t)))
		rec = httptest.NewRecorder()
		ready.Ready(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
