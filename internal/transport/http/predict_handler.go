package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"policysim/internal/infrastructure"
	"policysim/internal/services"
	api "policysim/pkg/contracts/api/v1"
)

// PredictHandler serves the simulation endpoint. Error bodies are the
// simulator's flat {"error": ...} shape so existing front-end clients
// keep working unchanged.
type PredictHandler struct {
	sim      *services.SimulationService
	validate *validator.Validate
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewPredictHandler creates the handler. metrics may be nil in tests.
func NewPredictHandler(sim *services.SimulationService, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{
		sim:      sim,
		validate: validator.New(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := requestLogger(r.Context(), h.logger)

	var req api.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid request body: expected JSON with a numeric lending_rate")
		h.recordOutcome(r, "invalid_body", start)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Missing required field: lending_rate")
		h.recordOutcome(r, "missing_field", start)
		return
	}

	forecast, err := h.sim.Predict(*req.LendingRate)
	if err != nil {
		logger.Error("simulation failed",
			slog.Float64("lending_rate", *req.LendingRate),
			slog.String("error", err.Error()))
		h.renderError(w, r, http.StatusInternalServerError, "One or more models failed to load")
		h.recordOutcome(r, "models_not_loaded", start)
		return
	}

	logger.Info("simulation served",
		slog.Float64("lending_rate", *req.LendingRate),
		slog.Float64("inflation", forecast.Inflation),
		slog.Float64("gdp_growth", forecast.GDPGrowth),
		slog.Float64("unemployment_rate", forecast.UnemploymentRate))
	h.recordOutcome(r, "ok", start)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.PredictResponse{
		Inflation:        forecast.Inflation,
		GDPGrowth:        forecast.GDPGrowth,
		UnemploymentRate: forecast.UnemploymentRate,
	})
}

func (h *PredictHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, api.ErrorResponse{Error: message})
}

func (h *PredictHandler) recordOutcome(r *http.Request, outcome string, start time.Time) {
	if h.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	h.metrics.PredictionsTotal.Add(r.Context(), 1, attrs)
	h.metrics.PredictionDuration.Record(r.Context(), time.Since(start).Seconds(), attrs)
}
