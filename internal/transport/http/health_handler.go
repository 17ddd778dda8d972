package http

import (
	"net/http"

	"github.com/go-chi/render"

	"policysim/internal/services"
)

// HealthHandler serves the readiness endpoint
type HealthHandler struct {
	health *services.HealthService
}

// NewHealthHandler creates the handler
func NewHealthHandler(health *services.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health handles GET /api/health. A degraded service still answers 200:
// readiness detail lives in the body, and the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.health.Check())
}

// Ready handles GET /api/health/ready. Unlike the liveness endpoint it
// answers 503 until every pipeline is loaded, for load balancers that
// gate on status codes.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.health.Check()
	code := http.StatusOK
	if !status.ModelsLoaded {
		code = http.StatusServiceUnavailable
	}
	render.Status(r, code)
	render.JSON(w, r, status)
}
