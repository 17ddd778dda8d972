package services

import (
	"time"
)

// HealthStatus is the readiness snapshot served on the health endpoint
type HealthStatus struct {
	Status         string    `json:"status"`
	ModelsLoaded   bool      `json:"models_loaded"`
	MissingTargets []string  `json:"missing_targets,omitempty"`
	LagSource      string    `json:"lag_source"`
	UptimeSeconds  float64   `json:"uptime_seconds"`
	Timestamp      time.Time `json:"timestamp"`
}

// HealthService reports service readiness. The simulation service is the
// only dependency with failure modes worth surfacing.
type HealthService struct {
	sim       *SimulationService
	startedAt time.Time
}

// NewHealthService creates a health service
func NewHealthService(sim *SimulationService) *HealthService {
	return &HealthService{sim: sim, startedAt: time.Now()}
}

// Check returns the current readiness snapshot. The service is degraded,
// not down, when pipelines are missing: the process serves requests and
// reports the failure per simulation.
func (h *HealthService) Check() HealthStatus {
	status := "healthy"
	missing := h.sim.MissingTargets()
	if len(missing) > 0 {
		status = "degraded"
	}
	return HealthStatus{
		Status:         status,
		ModelsLoaded:   h.sim.Healthy(),
		MissingTargets: missing,
		LagSource:      h.sim.Lags().Source,
		UptimeSeconds:  time.Since(h.startedAt).Seconds(),
		Timestamp:      time.Now().UTC(),
	}
}
