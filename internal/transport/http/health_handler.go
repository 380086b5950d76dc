package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"esglens/internal/services"
)

// HealthHandler answers liveness and readiness probes
type HealthHandler struct {
	data    *services.DataService
	version string
	started time.Time
}

// NewHealthHandler creates the health handler
func NewHealthHandler(data *services.DataService, version string) *HealthHandler {
	return &HealthHandler{data: data, version: version, started: time.Now()}
}

// GetHealth reports process health and dataset readiness. The endpoint
// stays 200 while the dataset is missing so orchestration can probe the
// process before first load; readiness is carried in the body.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.data.Status()

	render.JSON(w, r, map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"uptime":         time.Since(h.started).Round(time.Second).String(),
		"dataset_loaded": status.Loaded,
		"records":        status.Records,
	})
}
