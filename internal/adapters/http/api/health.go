package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pokelookup/pkg/metrics"
)

// ReadinessProvider reports whether a roster is loaded.
type ReadinessProvider interface {
	Ready() bool
}

// HealthHandler handles health and readiness requests.
type HealthHandler struct {
	readiness ReadinessProvider
	metrics   http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(readiness ReadinessProvider) *HealthHandler {
	return &HealthHandler{
		readiness: readiness,
		metrics:   promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz with the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleReady handles GET /readyz.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if !h.readiness.Ready() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}
