package api

import (
	"net/http"

	"github.com/okian/pokelookup/internal/domain/types"
)

// ChartDependencies exposes the static chart data.
type ChartDependencies interface {
	Types() []string
	Chart() types.Chart
}

// ChartHandler serves the attribute universe and the multiplier matrix.
type ChartHandler struct {
	deps ChartDependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ChartDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleTypes handles GET /types.
func (h *ChartHandler) HandleTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"types": h.deps.Types()})
}

// HandleChart handles GET /chart.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Chart())
}
