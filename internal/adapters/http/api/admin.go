package api

import (
	"context"
	"net/http"

	"github.com/okian/pokelookup/internal/domain/types"
)

// AdminDependencies defines the roster maintenance operations.
type AdminDependencies interface {
	Reload(ctx context.Context) error
	Refresh(ctx context.Context) (types.RefreshReport, error)
}

// AdminHandler serves hot reload and refresh.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleReload handles POST /admin/reload.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Reload(r.Context()); err != nil {
		writeServiceError(w, Wrap("api.reload", err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "reloaded"})
}

// HandleRefresh handles POST /admin/refresh. The download runs in the
// request; clients should allow for the whole pokedex range.
func (h *AdminHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeServiceError(w, Wrap("api.refresh", err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
