package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/internal/domain/types"
)

// PokemonDependencies defines the lookup operations.
type PokemonDependencies interface {
	Lookup(ctx context.Context, query string) (types.LookupResult, error)
	Effectiveness(ctx context.Context, query, attacker string) (types.Breakdown, error)
}

// PokemonHandler serves name and id lookups.
type PokemonHandler struct {
	deps PokemonDependencies
}

// NewPokemonHandler creates a new lookup handler.
func NewPokemonHandler(deps PokemonDependencies) *PokemonHandler {
	return &PokemonHandler{deps: deps}
}

// HandleLookup handles GET /pokemon/{query}.
func (h *PokemonHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	const op = "api.lookup"
	query := strings.TrimSpace(r.PathValue("query"))
	if query == "" {
		writeServiceError(w, NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Lookup(r.Context(), query)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleEffectiveness handles GET /pokemon/{query}/effectiveness?type=ice.
func (h *PokemonHandler) HandleEffectiveness(w http.ResponseWriter, r *http.Request) {
	const op = "api.effectiveness"
	query := strings.TrimSpace(r.PathValue("query"))
	attacker := strings.TrimSpace(r.URL.Query().Get("type"))
	if query == "" || attacker == "" {
		writeServiceError(w, NewKind(op, ErrBadRequest))
		return
	}
	b, err := h.deps.Effectiveness(r.Context(), query, attacker)
	switch {
	case errors.Is(err, typechart.ErrUnknownType):
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}
