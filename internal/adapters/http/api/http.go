// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/pokelookup/internal/app"
	"github.com/okian/pokelookup/internal/domain/typechart"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	PokemonDependencies
	ChartDependencies
	AdminDependencies
	StatsProvider
}

// Server wires HTTP routes for the lookup API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	pokemonHandler *PokemonHandler
	chartHandler   *ChartHandler
	adminHandler   *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		pokemonHandler: NewPokemonHandler(deps),
		chartHandler:   NewChartHandler(deps),
		adminHandler:   NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /types", MetricsMiddleware(s.chartHandler.HandleTypes, "types"))
	mux.HandleFunc("GET /chart", MetricsMiddleware(s.chartHandler.HandleChart, "chart"))
	mux.HandleFunc("GET /pokemon/{query}", MetricsMiddleware(s.pokemonHandler.HandleLookup, "pokemon"))
	mux.HandleFunc("GET /pokemon/{query}/effectiveness", MetricsMiddleware(s.pokemonHandler.HandleEffectiveness, "effectiveness"))
	mux.HandleFunc("POST /admin/reload", MetricsMiddleware(s.adminHandler.HandleReload, "admin_reload"))
	mux.HandleFunc("POST /admin/refresh", MetricsMiddleware(s.adminHandler.HandleRefresh, "admin_refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and domain error kinds to responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, typechart.ErrUnknownType):
		writeError(w, http.StatusBadRequest, "unknown_type", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrRosterNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case errors.Is(err, service.ErrNoStore), errors.Is(err, service.ErrNoFetcher), errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
