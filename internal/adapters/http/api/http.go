// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/incluscore/incluscore/internal/adapters/repository"
	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/model"
	"github.com/incluscore/incluscore/internal/domain/scoring"
	"github.com/incluscore/incluscore/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Score runs the pure scoring pipeline on a feature vector.
	Score(ctx context.Context, v feature.Vector) (types.ScoreResult, error)

	// Simulate applies one positive event to a stored user and re-scores.
	Simulate(ctx context.Context, userID string) (types.SimulationResult, error)

	// GetUser returns the stored financial state for a user.
	GetUser(ctx context.Context, userID string) (model.UserFinancialState, error)

	// Ready reports whether the scoring model is loaded.
	Ready() bool

	// StorageHealthy reports whether the state store is reachable.
	StorageHealthy(ctx context.Context) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	infoHandler   *InfoHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	scoreHandler  *ScoreHandler
	usersHandler  *UsersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		infoHandler:   NewInfoHandler(deps),
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider),
		scoreHandler:  NewScoreHandler(deps),
		usersHandler:  NewUsersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/", MetricsMiddleware(s.infoHandler.HandleInfo, "info"))
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleUsers, "users"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// writeDomainError translates domain error kinds to wire responses. A
// validation failure is the caller's to fix; model and storage outages are
// surfaced as-is with no retry here.
func writeDomainError(w http.ResponseWriter, err error) {
	var oor *feature.OutOfRangeError
	switch {
	case errors.As(err, &oor):
		writeError(w, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, scoring.ErrModelNotReady):
		writeError(w, http.StatusServiceUnavailable, "model_unavailable", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err)
	case errors.Is(err, repository.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
