// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// refreshSuffix is the sub-route that triggers the incremental simulator.
const refreshSuffix = "/refresh-score"

// UsersHandler handles user profile and simulate requests.
type UsersHandler struct {
	deps Dependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleUsers routes /users/{user_id} and /users/{user_id}/refresh-score.
func (h *UsersHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/users/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if userID, ok := strings.CutSuffix(path, refreshSuffix); ok {
		h.handleRefreshScore(w, r, userID)
		return
	}
	h.handleGetUser(w, r, path)
}

// handleGetUser handles GET /users/{user_id} requests.
func (h *UsersHandler) handleGetUser(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	state, err := h.deps.GetUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleRefreshScore handles POST /users/{user_id}/refresh-score requests.
func (h *UsersHandler) handleRefreshScore(w http.ResponseWriter, r *http.Request, userID string) {
	const op = "api.refresh_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if !h.deps.Ready() {
		writeError(w, http.StatusServiceUnavailable, "model_unavailable", NewKind(op, ErrNotReady))
		return
	}

	result, err := h.deps.Simulate(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
