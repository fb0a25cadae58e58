// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/incluscore/incluscore/pkg/metrics"
)

// Service identity reported on the root endpoint.
const (
	serviceName    = "IncluScore API"
	serviceVersion = "1.0.0"
)

// InfoHandler reports service identity and collaborator status on the root
// path.
type InfoHandler struct {
	deps Dependencies
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(deps Dependencies) *InfoHandler {
	return &InfoHandler{deps: deps}
}

type infoResponse struct {
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	Status           string   `json:"status"`
	ModelLoaded      bool     `json:"modelLoaded"`
	StorageConnected bool     `json:"storageConnected"`
	Endpoints        []string `json:"endpoints"`
}

// HandleInfo handles GET / requests.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, infoResponse{
		Name:             serviceName,
		Version:          serviceVersion,
		Status:           "healthy",
		ModelLoaded:      h.deps.Ready(),
		StorageConnected: h.deps.StorageHealthy(r.Context()),
		Endpoints: []string{
			"/score",
			"/users/{user_id}",
			"/users/{user_id}/refresh-score",
			"/ws/{user_id}",
			"/healthz",
			"/metrics",
			"/stats",
		},
	})
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status           string `json:"status"`
	ModelLoaded      bool   `json:"modelLoaded"`
	StorageConnected bool   `json:"storageConnected"`
}

// HandleHealth handles GET /healthz requests. The service is degraded, not
// down, when only storage is unreachable: pure scoring still works.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	modelLoaded := h.deps.Ready()
	storageConnected := h.deps.StorageHealthy(r.Context())

	status := "ok"
	code := http.StatusOK
	switch {
	case !modelLoaded:
		status = "unavailable"
		code = http.StatusServiceUnavailable
	case !storageConnected:
		status = "degraded"
	}

	writeJSON(w, code, healthResponse{
		Status:           status,
		ModelLoaded:      modelLoaded,
		StorageConnected: storageConnected,
	})
}

// HandleMetrics serves Prometheus metrics from our custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
