package rest

import (
	"net/http"
	"time"
)

// storageHealth reports whether catalog persistence is still working.
type storageHealth interface {
	Degraded() bool
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	storage storageHealth
	driver  string
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(storage storageHealth, driver, version string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver, version: version}
}

// HealthResponse is the JSON response for /health, /live and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
}

// Live reports liveness. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready reports readiness: 503 once the store has fallen back to
// memory, since edits would no longer survive a restart.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.storage.Degraded() {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "degraded",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check with version and storage details.
// A degraded store keeps serving, so the status code stays 200.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	storage := CompStatus{Status: "ok", Driver: h.driver}
	overall := "ok"
	if h.storage.Degraded() {
		storage.Status = "degraded"
		overall = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: map[string]CompStatus{"storage": storage},
		Timestamp:  time.Now(),
	})
}
