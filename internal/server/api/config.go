// Package api provides the HTTP API handlers for the tracking daemon.
package api

import (
	"encoding/json"
	"net/http"

	"mudra/internal/app"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ConfigHandler serves the active tracker tuning.
type ConfigHandler struct {
	app *app.App
}

// NewConfigHandler creates a new ConfigHandler with the given app.
func NewConfigHandler(a *app.App) *ConfigHandler {
	return &ConfigHandler{app: a}
}

// ServeHTTP handles GET /api/config.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.app.TrackerConfig())
}
