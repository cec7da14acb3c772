package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"mudra/internal/app"
	"mudra/internal/detector"
	"mudra/internal/track"
)

// CalibrationHandler manages the daemon's pointer calibration.
type CalibrationHandler struct {
	app *app.App
}

// NewCalibrationHandler creates a new CalibrationHandler with the given app.
func NewCalibrationHandler(a *app.App) *CalibrationHandler {
	return &CalibrationHandler{app: a}
}

type calibrateRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Landmark *int    `json:"landmark,omitempty"`
}

type calibrationResponse struct {
	Calibration track.Calibration `json:"calibration"`
}

// ServeHTTP routes calibration requests by method.
func (h *CalibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.calibrate(w, r)
	case http.MethodDelete:
		h.reset(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// get handles GET /api/calibration and returns the active calibration.
func (h *CalibrationHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, calibrationResponse{Calibration: h.app.Calibration()})
}

// calibrate handles POST /api/calibration. The tracked hand's chosen landmark
// is mapped onto the requested target position.
func (h *CalibrationHandler) calibrate(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	landmark := detector.IndexTip
	if req.Landmark != nil {
		landmark = *req.Landmark
	}

	err := h.app.Calibrate(track.Point2D{X: req.X, Y: req.Y}, landmark)
	if err != nil {
		if errors.Is(err, app.ErrNoHandVisible) {
			writeError(w, http.StatusConflict, "No hand visible to calibrate against")
			return
		}
		if errors.Is(err, track.ErrLandmarkIndex) {
			writeError(w, http.StatusBadRequest, "Invalid landmark index")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to calibrate")
		return
	}

	writeJSON(w, http.StatusOK, calibrationResponse{Calibration: h.app.Calibration()})
}

// reset handles DELETE /api/calibration and clears the offset.
func (h *CalibrationHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.app.ResetCalibration()
	writeJSON(w, http.StatusOK, calibrationResponse{Calibration: h.app.Calibration()})
}
