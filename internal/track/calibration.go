package track

import (
	"errors"
	"fmt"

	"mudra/internal/detector"
)

// Calibration is a global 2D offset added to smoothed landmark positions,
// mapping "where the hand is" to "where the pointer should be".
type Calibration struct {
	Offset  Point2D `json:"offset"`
	Enabled bool    `json:"enabled"`
}

// ErrNoLandmarks is returned when Calibrate is called without a landmark set.
var ErrNoLandmarks = errors.New("no landmarks to calibrate against")

// ErrLandmarkIndex is returned for a reference landmark index outside the
// 21-point set.
var ErrLandmarkIndex = errors.New("landmark index out of range")

// Calibrate sets the offset so that the given reference landmark (typically
// the index fingertip, 8) maps onto the target position, and enables the
// calibration. The landmarks should be the current smoothed, uncalibrated
// set, as returned by Smoothed.
func (t *Tracker) Calibrate(lm *detector.HandLandmarks, target Point2D, landmarkIndex int) error {
	if lm == nil {
		return ErrNoLandmarks
	}
	if landmarkIndex < 0 || landmarkIndex >= detector.NumLandmarks {
		return fmt.Errorf("%w: %d", ErrLandmarkIndex, landmarkIndex)
	}

	p := lm.Points[landmarkIndex]
	t.calib = Calibration{
		Offset:  Point2D{X: target.X - p.X, Y: target.Y - p.Y},
		Enabled: true,
	}
	return nil
}

// SetCalibration restores a previously saved calibration.
func (t *Tracker) SetCalibration(c Calibration) {
	t.calib = c
}

// ResetCalibration zeroes the offset and disables the calibration.
func (t *Tracker) ResetCalibration() {
	t.calib = Calibration{}
}

// Calibration returns the current calibration.
func (t *Tracker) Calibration() Calibration {
	return t.calib
}
