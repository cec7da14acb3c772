package gesture

import (
	"time"

	"mudra/internal/detector"
)

// PinchResult reports the pinch state of one finger for one update.
type PinchResult struct {
	IsPinching bool    `json:"is_pinching"`
	Triggered  bool    `json:"pinch_triggered"`
	Distance   float64 `json:"distance"`
}

// PinchState tracks one finger's pinch hold timer and trigger latch.
// The zero value is ready to use.
type PinchState struct {
	holdStart time.Time // zero while the pinch is open
	latched   bool
}

// Update evaluates the thumb-to-fingertip distance against the threshold and
// advances the hold timer. Depth is ignored; the pinch is a 2D gesture in the
// image plane.
//
// Triggered is true on exactly the update where the hold time first
// completes. Any update with the pinch open clears the timer and the latch,
// so a re-pinch must hold for the full time again.
func (s *PinchState) Update(now time.Time, thumbTip, fingerTip detector.Point3D, cfg *Config) PinchResult {
	distance := detector.Distance2D(thumbTip, fingerTip)
	if distance >= cfg.PinchThreshold {
		s.Reset()
		return PinchResult{Distance: distance}
	}

	result := PinchResult{IsPinching: true, Distance: distance}

	if s.holdStart.IsZero() {
		s.holdStart = now
		return result
	}

	held := now.Sub(s.holdStart)
	if held < 0 {
		held = 0 // clock regression must not feed the hold timer
	}

	if held >= cfg.PinchHoldTime && !s.latched {
		s.latched = true
		result.Triggered = true
	}

	return result
}

// Reset returns the state to open, clearing the timer and the latch.
func (s *PinchState) Reset() {
	s.holdStart = time.Time{}
	s.latched = false
}
