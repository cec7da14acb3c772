package gesture

import (
	"time"

	"mudra/internal/detector"
)

// DwellResult reports the dwell progress of one finger for one update.
type DwellResult struct {
	Progress  float64 `json:"dwell_progress"` // 0.0 .. 1.0
	Triggered bool    `json:"dwell_triggered"`
}

// DwellState tracks one finger's dwell anchor and timer.
// The zero value is ready to use.
type DwellState struct {
	anchor   detector.Point3D
	anchored bool
	start    time.Time
}

// Update advances the dwell timer for the given fingertip position.
//
// Moving beyond the dwell radius relocates the anchor to the current position
// and restarts the timer. Reaching full progress fires Triggered and restarts
// the timer with the anchor retained, so an uninterrupted hold re-fires every
// DwellTime.
func (s *DwellState) Update(now time.Time, tip detector.Point3D, cfg *Config) DwellResult {
	if !s.anchored || detector.Distance2D(s.anchor, tip) > cfg.DwellRadius {
		s.anchor = tip
		s.anchored = true
		s.start = now
		return DwellResult{}
	}

	elapsed := now.Sub(s.start)
	if elapsed < 0 {
		elapsed = 0
	}

	progress := float64(elapsed) / float64(cfg.DwellTime)
	if progress >= 1 {
		// Restart the period but keep the anchor: repeat-fire, not one-shot.
		s.start = now
		return DwellResult{Progress: 1, Triggered: true}
	}

	return DwellResult{Progress: progress}
}

// Reset discards the anchor and timer.
func (s *DwellState) Reset() {
	s.anchor = detector.Point3D{}
	s.anchored = false
	s.start = time.Time{}
}
