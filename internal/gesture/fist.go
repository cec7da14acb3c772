package gesture

import (
	"time"

	"mudra/internal/detector"
)

// FistResult reports the fist state of one hand for one update.
type FistResult struct {
	IsFist    bool `json:"is_fist"`
	Triggered bool `json:"fist_triggered"`
}

// FistState tracks one hand's fist hold timer and trigger latch.
// The zero value is ready to use.
type FistState struct {
	holdStart time.Time
	latched   bool
}

// foldFingers are the fingers whose fold state decides a fist. The thumb is
// excluded: it wraps outside the fingers and fails the tip-vs-MCP test even
// in a tight fist.
var foldFingers = [4]detector.Finger{detector.Index, detector.Middle, detector.Ring, detector.Pinky}

// Update evaluates the fold test for all four non-thumb fingers and advances
// the hold timer. Hold, latch and reset behave exactly as in PinchState.
func (s *FistState) Update(now time.Time, lm *detector.HandLandmarks, cfg *Config) FistResult {
	if !isFist(lm, cfg.FistFoldRatio) {
		s.Reset()
		return FistResult{}
	}

	result := FistResult{IsFist: true}

	if s.holdStart.IsZero() {
		s.holdStart = now
		return result
	}

	held := now.Sub(s.holdStart)
	if held < 0 {
		held = 0
	}

	if held >= cfg.FistHoldTime && !s.latched {
		s.latched = true
		result.Triggered = true
	}

	return result
}

// Reset returns the state to open, clearing the timer and the latch.
func (s *FistState) Reset() {
	s.holdStart = time.Time{}
	s.latched = false
}

// isFist reports whether all four non-thumb fingers are folded.
func isFist(lm *detector.HandLandmarks, foldRatio float64) bool {
	for _, f := range foldFingers {
		if !fingerFolded(lm, f, foldRatio) {
			return false
		}
	}
	return true
}

// fingerFolded reports whether a finger's tip has pulled back toward the
// wrist past its MCP joint, within the configured ratio.
func fingerFolded(lm *detector.HandLandmarks, f detector.Finger, foldRatio float64) bool {
	wrist := lm.Points[detector.Wrist]
	tipToWrist := detector.Distance3D(lm.Points[f.Tip()], wrist)
	mcpToWrist := detector.Distance3D(lm.Points[f.MCP()], wrist)
	return tipToWrist < mcpToWrist*foldRatio
}
