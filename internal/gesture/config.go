// Package gesture implements the stateful pinch, fist and dwell detectors
// that turn smoothed hand landmarks into debounced input events.
//
// Each detector is a small hysteresis state machine driven by a wall-clock
// timestamp supplied by the caller: a condition must hold continuously for a
// configured time before its trigger fires, the trigger fires on exactly one
// update (edge-triggered, latched), and losing the condition for a single
// update resets both the timer and the latch.
package gesture

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the tuning knobs for all three detectors.
// Values are fixed at construction; there is no hot-reload.
type Config struct {
	// PinchThreshold is the normalized thumb-to-fingertip distance below
	// which a pinch is considered closed.
	PinchThreshold float64 `json:"pinch_threshold"`

	// PinchHoldTime is how long a pinch must stay closed before it fires.
	PinchHoldTime time.Duration `json:"pinch_hold_time"`

	// FistFoldRatio scales the fold test: a finger counts as folded when
	// its tip is closer to the wrist than FistFoldRatio times its MCP
	// joint's distance to the wrist.
	FistFoldRatio float64 `json:"fist_fold_ratio"`

	// FistHoldTime is how long a fist must be held before it fires.
	FistHoldTime time.Duration `json:"fist_hold_time"`

	// DwellTime is how long a fingertip must stay within DwellRadius of
	// its anchor before a dwell fires. The dwell re-fires every DwellTime
	// while the finger remains still.
	DwellTime time.Duration `json:"dwell_time"`

	// DwellRadius is the normalized distance a fingertip may drift from
	// its anchor without resetting the dwell timer.
	DwellRadius float64 `json:"dwell_radius"`
}

// DefaultConfig returns the tuning used by the reference hardware setup.
func DefaultConfig() Config {
	return Config{
		PinchThreshold: 0.05,
		PinchHoldTime:  100 * time.Millisecond,
		FistFoldRatio:  1.1,
		FistHoldTime:   500 * time.Millisecond,
		DwellTime:      time.Second,
		DwellRadius:    0.03,
	}
}

// ErrInvalidConfig is returned by Validate for out-of-range values.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Validate checks that all tuning values are usable.
func (c Config) Validate() error {
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("%w: pinch threshold %f must be positive", ErrInvalidConfig, c.PinchThreshold)
	}
	if c.PinchHoldTime < 0 {
		return fmt.Errorf("%w: pinch hold time %s must not be negative", ErrInvalidConfig, c.PinchHoldTime)
	}
	if c.FistFoldRatio <= 0 {
		return fmt.Errorf("%w: fist fold ratio %f must be positive", ErrInvalidConfig, c.FistFoldRatio)
	}
	if c.FistHoldTime < 0 {
		return fmt.Errorf("%w: fist hold time %s must not be negative", ErrInvalidConfig, c.FistHoldTime)
	}
	if c.DwellTime <= 0 {
		return fmt.Errorf("%w: dwell time %s must be positive", ErrInvalidConfig, c.DwellTime)
	}
	if c.DwellRadius <= 0 {
		return fmt.Errorf("%w: dwell radius %f must be positive", ErrInvalidConfig, c.DwellRadius)
	}
	return nil
}
