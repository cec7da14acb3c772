package track

import (
	"fmt"
	"time"

	"mudra/internal/detector"
	"mudra/internal/gesture"
)

// Config holds the tracker tuning, fixed at construction.
type Config struct {
	// Alpha is the EMA smoothing weight, 0 < alpha < 1.
	Alpha float64 `json:"alpha"`

	// Gesture is the tuning for the pinch, fist and dwell detectors.
	Gesture gesture.Config `json:"gesture"`
}

// DefaultConfig returns the tuning used by the reference hardware setup.
func DefaultConfig() Config {
	return Config{
		Alpha:   0.3,
		Gesture: gesture.DefaultConfig(),
	}
}

// Validate checks the tracker and gesture tuning.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("%w: %f", ErrInvalidAlpha, c.Alpha)
	}
	return c.Gesture.Validate()
}

// slot bundles the filter and gesture state for one handedness. Losing the
// hand for a single cycle resets the whole bundle: a one-cycle discontinuity
// on reappearance is preferred over stale hold timers after occlusion.
type slot struct {
	smoother *Smoother
	smoothed [detector.NumLandmarks]detector.Point3D // last smoothed set, before calibration
	present  bool
	fist     gesture.FistState
	pinch    [detector.NumFingers]gesture.PinchState
	dwell    [detector.NumFingers]gesture.DwellState
}

func (s *slot) reset() {
	s.smoother.Reset()
	s.present = false
	s.fist.Reset()
	for i := range s.pinch {
		s.pinch[i].Reset()
	}
	for i := range s.dwell {
		s.dwell[i].Reset()
	}
}

// Tracker is one recognition session: two hand slots plus the calibration
// offset. It is not safe for concurrent use; a host running multiple camera
// sessions gives each its own Tracker.
type Tracker struct {
	cfg   Config
	calib Calibration
	slots [numHands]slot
}

// New creates a Tracker with the given tuning.
func New(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Tracker{cfg: cfg}
	for h := range t.slots {
		sm, err := NewSmoother(cfg.Alpha)
		if err != nil {
			return nil, err
		}
		t.slots[h].smoother = sm
	}
	return t, nil
}

// Config returns the tuning the tracker was built with.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Process runs one recognition cycle over the observations of a single
// captured frame. Slots whose hand is absent are fully reset; present hands
// are smoothed, calibrated and fed through the gesture detectors, all against
// the one timestamp so pinch and dwell never see different instants.
//
// An unknown or duplicated handedness label fails the whole cycle before any
// slot state is touched. An empty observation slice is the normal reset path,
// not an error.
func (t *Tracker) Process(hands []detector.HandLandmarks, now time.Time) ([]HandResult, error) {
	var seen [numHands]bool
	slots := make([]Hand, len(hands))
	for i := range hands {
		h, err := ParseHand(hands[i].Handedness)
		if err != nil {
			return nil, err
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHand, h)
		}
		seen[h] = true
		slots[i] = h
	}

	for h := Hand(0); h < numHands; h++ {
		if !seen[h] {
			t.slots[h].reset()
		}
	}

	results := make([]HandResult, 0, len(hands))
	for i := range hands {
		results = append(results, t.processHand(slots[i], &hands[i], now))
	}
	return results, nil
}

func (t *Tracker) processHand(h Hand, lm *detector.HandLandmarks, now time.Time) HandResult {
	s := &t.slots[h]
	s.present = true
	s.smoothed = s.smoother.Update(lm.Points)

	calibrated := detector.HandLandmarks{
		Points:     s.smoothed,
		Handedness: lm.Handedness,
		Score:      lm.Score,
	}
	if t.calib.Enabled {
		for i := range calibrated.Points {
			calibrated.Points[i].X += t.calib.Offset.X
			calibrated.Points[i].Y += t.calib.Offset.Y
		}
	}

	result := HandResult{
		Label: h,
		Fist:  s.fist.Update(now, &calibrated, &t.cfg.Gesture),
	}

	thumbTip := calibrated.Points[detector.ThumbTip]
	for f := detector.Finger(0); f < detector.NumFingers; f++ {
		tip := calibrated.Points[f.Tip()]
		report := result.Fingers.Get(f)
		report.Pointer = Point2D{X: tip.X, Y: tip.Y}
		if f != detector.Thumb {
			report.Pinch = s.pinch[f].Update(now, thumbTip, tip, &t.cfg.Gesture)
		}
		report.Dwell = s.dwell[f].Update(now, tip, &t.cfg.Gesture)
	}

	return result
}

// Smoothed returns the last smoothed landmark set for a hand, before the
// calibration offset, and whether that slot saw the hand in the most recent
// cycle. Calibration targets are computed against these values.
func (t *Tracker) Smoothed(h Hand) ([detector.NumLandmarks]detector.Point3D, bool) {
	if h < 0 || h >= numHands {
		return [detector.NumLandmarks]detector.Point3D{}, false
	}
	s := &t.slots[h]
	return s.smoothed, s.present && s.smoother.Initialized()
}

// Reset clears both hand slots. The calibration offset is kept; it belongs
// to the physical setup, not to a tracked hand.
func (t *Tracker) Reset() {
	for h := range t.slots {
		t.slots[h].reset()
	}
}
