// Package track turns per-frame hand observations into stabilized pointer
// positions and debounced gesture events. It owns the per-hand slot state:
// one EMA smoother and one bundle of gesture state machines per handedness,
// plus the global calibration offset.
package track

import (
	"errors"
	"fmt"

	"mudra/internal/detector"
)

// ErrInvalidAlpha is returned when the smoothing weight is outside (0,1).
var ErrInvalidAlpha = errors.New("smoothing alpha outside (0,1)")

// Smoother applies an exponential moving average to a full 21-point landmark
// set, each point and coordinate filtered independently:
//
//	smoothed = alpha*raw + (1-alpha)*previous
//
// A low alpha trades responsiveness for stability. The first update after
// construction or Reset passes the input through unchanged.
type Smoother struct {
	alpha       float64
	prev        [detector.NumLandmarks]detector.Point3D
	initialized bool
}

// NewSmoother creates a Smoother with the given weight. Alpha is fixed for
// the lifetime of the instance.
func NewSmoother(alpha float64) (*Smoother, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidAlpha, alpha)
	}
	return &Smoother{alpha: alpha}, nil
}

// Update filters a raw landmark set and returns the smoothed set.
func (s *Smoother) Update(points [detector.NumLandmarks]detector.Point3D) [detector.NumLandmarks]detector.Point3D {
	if !s.initialized {
		s.prev = points
		s.initialized = true
		return points
	}

	a := s.alpha
	for i := range points {
		s.prev[i].X = a*points[i].X + (1-a)*s.prev[i].X
		s.prev[i].Y = a*points[i].Y + (1-a)*s.prev[i].Y
		s.prev[i].Z = a*points[i].Z + (1-a)*s.prev[i].Z
	}
	return s.prev
}

// Reset returns the smoother to its uninitialized state.
func (s *Smoother) Reset() {
	s.initialized = false
}

// Initialized reports whether the smoother has seen an update since the last
// reset.
func (s *Smoother) Initialized() bool {
	return s.initialized
}
