package track

import (
	"mudra/internal/detector"
	"mudra/internal/gesture"
)

// Point2D is a position in the normalized image plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FingerReport is the per-finger slice of a cycle result: the calibrated
// pointer position plus the pinch and dwell states.
type FingerReport struct {
	Pointer Point2D             `json:"pointer"`
	Pinch   gesture.PinchResult `json:"pinch"`
	Dwell   gesture.DwellResult `json:"dwell"`
}

// FingerSet holds one report per finger. The shape is fixed so the output
// contract is checked at compile time; the thumb's pinch entry is always
// present and always false.
type FingerSet struct {
	Thumb  FingerReport `json:"thumb"`
	Index  FingerReport `json:"index"`
	Middle FingerReport `json:"middle"`
	Ring   FingerReport `json:"ring"`
	Pinky  FingerReport `json:"pinky"`
}

// Get returns the report for the given finger.
func (fs *FingerSet) Get(f detector.Finger) *FingerReport {
	switch f {
	case detector.Thumb:
		return &fs.Thumb
	case detector.Index:
		return &fs.Index
	case detector.Middle:
		return &fs.Middle
	case detector.Ring:
		return &fs.Ring
	default:
		return &fs.Pinky
	}
}

// HandResult is one hand's slice of a cycle result.
type HandResult struct {
	Label   Hand               `json:"label"`
	Fist    gesture.FistResult `json:"fist"`
	Fingers FingerSet          `json:"fingers"`
}
