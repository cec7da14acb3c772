package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenHandLandmarks returns a preset hand with all fingers extended and the
// thumb well clear of every fingertip: no pinch, no fist.
func OpenHandLandmarks(handedness string) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return lm
}

// PinchLandmarks returns a preset hand pinching with the index finger: the
// thumb tip sits within 0.01 of the index tip while the other fingers stay
// extended.
func PinchLandmarks(handedness string) HandLandmarks {
	lm := OpenHandLandmarks(handedness)

	lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.62, Z: 0.02}
	lm.Points[ThumbIP] = Point3D{X: 0.59, Y: 0.48, Z: 0.02}
	lm.Points[ThumbTip] = Point3D{X: 0.585, Y: 0.345, Z: 0.02}

	return lm
}

// FistLandmarks returns a preset hand with all four non-thumb fingers folded
// toward the palm (each tip closer to the wrist than its MCP joint) and the
// thumb wrapped outside, clear of the index tip.
func FistLandmarks(handedness string) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb wrapped across the folded fingers
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.77, Z: 0.01}
	lm.Points[ThumbMCP] = Point3D{X: 0.59, Y: 0.75, Z: 0.01}
	lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.73, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.72, Z: 0.0}

	// Index folded: tip pulled back toward the palm
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.64, Z: -0.02}
	lm.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.68, Z: -0.03}
	lm.Points[IndexTip] = Point3D{X: 0.53, Y: 0.72, Z: -0.03}

	// Middle folded
	lm.Points[MiddleMCP] = Point3D{X: 0.51, Y: 0.67, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.63, Z: -0.02}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.67, Z: -0.03}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.71, Z: -0.03}

	// Ring folded
	lm.Points[RingMCP] = Point3D{X: 0.47, Y: 0.68, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.47, Y: 0.64, Z: -0.02}
	lm.Points[RingDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.03}
	lm.Points[RingTip] = Point3D{X: 0.47, Y: 0.72, Z: -0.03}

	// Pinky folded
	lm.Points[PinkyMCP] = Point3D{X: 0.43, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.43, Y: 0.67, Z: -0.02}
	lm.Points[PinkyDIP] = Point3D{X: 0.44, Y: 0.70, Z: -0.03}
	lm.Points[PinkyTip] = Point3D{X: 0.44, Y: 0.73, Z: -0.03}

	return lm
}
