// Package app wires the capture, detection and tracking pieces into the
// recognition pipeline and exposes the session-level operations (enable,
// calibrate, subscribe) the server and tray act on.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"mudra/internal/capture"
	"mudra/internal/detector"
	"mudra/internal/store"
	"mudra/internal/track"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 30
	// IdleTimeoutMs is how long without motion before dropping back to idle.
	IdleTimeoutMs = 2000
	// EventRetention is how long trigger events are kept in the store.
	EventRetention = 7 * 24 * time.Hour
)

// ErrNoHandVisible is returned by Calibrate when neither slot currently has
// a tracked hand to measure against.
var ErrNoHandVisible = errors.New("no hand visible to calibrate against")

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Tracker      track.Config
}

// CycleResult is one recognition cycle's output as published to subscribers.
type CycleResult struct {
	Hands        []track.HandResult `json:"hands"`
	HandDetected bool               `json:"hand_detected"`
	Timestamp    int64              `json:"timestamp"` // unix milliseconds
}

// App owns the recognition pipeline: camera, motion gate, hand detector and
// one tracking session, plus the subscriber list fed each cycle.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	tracker  *track.Tracker
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
	cycleFns []func(CycleResult)
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	tracker, err := track.New(config.Tracker)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.CameraID),
		motion:  capture.NewMotionDetector(motionThreshold),
		tracker: tracker,
		enabled: true,
	}

	// Try MediaPipe first, fall back to the mock detector.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled enables or disables tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// TrackerConfig returns the tuning of the main tracking session.
func (a *App) TrackerConfig() track.Config {
	return a.config.Tracker
}

// NewSession creates an independent tracking session with this app's tuning.
// Sessions share nothing: a host serving several input streams gives each
// its own.
func (a *App) NewSession() (*track.Tracker, error) {
	return track.New(a.config.Tracker)
}

// Observe feeds one observation through the main tracking session and
// publishes the result to subscribers. The pipeline calls it with detections
// from camera frames; tests and embedders can call it directly.
func (a *App) Observe(hands []detector.HandLandmarks) (CycleResult, error) {
	result, err := a.runCycle(hands)
	if err != nil {
		return CycleResult{}, err
	}
	a.publish(result)
	return result, nil
}

// OnCycle registers a callback invoked with every recognition cycle result.
// Callbacks run on the pipeline goroutine and must not block.
func (a *App) OnCycle(fn func(CycleResult)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cycleFns = append(a.cycleFns, fn)
}

// Calibrate maps the given landmark of whichever hand is currently tracked
// onto the target position. The offset is persisted when a store is
// configured.
func (a *App) Calibrate(target track.Point2D, landmarkIndex int) error {
	a.mu.Lock()

	var calibrated bool
	for _, h := range []track.Hand{track.Left, track.Right} {
		points, ok := a.tracker.Smoothed(h)
		if !ok {
			continue
		}
		lm := detector.HandLandmarks{Points: points, Handedness: h.String()}
		if err := a.tracker.Calibrate(&lm, target, landmarkIndex); err != nil {
			a.mu.Unlock()
			return err
		}
		calibrated = true
		break
	}
	calib := a.tracker.Calibration()
	a.mu.Unlock()

	if !calibrated {
		return ErrNoHandVisible
	}

	a.saveCalibration(calib)
	return nil
}

// ResetCalibration zeroes the offset and persists the cleared state.
func (a *App) ResetCalibration() {
	a.mu.Lock()
	a.tracker.ResetCalibration()
	calib := a.tracker.Calibration()
	a.mu.Unlock()

	a.saveCalibration(calib)
}

// Calibration returns the active calibration.
func (a *App) Calibration() track.Calibration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker.Calibration()
}

// RestoreCalibration loads a persisted calibration into the tracker without
// re-persisting it.
func (a *App) RestoreCalibration(c track.Calibration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker.SetCalibration(c)
}

func (a *App) saveCalibration(c track.Calibration) {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().SaveCalibration(c); err != nil {
		log.Printf("Failed to persist calibration: %v", err)
	}
}

// Start begins the recognition pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	if a.config.Store != nil {
		if removed, err := a.config.Store.Events().PruneBefore(time.Now().Add(-EventRetention)); err != nil {
			log.Printf("Failed to prune old events: %v", err)
		} else if removed > 0 {
			log.Printf("Pruned %d old events", removed)
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the recognition pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}
