package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"mudra/internal/detector"
	"mudra/internal/store"
	"mudra/internal/track"
)

// runPipeline is the capture loop. It reads frames at the idle rate, and
// switches to the active rate while motion is seen. Landmark inference and
// gesture tracking only run in active mode.
func (a *App) runPipeline() {
	activeMode := false
	lastMotion := time.Now()

	ticker := time.NewTicker(time.Second / IdleFPS)
	defer ticker.Stop()

	a.mu.RLock()
	stopCh := a.stopCh
	a.mu.RUnlock()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Frame read error: %v", err)
				continue
			}

			moved, _ := a.motion.Detect(frame)
			if moved {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / ActiveFPS)
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeoutMs*time.Millisecond {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / IdleFPS)
				// Hands are gone with the motion. Run an empty cycle so
				// held gesture timers do not survive the idle gap.
				a.Observe(nil)
			}

			if !activeMode {
				frame.Close()
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Detection error: %v", err)
				continue
			}

			if _, err := a.Observe(hands); err != nil {
				log.Printf("Skipping malformed observation cycle: %v", err)
			}
		}
	}
}

// runCycle feeds one observation into the tracker under a single timestamp
// and records any fired triggers.
func (a *App) runCycle(hands []detector.HandLandmarks) (CycleResult, error) {
	now := time.Now()

	a.mu.Lock()
	results, err := a.tracker.Process(hands, now)
	a.mu.Unlock()
	if err != nil {
		return CycleResult{}, err
	}

	a.recordTriggers(results)

	return CycleResult{
		Hands:        results,
		HandDetected: len(results) > 0,
		Timestamp:    now.UnixMilli(),
	}, nil
}

// recordTriggers appends one event per fired trigger to the event log.
func (a *App) recordTriggers(results []track.HandResult) {
	if a.config.Store == nil {
		return
	}
	events := a.config.Store.Events()

	for i := range results {
		h := &results[i]

		if h.Fist.Triggered {
			a.recordEvent(events, h.Label, "", store.EventFist)
		}

		for f := detector.Thumb; f < detector.NumFingers; f++ {
			report := h.Fingers.Get(f)
			if report.Pinch.Triggered {
				a.recordEvent(events, h.Label, f.String(), store.EventPinch)
			}
			if report.Dwell.Triggered {
				a.recordEvent(events, h.Label, f.String(), store.EventDwell)
			}
		}
	}
}

func (a *App) recordEvent(events *store.EventRepository, hand track.Hand, finger string, kind store.EventKind) {
	e := &store.Event{
		ID:     uuid.New().String(),
		Hand:   hand.String(),
		Finger: finger,
		Kind:   kind,
	}
	if err := events.Record(e); err != nil {
		log.Printf("Failed to record %s event: %v", kind, err)
	}
}

// publish hands a cycle result to every registered subscriber.
func (a *App) publish(result CycleResult) {
	a.mu.RLock()
	fns := a.cycleFns
	a.mu.RUnlock()

	for _, fn := range fns {
		fn(result)
	}
}
