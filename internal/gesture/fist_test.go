package gesture

import (
	"testing"
	"time"

	"mudra/internal/detector"
)

func TestFistState_PoseClassification(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		lm   detector.HandLandmarks
		want bool
	}{
		{"fist", detector.FistLandmarks("Right"), true},
		{"open hand", detector.OpenHandLandmarks("Right"), false},
		{"pinch", detector.PinchLandmarks("Right"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s FistState
			res := s.Update(testBase, &tt.lm, &cfg)
			if res.IsFist != tt.want {
				t.Errorf("is_fist = %v, want %v", res.IsFist, tt.want)
			}
		})
	}
}

func TestFistState_SingleExtendedFingerBreaksFist(t *testing.T) {
	cfg := DefaultConfig()
	open := detector.OpenHandLandmarks("Right")

	for _, f := range []detector.Finger{detector.Index, detector.Middle, detector.Ring, detector.Pinky} {
		t.Run(f.String(), func(t *testing.T) {
			lm := detector.FistLandmarks("Right")
			lm.Points[f.Tip()] = open.Points[f.Tip()]

			var s FistState
			res := s.Update(testBase, &lm, &cfg)
			if res.IsFist {
				t.Errorf("is_fist = true with %s extended", f)
			}
		})
	}
}

func TestFistState_HoldAndLatch(t *testing.T) {
	cfg := DefaultConfig()
	var s FistState
	fist := detector.FistLandmarks("Left")

	res := s.Update(testBase, &fist, &cfg)
	if !res.IsFist || res.Triggered {
		t.Fatalf("first frame: %+v", res)
	}

	res = s.Update(testBase.Add(cfg.FistHoldTime/2), &fist, &cfg)
	if res.Triggered {
		t.Error("fist triggered before hold time")
	}

	res = s.Update(testBase.Add(cfg.FistHoldTime), &fist, &cfg)
	if !res.Triggered {
		t.Fatal("fist did not trigger after hold time")
	}

	res = s.Update(testBase.Add(2*cfg.FistHoldTime), &fist, &cfg)
	if res.Triggered {
		t.Error("fist re-triggered while still held")
	}
}

func TestFistState_OpenHandResets(t *testing.T) {
	cfg := DefaultConfig()
	var s FistState
	fist := detector.FistLandmarks("Left")
	open := detector.OpenHandLandmarks("Left")

	s.Update(testBase, &fist, &cfg)
	res := s.Update(testBase.Add(cfg.FistHoldTime), &fist, &cfg)
	if !res.Triggered {
		t.Fatal("setup: fist did not trigger")
	}

	now := testBase.Add(cfg.FistHoldTime + 100*time.Millisecond)
	res = s.Update(now, &open, &cfg)
	if res.IsFist || res.Triggered {
		t.Fatalf("open hand reported %+v", res)
	}

	// The full hold period is required again.
	s.Update(now.Add(33*time.Millisecond), &fist, &cfg)
	res = s.Update(now.Add(33*time.Millisecond+cfg.FistHoldTime), &fist, &cfg)
	if !res.Triggered {
		t.Error("fist did not re-trigger after a fresh hold period")
	}
}

func TestFistState_FoldRatioConfigurable(t *testing.T) {
	// With a tiny fold ratio even a tight fist fails the fold test.
	cfg := DefaultConfig()
	cfg.FistFoldRatio = 0.1

	var s FistState
	fist := detector.FistLandmarks("Right")
	res := s.Update(testBase, &fist, &cfg)
	if res.IsFist {
		t.Error("fold ratio 0.1 should reject the fist pose")
	}

	// With a huge ratio even an open hand passes.
	cfg.FistFoldRatio = 10
	var s2 FistState
	open := detector.OpenHandLandmarks("Right")
	res = s2.Update(testBase, &open, &cfg)
	if !res.IsFist {
		t.Error("fold ratio 10 should accept the open hand")
	}
}
