package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mudra/internal/app"
	"mudra/internal/detector"
	"mudra/internal/server"
	"mudra/internal/store"
	"mudra/internal/track"
	"mudra/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	dbPath := flag.String("db", "", "database path (default ~/.mudra/mudra.db)")
	useTray := flag.Bool("tray", false, "run with a system tray icon")
	flag.Parse()

	fmt.Println("Mudra - Hand Tracking Daemon")

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".mudra")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "mudra.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Persisted tuning wins over the defaults; first run seeds the defaults.
	trackerCfg, err := st.Settings().LoadTrackerConfig()
	if errors.Is(err, store.ErrNotFound) {
		trackerCfg = track.DefaultConfig()
		if err := st.Settings().SaveTrackerConfig(trackerCfg); err != nil {
			log.Printf("Failed to seed tracker config: %v", err)
		}
	} else if err != nil {
		log.Fatalf("Failed to load tracker config: %v", err)
	}

	a, err := app.New(app.Config{
		Store:    st,
		CameraID: *cameraID,
		Tracker:  trackerCfg,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if calib, err := st.Settings().LoadCalibration(); err == nil {
		a.RestoreCalibration(calib)
		log.Println("Restored persisted calibration")
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Failed to load calibration: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Printf("Tracking pipeline not started: %v", err)
	}
	defer a.Stop()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	if *useTray {
		go func() {
			fmt.Printf("Starting server on %s\n", *addr)
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()

		t := tray.New()
		t.OnToggle(a.SetEnabled)
		t.OnResetCalibration(a.ResetCalibration)
		t.OnQuit(a.Stop)
		a.OnCycle(func(r app.CycleResult) {
			for i := range r.Hands {
				h := &r.Hands[i]
				if h.Fist.Triggered {
					t.SetLastEvent(h.Label.String() + " fist")
				}
				for f := detector.Thumb; f < detector.NumFingers; f++ {
					report := h.Fingers.Get(f)
					if report.Pinch.Triggered {
						t.SetLastEvent(h.Label.String() + " " + f.String() + " pinch")
					}
					if report.Dwell.Triggered {
						t.SetLastEvent(h.Label.String() + " " + f.String() + " dwell")
					}
				}
			}
		})
		t.Run()
		return
	}

	fmt.Printf("Starting server on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
