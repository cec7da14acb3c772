package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"mudra/internal/detector"
	"mudra/internal/track"
)

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode message %s: %v", data, err)
	}
}

func TestWS_TrackingBroadcast(t *testing.T) {
	a := newTestApp(t)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, ts, "/ws/tracking")

	// Registration happens after the upgrade returns on the server side.
	time.Sleep(100 * time.Millisecond)

	if _, err := a.Observe([]detector.HandLandmarks{detector.OpenHandLandmarks("Right")}); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	var cycle struct {
		Hands        []json.RawMessage `json:"hands"`
		HandDetected bool              `json:"hand_detected"`
		Timestamp    int64             `json:"timestamp"`
	}
	readJSON(t, conn, &cycle)

	if !cycle.HandDetected {
		t.Error("broadcast cycle has hand_detected = false")
	}
	if len(cycle.Hands) != 1 {
		t.Fatalf("broadcast cycle has %d hands, want 1", len(cycle.Hands))
	}
	if !strings.Contains(string(cycle.Hands[0]), `"label":"Right"`) {
		t.Errorf("hand result missing label: %s", cycle.Hands[0])
	}
}

func TestWS_TrackingCalibrate(t *testing.T) {
	a := newTestApp(t)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, ts, "/ws/tracking")
	time.Sleep(100 * time.Millisecond)

	if _, err := a.Observe([]detector.HandLandmarks{detector.OpenHandLandmarks("Right")}); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	// Drain the broadcast for the observed cycle.
	var discard json.RawMessage
	readJSON(t, conn, &discard)

	msg := `{"type": "calibrate", "x": 0.5, "y": 0.5}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write calibrate: %v", err)
	}

	var resp struct {
		Type        string            `json:"type"`
		Calibration track.Calibration `json:"calibration"`
	}
	readJSON(t, conn, &resp)

	if resp.Type != "calibrated" {
		t.Fatalf("response type = %q, want calibrated", resp.Type)
	}
	if !resp.Calibration.Enabled {
		t.Error("calibration not enabled after calibrate message")
	}
	if !a.Calibration().Enabled {
		t.Error("main session calibration not enabled")
	}
}

func TestWS_FramesSession(t *testing.T) {
	a := newTestApp(t)
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.OpenHandLandmarks("Left")})
	a.SetDetector(mock)

	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, ts, "/ws/frames")

	// Any valid JPEG will do; the mock detector ignores pixels.
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer mat.Close()
	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	frame := base64.StdEncoding.EncodeToString(buf.GetBytes())
	buf.Close()

	payload, _ := json.Marshal(map[string]string{"type": "frame", "data": frame})
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var cycle struct {
		Hands        []json.RawMessage `json:"hands"`
		HandDetected bool              `json:"hand_detected"`
	}
	readJSON(t, conn, &cycle)

	if !cycle.HandDetected || len(cycle.Hands) != 1 {
		t.Fatalf("frame cycle = %+v, want one hand", cycle)
	}

	// The per-connection session has seen a hand, so it can calibrate without
	// touching the daemon's own session.
	msg := `{"type": "calibrate", "x": 0.5, "y": 0.5}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write calibrate: %v", err)
	}

	var resp struct {
		Type        string            `json:"type"`
		Calibration track.Calibration `json:"calibration"`
	}
	readJSON(t, conn, &resp)

	if resp.Type != "calibrated" || !resp.Calibration.Enabled {
		t.Fatalf("calibrate response = %+v", resp)
	}
	if a.Calibration().Enabled {
		t.Error("session calibration leaked into the daemon's session")
	}
}

func TestWS_FramesRejectsBadPayload(t *testing.T) {
	a := newTestApp(t)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, ts, "/ws/frames")

	payload := `{"type": "frame", "data": "not base64!!"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var resp struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	readJSON(t, conn, &resp)

	if resp.Type != "error" || resp.Error == "" {
		t.Errorf("response = %+v, want error", resp)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
