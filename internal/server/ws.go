package server

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"mudra/internal/app"
	"mudra/internal/detector"
	"mudra/internal/track"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// clientMessage is the envelope clients send on either websocket.
type clientMessage struct {
	Type string `json:"type"`

	// Calibrate fields.
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Landmark *int    `json:"landmark,omitempty"`

	// Frame payload, base64-encoded JPEG.
	Data string `json:"data,omitempty"`
}

// TrackingHandler broadcasts the daemon's own recognition cycles to all
// connected websocket clients. Clients may send calibrate messages, which act
// on the daemon's main tracking session.
type TrackingHandler struct {
	app     *app.App
	clients map[*websocket.Conn]*sync.Mutex
	mu      sync.RWMutex
}

// NewTrackingHandler creates a TrackingHandler subscribed to the app's
// recognition cycles.
func NewTrackingHandler(a *app.App) *TrackingHandler {
	h := &TrackingHandler{
		app:     a,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	a.OnCycle(h.broadcast)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		h.handleMessage(conn, &msg)
	}
}

func (h *TrackingHandler) handleMessage(conn *websocket.Conn, msg *clientMessage) {
	switch msg.Type {
	case "calibrate":
		landmark := detector.IndexTip
		if msg.Landmark != nil {
			landmark = *msg.Landmark
		}
		if err := h.app.Calibrate(track.Point2D{X: msg.X, Y: msg.Y}, landmark); err != nil {
			h.send(conn, map[string]any{"type": "error", "error": err.Error()})
			return
		}
		h.send(conn, map[string]any{"type": "calibrated", "calibration": h.app.Calibration()})
	case "reset_calibration":
		h.app.ResetCalibration()
		h.send(conn, map[string]any{"type": "calibrated", "calibration": h.app.Calibration()})
	}
}

func (h *TrackingHandler) send(conn *websocket.Conn, v any) {
	h.mu.RLock()
	wmu := h.clients[conn]
	h.mu.RUnlock()
	if wmu == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	wmu.Lock()
	conn.WriteMessage(websocket.TextMessage, data)
	wmu.Unlock()
}

// broadcast sends a recognition cycle result to all connected clients.
func (h *TrackingHandler) broadcast(result app.CycleResult) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.send(conn, result)
	}
}

// FramesHandler runs a private recognition session per websocket connection:
// the client sends its own camera frames and receives cycle results back.
// Calibrate messages act on that session only.
type FramesHandler struct {
	app *app.App
}

// NewFramesHandler creates a FramesHandler backed by the given app.
func NewFramesHandler(a *app.App) *FramesHandler {
	return &FramesHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.app.NewSession()
	if err != nil {
		log.Printf("failed to create tracking session: %v", err)
		return
	}
	// The session starts with the daemon's calibration; in-band messages can
	// replace it without touching other connections.
	session.SetCalibration(h.app.Calibration())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "invalid message")
			continue
		}

		switch msg.Type {
		case "frame":
			h.handleFrame(conn, session, &msg)
		case "calibrate":
			h.handleCalibrate(conn, session, &msg)
		case "reset_calibration":
			session.ResetCalibration()
			h.send(conn, map[string]any{"type": "calibrated", "calibration": session.Calibration()})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func (h *FramesHandler) handleFrame(conn *websocket.Conn, session *track.Tracker, msg *clientMessage) {
	raw, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		h.sendError(conn, "invalid frame encoding")
		return
	}

	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if err == nil {
			mat.Close()
		}
		h.sendError(conn, "invalid frame image")
		return
	}

	hands, err := h.app.Detector().Detect(&mat)
	mat.Close()
	if err != nil {
		h.sendError(conn, "detection failed")
		return
	}

	now := time.Now()
	results, err := session.Process(hands, now)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.send(conn, app.CycleResult{
		Hands:        results,
		HandDetected: len(results) > 0,
		Timestamp:    now.UnixMilli(),
	})
}

func (h *FramesHandler) handleCalibrate(conn *websocket.Conn, session *track.Tracker, msg *clientMessage) {
	landmark := detector.IndexTip
	if msg.Landmark != nil {
		landmark = *msg.Landmark
	}

	target := track.Point2D{X: msg.X, Y: msg.Y}
	for _, hand := range []track.Hand{track.Left, track.Right} {
		points, ok := session.Smoothed(hand)
		if !ok {
			continue
		}
		lm := detector.HandLandmarks{Points: points, Handedness: hand.String()}
		if err := session.Calibrate(&lm, target, landmark); err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.send(conn, map[string]any{"type": "calibrated", "calibration": session.Calibration()})
		return
	}
	h.sendError(conn, app.ErrNoHandVisible.Error())
}

func (h *FramesHandler) send(conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	conn.WriteMessage(websocket.TextMessage, data)
}

func (h *FramesHandler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, map[string]any{"type": "error", "error": message})
}
