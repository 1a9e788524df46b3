package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/preset"
	"comfort_simulator/internal/simulator"
	"comfort_simulator/internal/vent"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// rooflightOpenFraction is the free-area share of an opened rooflight.
const rooflightOpenFraction = 0.5

// Handler manages WebSocket connections and the live simulation session:
// current configuration, window leaf states and the selected day. Every
// parameter change rebuilds the engine and re-broadcasts the day series.
type Handler struct {
	hub *Hub
	lib preset.Library

	mu            sync.Mutex
	cfg           simulator.Config
	leafStates    [4][]model.WindowState
	rooflightOpen bool
	month         time.Month
	day           int
	yearRunning   bool
}

func NewHandler(hub *Hub, lib preset.Library, cfg simulator.Config) *Handler {
	h := &Handler{
		hub:   hub,
		lib:   lib,
		cfg:   cfg,
		month: time.June,
		day:   21,
	}
	h.resetLeafStates()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.recompute()
	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(msg)
	}
}

func (h *Handler) handleMessage(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeConfigUpdate:
		var p ConfigUpdatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid config:update payload: %v", err)
			return
		}
		h.applyConfig(p)
		h.recompute()

	case TypeWindowToggle:
		var p WindowTogglePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid window:toggle payload: %v", err)
			return
		}
		h.toggleLeaf(p.Face, p.Leaf)
		h.recompute()

	case TypeRooflightToggle:
		h.mu.Lock()
		h.rooflightOpen = !h.rooflightOpen
		h.mu.Unlock()
		h.recompute()

	case TypeDayRun:
		var p DayRunPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid day:run payload: %v", err)
			return
		}
		if p.Month >= 1 && p.Month <= 12 && p.Day >= 1 && p.Day <= 31 {
			h.mu.Lock()
			h.month, h.day = time.Month(p.Month), p.Day
			h.mu.Unlock()
		}
		h.recompute()

	case TypeYearRun:
		h.runYear()

	default:
		log.Printf("Unknown message type: %s", env.Type)
	}
}

func (h *Handler) applyConfig(p ConfigUpdatePayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p.Location != nil {
		h.cfg.Location = *p.Location
	}
	if p.Geometry != nil {
		h.cfg.Geometry = *p.Geometry
	}
	if p.EnvelopePreset != "" {
		rooflight := h.cfg.Envelope.RooflightAreaM2
		h.cfg.Envelope = h.lib.Envelope(p.EnvelopePreset)
		h.cfg.Envelope.RooflightAreaM2 = rooflight
	}
	if p.Faces != nil {
		h.cfg.Faces = *p.Faces
	}
	if p.Vent != nil {
		h.cfg.Vent = *p.Vent
	}
	if p.InternalGainsW > 0 {
		h.cfg.InternalGainsW = p.InternalGainsW
	}
	h.resetLeafStatesLocked()
}

func (h *Handler) resetLeafStates() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLeafStatesLocked()
}

// resetLeafStatesLocked resizes leaf state slices to the current geometry,
// keeping existing states where the leaf survives. Must hold mu.
func (h *Handler) resetLeafStatesLocked() {
	for _, f := range model.Faces() {
		win := model.ResolveWindow(h.cfg.Geometry, f, h.cfg.Faces[f])
		n := model.LeafCount(win)
		states := make([]model.WindowState, n)
		copy(states, h.leafStates[f])
		h.leafStates[f] = states
	}
}

func (h *Handler) toggleLeaf(face, leaf int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if face < 0 || face > 3 || leaf < 0 || leaf >= len(h.leafStates[face]) {
		return
	}
	h.leafStates[face][leaf] = h.leafStates[face][leaf].Next()
}

// openings resolves leaf states into the manual ventilation input. Must hold mu.
func (h *Handler) openingsLocked() vent.Openings {
	var o vent.Openings
	for _, f := range model.Faces() {
		win := model.ResolveWindow(h.cfg.Geometry, f, h.cfg.Faces[f])
		o.FaceAreaM2[f] = model.FaceOpening(win, h.leafStates[f])
		o.FaceAzimuthDeg[f] = h.cfg.Geometry.FaceAzimuthDeg(f)
	}
	if h.rooflightOpen {
		o.RoofAreaM2 = h.cfg.Envelope.RooflightAreaM2 * rooflightOpenFraction
	}
	return o
}

// recompute rebuilds the engine, runs the selected day and broadcasts the
// snapshot, series and window state.
func (h *Handler) recompute() {
	h.mu.Lock()
	cfg := h.cfg
	cfg.Openings = h.openingsLocked()
	month, day := h.month, h.day
	windows := h.windowStateLocked()
	h.mu.Unlock()

	engine := simulator.New(cfg)
	records := engine.RunDay(month, day, simulator.DayOptions{})

	h.broadcast(TypeWindowState, windows)
	h.broadcast(TypeDaySeries, DaySeriesPayload{Month: int(month), Day: day, Records: records})

	if len(records) > 0 {
		mid := records[len(records)/2]
		h.broadcast(TypeSnapshot, engine.Evaluate(mid.Time, mid.IndoorC))
	}
}

// runYear executes the annual simulation off the read loop. Only one run at
// a time; further requests while running are dropped.
func (h *Handler) runYear() {
	h.mu.Lock()
	if h.yearRunning {
		h.mu.Unlock()
		return
	}
	h.yearRunning = true
	cfg := h.cfg
	cfg.Openings = h.openingsLocked()
	h.mu.Unlock()

	h.broadcast(TypeYearRunning, YearRunningPayload{Running: true})

	go func() {
		engine := simulator.New(cfg)
		series := engine.RunYear()
		stats := simulator.Aggregate(series, engine.Config().Band, h.lib.Tariff, h.lib.Carbon)

		h.mu.Lock()
		h.yearRunning = false
		h.mu.Unlock()

		h.broadcast(TypeAnnualStats, stats)
		h.broadcast(TypeYearRunning, YearRunningPayload{Running: false})
	}()
}

// windowStateLocked builds the display payload. Must hold mu.
func (h *Handler) windowStateLocked() WindowStatePayload {
	var p WindowStatePayload
	for _, f := range model.Faces() {
		win := model.ResolveWindow(h.cfg.Geometry, f, h.cfg.Faces[f])
		leaves := make([]WindowLeafInfo, len(h.leafStates[f]))
		for i, s := range h.leafStates[f] {
			leaves[i] = WindowLeafInfo{State: s.String()}
		}
		p.Faces = append(p.Faces, FaceWindowInfo{
			Face:     f.String(),
			Geometry: win,
			Leaves:   leaves,
			OpenM2:   model.FaceOpening(win, h.leafStates[f]),
		})
	}
	p.RooflightOpen = h.rooflightOpen
	return p
}

func (h *Handler) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("Error marshaling %s: %v", msgType, err)
		return
	}
	h.hub.Broadcast(msg)
}
