package ws

import (
	"encoding/json"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/simulator"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeConfigUpdate    = "config:update"
	TypeWindowToggle    = "window:toggle"
	TypeRooflightToggle = "rooflight:toggle"
	TypeDayRun          = "day:run"
	TypeYearRun         = "year:run"

	// Server -> Client
	TypeSnapshot    = "snapshot:update"
	TypeDaySeries   = "day:series"
	TypeAnnualStats = "annual:stats"
	TypeWindowState = "windows:state"
	TypeYearRunning = "year:running"
)

// Client -> Server payloads

// ConfigUpdatePayload carries a live parameter sweep. Nil fields keep their
// current values, matching slider semantics on the UI side.
type ConfigUpdatePayload struct {
	Location       *model.Location      `json:"location,omitempty"`
	Geometry       *model.Geometry      `json:"geometry,omitempty"`
	EnvelopePreset string               `json:"envelope_preset,omitempty"`
	Faces          *[4]model.FaceConfig `json:"faces,omitempty"`
	Vent           *model.VentConfig    `json:"vent,omitempty"`
	InternalGainsW float64              `json:"internal_gains_w,omitempty"`
}

type WindowTogglePayload struct {
	Face int `json:"face"`
	Leaf int `json:"leaf"`
}

type DayRunPayload struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Server -> Client payloads

type WindowLeafInfo struct {
	State string `json:"state"`
}

// FaceWindowInfo exposes resolved window geometry and leaf states for
// display; the engine consumes the same open areas through the
// manual-ventilation opening input.
type FaceWindowInfo struct {
	Face     string           `json:"face"`
	Geometry model.WindowGeom `json:"geometry"`
	Leaves   []WindowLeafInfo `json:"leaves"`
	OpenM2   float64          `json:"open_m2"`
}

type WindowStatePayload struct {
	Faces         []FaceWindowInfo `json:"faces"`
	RooflightOpen bool             `json:"rooflight_open"`
}

type DaySeriesPayload struct {
	Month   int                    `json:"month"`
	Day     int                    `json:"day"`
	Records []simulator.StepRecord `json:"records"`
}

type YearRunningPayload struct {
	Running bool `json:"running"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
