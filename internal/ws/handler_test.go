package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/preset"
	"comfort_simulator/internal/simulator"
)

func testHandler() *Handler {
	lib := preset.Default()
	cfg := simulator.Config{
		Location: model.Location{LatitudeDeg: 51.5, LongitudeDeg: -0.1},
		Geometry: model.Geometry{WidthM: 6, DepthM: 8, HeightM: 2.7, OrientationDeg: 180},
		Envelope: lib.Envelope("2010s"),
		Faces: [4]model.FaceConfig{
			model.FaceFront: {GlazingFraction: 0.4},
		},
		Vent: model.VentConfig{Mode: model.VentManual, BackgroundACH: 0.3},
		Band: lib.Band,
	}
	return NewHandler(NewHub(), lib, cfg)
}

func TestNewHandler_DefaultsToSolsticeDay(t *testing.T) {
	h := testHandler()
	assert.Equal(t, 6, int(h.month))
	assert.Equal(t, 21, h.day)

	// Leaf states sized to the resolved front window.
	win := model.ResolveWindow(h.cfg.Geometry, model.FaceFront, h.cfg.Faces[model.FaceFront])
	assert.Len(t, h.leafStates[model.FaceFront], model.LeafCount(win))
	assert.Empty(t, h.leafStates[model.FaceBack])
}

func TestHandler_ToggleLeaf(t *testing.T) {
	h := testHandler()

	h.toggleLeaf(int(model.FaceFront), 0)
	assert.Equal(t, model.WindowTopHung, h.leafStates[model.FaceFront][0])

	h.toggleLeaf(int(model.FaceFront), 0)
	assert.Equal(t, model.WindowTurn, h.leafStates[model.FaceFront][0])

	// Out-of-range toggles are ignored.
	h.toggleLeaf(5, 0)
	h.toggleLeaf(int(model.FaceBack), 0)
	h.toggleLeaf(int(model.FaceFront), 99)
}

func TestHandler_OpeningsFollowLeafStates(t *testing.T) {
	h := testHandler()

	h.mu.Lock()
	o := h.openingsLocked()
	h.mu.Unlock()
	assert.Zero(t, o.TotalFaceAreaM2())
	assert.Zero(t, o.RoofAreaM2)

	h.toggleLeaf(int(model.FaceFront), 0)
	h.mu.Lock()
	o = h.openingsLocked()
	h.mu.Unlock()
	assert.Greater(t, o.FaceAreaM2[model.FaceFront], 0.0)
	// Front faces south at orientation 180.
	assert.InDelta(t, 180, o.FaceAzimuthDeg[model.FaceFront], 0.001)
}

func TestHandler_RooflightOpening(t *testing.T) {
	h := testHandler()
	h.cfg.Envelope.RooflightAreaM2 = 2

	h.mu.Lock()
	assert.Zero(t, h.openingsLocked().RoofAreaM2)
	h.rooflightOpen = true
	o := h.openingsLocked()
	h.mu.Unlock()

	assert.InDelta(t, 1.0, o.RoofAreaM2, 0.001)
}

func TestHandler_ApplyConfigPartialUpdate(t *testing.T) {
	h := testHandler()
	originalGeometry := h.cfg.Geometry

	gains := 450.0
	h.applyConfig(ConfigUpdatePayload{InternalGainsW: gains})

	assert.InDelta(t, gains, h.cfg.InternalGainsW, 0.001)
	// Absent fields keep their current values.
	assert.Equal(t, originalGeometry, h.cfg.Geometry)
	assert.Equal(t, model.VentManual, h.cfg.Vent.Mode)
}

func TestHandler_ApplyConfigPresetKeepsRooflight(t *testing.T) {
	h := testHandler()
	h.cfg.Envelope.RooflightAreaM2 = 3

	h.applyConfig(ConfigUpdatePayload{EnvelopePreset: "victorian"})

	assert.InDelta(t, 1.7, h.cfg.Envelope.WallU, 0.001)
	assert.InDelta(t, 3, h.cfg.Envelope.RooflightAreaM2, 0.001)
}

func TestHandler_ApplyConfigResizesLeaves(t *testing.T) {
	h := testHandler()
	h.toggleLeaf(int(model.FaceFront), 0)

	// Shrinking glazing to nothing clears the leaf states.
	h.applyConfig(ConfigUpdatePayload{Faces: &[4]model.FaceConfig{}})
	assert.Empty(t, h.leafStates[model.FaceFront])

	// Restoring glazing recreates closed leaves.
	h.applyConfig(ConfigUpdatePayload{Faces: &[4]model.FaceConfig{
		model.FaceFront: {GlazingFraction: 0.4},
	}})
	require.NotEmpty(t, h.leafStates[model.FaceFront])
	assert.Equal(t, model.WindowClosed, h.leafStates[model.FaceFront][0])
}

func TestHandler_WindowStatePayload(t *testing.T) {
	h := testHandler()
	h.toggleLeaf(int(model.FaceFront), 0)

	h.mu.Lock()
	p := h.windowStateLocked()
	h.mu.Unlock()

	require.Len(t, p.Faces, 4)
	front := p.Faces[model.FaceFront]
	assert.Equal(t, "front", front.Face)
	assert.Equal(t, "top_hung", front.Leaves[0].State)
	assert.Greater(t, front.OpenM2, 0.0)
	assert.False(t, p.RooflightOpen)
}
