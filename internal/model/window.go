package model

// WindowState is the position of one operable window leaf. The UI cycles a
// leaf through Closed → TopHung → Turn → Closed.
type WindowState int

const (
	WindowClosed WindowState = iota
	WindowTopHung
	WindowTurn
)

func (s WindowState) String() string {
	switch s {
	case WindowTopHung:
		return "top_hung"
	case WindowTurn:
		return "turn"
	default:
		return "closed"
	}
}

// Next advances the leaf to its next state in the toggle cycle.
func (s WindowState) Next() WindowState {
	switch s {
	case WindowClosed:
		return WindowTopHung
	case WindowTopHung:
		return WindowTurn
	default:
		return WindowClosed
	}
}

// Effective free-area fractions per state. A tilted top-hung leaf vents a
// narrow wedge; a turned leaf exposes most of its area.
const (
	topHungAreaFraction = 0.15
	turnAreaFraction    = 0.60
)

// OpeningAreaM2 returns the aerodynamic free area of one leaf of the given
// size in the given state.
func (s WindowState) OpeningAreaM2(leafWidthM, leafHeightM float64) float64 {
	if leafWidthM <= 0 || leafHeightM <= 0 {
		return 0
	}
	area := leafWidthM * leafHeightM
	switch s {
	case WindowTopHung:
		return area * topHungAreaFraction
	case WindowTurn:
		return area * turnAreaFraction
	default:
		return 0
	}
}

// LeafCount splits a facade window into operable leaves for display and
// manual ventilation. One leaf per started 1.2 m of width, at least one.
func LeafCount(w WindowGeom) int {
	if !w.Glazed() {
		return 0
	}
	n := int(w.WidthM/1.2) + 1
	return n
}

// FaceOpening resolves per-leaf states into the total open area of a facade
// window. States beyond the leaf count are ignored; missing states are closed.
func FaceOpening(w WindowGeom, states []WindowState) float64 {
	n := LeafCount(w)
	if n == 0 {
		return 0
	}
	leafW := w.WidthM / float64(n)
	var total float64
	for i := 0; i < n && i < len(states); i++ {
		total += states[i].OpeningAreaM2(leafW, w.HeightM)
	}
	return total
}
