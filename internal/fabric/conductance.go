package fabric

import (
	"comfort_simulator/internal/model"
)

// Air properties used for the ventilation conductance term.
const (
	AirDensityKgM3   = 1.2
	AirSpecificHeatJ = 1005.0
)

// Assembly is the aggregated envelope conductance of the zone, W/K, with the
// per-surface breakdown kept for loss reporting and display.
type Assembly struct {
	Walls     float64 `json:"ua_walls_wk"`
	Windows   float64 `json:"ua_windows_wk"`
	Rooflight float64 `json:"ua_rooflight_wk"`
	Roof      float64 `json:"ua_roof_wk"`
	Floor     float64 `json:"ua_floor_wk"`

	// WallAreaByCardinal holds net opaque wall area bucketed to the nearest
	// compass direction; WindowAreaM2 is the total glazed wall area.
	WallAreaByCardinal [4]float64 `json:"wall_area_by_cardinal_m2"`
	WindowAreaM2       float64    `json:"window_area_m2"`

	Windows4 [4]model.WindowGeom `json:"windows"`
}

// Fabric returns the whole-envelope conductance, W/K.
func (a Assembly) Fabric() float64 {
	return a.Walls + a.Windows + a.Rooflight + a.Roof + a.Floor
}

// Assemble computes per-surface UA products for the zone. Opaque wall area is
// the gross facade area net of its resolved window; roof area is net of the
// rooflight.
func Assemble(g model.Geometry, env model.Envelope, faces [4]model.FaceConfig) Assembly {
	env = env.Normalize()
	var a Assembly

	for _, f := range model.Faces() {
		win := model.ResolveWindow(g, f, faces[f])
		a.Windows4[f] = win

		wallArea := g.FaceAreaM2(f) - win.AreaM2
		if wallArea < 0 {
			wallArea = 0
		}
		card := model.NearestCardinal(g.FaceAzimuthDeg(f))
		a.WallAreaByCardinal[card] += wallArea

		a.Walls += env.WallU * wallArea
		a.Windows += env.WindowU * win.AreaM2
		a.WindowAreaM2 += win.AreaM2
	}

	roofArea := g.RoofAreaM2() - env.RooflightAreaM2
	if roofArea < 0 {
		roofArea = 0
	}
	a.Roof = env.RoofU * roofArea
	a.Rooflight = env.RooflightU * env.RooflightAreaM2
	a.Floor = env.FloorU * g.FloorAreaM2()

	return a
}

// VentConductance converts an air-change rate into a conductance, W/K,
// credited with heat recovery. eta must already be zeroed by the caller for
// any window-driven ventilation; only balanced mechanical flow recovers heat.
func VentConductance(achTotal, volumeM3, eta float64) float64 {
	if achTotal < 0 || volumeM3 <= 0 {
		return 0
	}
	if eta < 0 {
		eta = 0
	}
	if eta > 1 {
		eta = 1
	}
	return AirDensityKgM3 * AirSpecificHeatJ * achTotal * volumeM3 / 3600 * (1 - eta)
}
