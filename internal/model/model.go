package model

import "math"

// Location identifies the simulated site.
type Location struct {
	LatitudeDeg  float64 `json:"latitude_deg" yaml:"latitude_deg"`
	LongitudeDeg float64 `json:"longitude_deg" yaml:"longitude_deg"`
	// TimezoneOffsetHours converts UTC to local clock time (east positive).
	TimezoneOffsetHours float64 `json:"timezone_offset_hours" yaml:"timezone_offset_hours"`
}

// Normalize clamps latitude to [-90, 90] and wraps longitude into (-180, 180].
func (l Location) Normalize() Location {
	if l.LatitudeDeg > 90 {
		l.LatitudeDeg = 90
	}
	if l.LatitudeDeg < -90 {
		l.LatitudeDeg = -90
	}
	lon := math.Mod(l.LongitudeDeg, 360)
	if lon > 180 {
		lon -= 360
	}
	if lon <= -180 {
		lon += 360
	}
	l.LongitudeDeg = lon
	return l
}

// Face indexes one of the four walls of the zone.
type Face int

const (
	FaceFront Face = iota
	FaceRight
	FaceBack
	FaceLeft
)

var faceNames = [4]string{"front", "right", "back", "left"}

func (f Face) String() string {
	if f < 0 || int(f) > 3 {
		return "unknown"
	}
	return faceNames[f]
}

// Faces lists all four wall faces in order.
func Faces() [4]Face {
	return [4]Face{FaceFront, FaceRight, FaceBack, FaceLeft}
}

// Cardinal is a compass bucket used for grouping solar gains and wall areas.
type Cardinal int

const (
	North Cardinal = iota
	East
	South
	West
)

var cardinalNames = [4]string{"north", "east", "south", "west"}

func (c Cardinal) String() string {
	if c < 0 || int(c) > 3 {
		return "unknown"
	}
	return cardinalNames[c]
}

// NearestCardinal buckets a compass azimuth (0=north) to the nearest of N/E/S/W.
func NearestCardinal(azimuthDeg float64) Cardinal {
	az := math.Mod(azimuthDeg, 360)
	if az < 0 {
		az += 360
	}
	return Cardinal(int(math.Round(az/90)) % 4)
}

// Geometry is the zone box: width spans the front face, depth runs front to back.
type Geometry struct {
	WidthM  float64 `json:"width_m" yaml:"width_m"`
	DepthM  float64 `json:"depth_m" yaml:"depth_m"`
	HeightM float64 `json:"height_m" yaml:"height_m"`
	// OrientationDeg is the compass azimuth the front face looks toward (0=north).
	OrientationDeg float64 `json:"orientation_deg" yaml:"orientation_deg"`
}

// Valid reports whether the box encloses a non-degenerate volume.
func (g Geometry) Valid() bool {
	return g.WidthM > 0 && g.DepthM > 0 && g.HeightM > 0
}

func (g Geometry) VolumeM3() float64    { return g.WidthM * g.DepthM * g.HeightM }
func (g Geometry) FloorAreaM2() float64 { return g.WidthM * g.DepthM }
func (g Geometry) RoofAreaM2() float64  { return g.WidthM * g.DepthM }

// FaceAzimuthDeg returns the outward compass azimuth of a wall face.
func (g Geometry) FaceAzimuthDeg(f Face) float64 {
	az := math.Mod(g.OrientationDeg+90*float64(f), 360)
	if az < 0 {
		az += 360
	}
	return az
}

// FaceSpanM returns the horizontal width of a wall face.
func (g Geometry) FaceSpanM(f Face) float64 {
	if f == FaceFront || f == FaceBack {
		return g.WidthM
	}
	return g.DepthM
}

// FaceAreaM2 returns the gross (glazing included) area of a wall face.
func (g Geometry) FaceAreaM2(f Face) float64 {
	return g.FaceSpanM(f) * g.HeightM
}

// Envelope holds fabric U-values and glazing solar transmittance.
type Envelope struct {
	WallU   float64 `json:"wall_u" yaml:"wall_u"`
	RoofU   float64 `json:"roof_u" yaml:"roof_u"`
	FloorU  float64 `json:"floor_u" yaml:"floor_u"`
	WindowU float64 `json:"window_u" yaml:"window_u"`
	WindowG float64 `json:"window_g" yaml:"window_g"`

	// Rooflight fields are optional; zero U/g fall back to the window values.
	RooflightAreaM2 float64 `json:"rooflight_area_m2" yaml:"rooflight_area_m2"`
	RooflightU      float64 `json:"rooflight_u" yaml:"rooflight_u"`
	RooflightG      float64 `json:"rooflight_g" yaml:"rooflight_g"`
}

// Normalize fills rooflight defaults and clamps transmittances into [0, 1].
func (e Envelope) Normalize() Envelope {
	if e.RooflightU == 0 {
		e.RooflightU = e.WindowU
	}
	if e.RooflightG == 0 {
		e.RooflightG = e.WindowG
	}
	e.WindowG = clamp01(e.WindowG)
	e.RooflightG = clamp01(e.RooflightG)
	if e.RooflightAreaM2 < 0 {
		e.RooflightAreaM2 = 0
	}
	return e
}

// MaxGlazingFraction caps how much of a facade can be glazed.
const MaxGlazingFraction = 0.8

// MinClearHeightM is the smallest window height a facade resolves to.
const MinClearHeightM = 0.4

// FaceConfig describes the glazing and external shading of one facade.
// All depths and offsets are ratios of room height, resolved to meters later.
type FaceConfig struct {
	GlazingFraction   float64 `json:"glazing_fraction" yaml:"glazing_fraction"`
	OverhangRatio     float64 `json:"overhang_ratio" yaml:"overhang_ratio"`
	FinRatio          float64 `json:"fin_ratio" yaml:"fin_ratio"`
	LouvreRatio       float64 `json:"louvre_ratio" yaml:"louvre_ratio"`
	CillRatio         float64 `json:"cill_ratio" yaml:"cill_ratio"`
	HeadDropRatio     float64 `json:"head_drop_ratio" yaml:"head_drop_ratio"`
	CenterOffsetRatio float64 `json:"center_offset_ratio" yaml:"center_offset_ratio"`
}

// WindowGeom is a resolved window placement on one facade, in meters.
// Consumed by shading, conductance assembly and the display layer.
type WindowGeom struct {
	WidthM         float64 `json:"width_m"`
	HeightM        float64 `json:"height_m"`
	CillM          float64 `json:"cill_m"`
	CenterM        float64 `json:"center_m"` // offset from face center, positive rightward
	AreaM2         float64 `json:"area_m2"`
	OverhangDepthM float64 `json:"overhang_depth_m"`
	FinDepthM      float64 `json:"fin_depth_m"`
	LouvreDepthM   float64 `json:"louvre_depth_m"`
}

// Glazed reports whether the window carries any meaningful glazing.
// Fractions at or below 0.001 contribute no gain and no window area.
func (w WindowGeom) Glazed() bool { return w.AreaM2 > 0 }

// ResolveWindow turns a facade ratio configuration into window geometry.
// The resolved height stays within [MinClearHeightM, room height] and the
// width within the face span; the glazed area follows from the clamps.
func ResolveWindow(g Geometry, f Face, fc FaceConfig) WindowGeom {
	frac := fc.GlazingFraction
	if !isFinite(frac) || frac < 0 {
		frac = 0
	}
	if frac > MaxGlazingFraction {
		frac = MaxGlazingFraction
	}
	if frac <= 0.001 || !g.Valid() {
		return WindowGeom{}
	}

	h := g.HeightM * (1 - clamp01(fc.CillRatio) - clamp01(fc.HeadDropRatio))
	if h < MinClearHeightM {
		h = MinClearHeightM
	}
	if h > g.HeightM {
		h = g.HeightM
	}

	span := g.FaceSpanM(f)
	w := g.FaceAreaM2(f) * frac / h
	if w > span {
		w = span
	}

	center := fc.CenterOffsetRatio * span / 2
	halfFree := (span - w) / 2
	if center > halfFree {
		center = halfFree
	}
	if center < -halfFree {
		center = -halfFree
	}

	return WindowGeom{
		WidthM:         w,
		HeightM:        h,
		CillM:          clamp01(fc.CillRatio) * g.HeightM,
		CenterM:        center,
		AreaM2:         w * h,
		OverhangDepthM: nonNeg(fc.OverhangRatio) * g.HeightM,
		FinDepthM:      nonNeg(fc.FinRatio) * g.HeightM,
		LouvreDepthM:   nonNeg(fc.LouvreRatio) * g.HeightM,
	}
}

// ComfortBand is the indoor temperature band treated as comfortable.
type ComfortBand struct {
	MinC float64 `json:"min_c" yaml:"min_c"`
	MaxC float64 `json:"max_c" yaml:"max_c"`
}

// ComfortState classifies one simulated step.
type ComfortState string

const (
	StateHeating     ComfortState = "heating"
	StateComfortable ComfortState = "comfortable"
	StateOverheating ComfortState = "overheating"
)

// Classify places an indoor temperature into exactly one comfort state.
func (b ComfortBand) Classify(indoorC float64) ComfortState {
	switch {
	case indoorC < b.MinC:
		return StateHeating
	case indoorC > b.MaxC:
		return StateOverheating
	default:
		return StateComfortable
	}
}

// VentMode selects the ventilation strategy for a run.
type VentMode string

const (
	VentBackground VentMode = "background"
	VentTrickle    VentMode = "trickle"
	VentMVHR       VentMode = "mvhr"
	VentOpen       VentMode = "open"
	VentPurge      VentMode = "purge"
	VentAdaptive   VentMode = "adaptive"
	VentManual     VentMode = "manual"
)

// VentConfig configures the ventilation policy.
type VentConfig struct {
	Mode          VentMode `json:"mode" yaml:"mode"`
	BackgroundACH float64  `json:"background_ach" yaml:"background_ach"`
	NightPurge    bool     `json:"night_purge" yaml:"night_purge"`
	// HeatRecoveryEta credits balanced mechanical ventilation only (0-1).
	HeatRecoveryEta float64 `json:"heat_recovery_eta" yaml:"heat_recovery_eta"`
	// ShelterFactor derates site wind speed for the natural-ventilation model.
	ShelterFactor float64 `json:"shelter_factor" yaml:"shelter_factor"`
}

// Normalize clamps the config into usable ranges and fills defaults.
func (v VentConfig) Normalize() VentConfig {
	if v.Mode == "" {
		v.Mode = VentBackground
	}
	v.BackgroundACH = nonNeg(v.BackgroundACH)
	v.HeatRecoveryEta = clamp01(v.HeatRecoveryEta)
	if v.ShelterFactor <= 0 || v.ShelterFactor > 1 {
		v.ShelterFactor = 0.5
	}
	return v
}

// HourlyRecord is one parsed weather observation. A dataset used as hourly
// forcing must contain exactly HoursPerYear of these.
type HourlyRecord struct {
	DryBulbTempC          float64 `csv:"dry_bulb_temp_c" json:"dry_bulb_temp_c"`
	DirectNormalWhm2      float64 `csv:"direct_normal_whm2" json:"direct_normal_whm2"`
	DiffuseHorizontalWhm2 float64 `csv:"diffuse_horizontal_whm2" json:"diffuse_horizontal_whm2"`
	GlobalHorizontalWhm2  float64 `csv:"global_horizontal_whm2" json:"global_horizontal_whm2"`
	WindMS                float64 `csv:"wind_ms" json:"wind_ms"`
	TotalSkyCoverTenths   float64 `csv:"total_sky_cover_tenths" json:"total_sky_cover_tenths"`
}

// HoursPerYear is the fixed model-year length (no leap day).
const HoursPerYear = 8760

func clamp01(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nonNeg(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
