package solar

import "math"

// ShadingConstants are the empirical geometry ratios of the fin-spacing model
// and the automatic blind control. They are configurable rather than derived.
type ShadingConstants struct {
	// FinGapPerDepth spaces vertical fins at depth*ratio intervals.
	FinGapPerDepth float64
	// LouvreGapPerDepth spaces horizontal louvres at depth*ratio intervals.
	LouvreGapPerDepth float64
	// FinPlaneOffsetM is how far overhang-mounted fins sit ahead of the
	// glazing plane, used for the shadow-drop discount.
	FinPlaneOffsetM float64
	// BlindThresholdWm2 triggers automatic blinds; BlindReduction is the
	// fraction of incident irradiance they remove.
	BlindThresholdWm2 float64
	BlindReduction    float64
}

// DefaultShadingConstants mirror the tuned source constants.
func DefaultShadingConstants() ShadingConstants {
	return ShadingConstants{
		FinGapPerDepth:    3.0,
		LouvreGapPerDepth: 2.0,
		FinPlaneOffsetM:   0.1,
		BlindThresholdWm2: 300,
		BlindReduction:    0.7,
	}
}

// ShadeGeometry describes one facade's external shading against its window.
type ShadeGeometry struct {
	OverhangDepthM float64
	FinDepthM      float64
	LouvreDepthM   float64
	WindowHeightM  float64
}

// BeamShadingFraction returns the shaded fraction of beam irradiance on a
// vertical facade, combining overhang, vertical fins and horizontal louvres.
// Always in [0, 1]; zero depth always shades nothing; the sun at or behind
// the facade plane produces no beam shading terms.
func BeamShadingFraction(pos Position, faceAzimuthDeg float64, g ShadeGeometry, k ShadingConstants) float64 {
	if pos.AltitudeDeg <= 0 || g.WindowHeightM <= 0 {
		return 0
	}
	dAz := azimuthDelta(pos.AzimuthDeg, faceAzimuthDeg)
	if math.Abs(dAz) >= 90 {
		return 0
	}

	// Profile angle: altitude projected onto the facade-normal plane.
	tanProfile := math.Tan(pos.AltitudeDeg*degToRad) / math.Cos(dAz*degToRad)

	overhang := clampFraction(g.OverhangDepthM * tanProfile / g.WindowHeightM)
	fin := finFraction(g.FinDepthM, dAz, tanProfile, g.WindowHeightM, k.FinGapPerDepth, k.FinPlaneOffsetM)
	louvre := louvreFraction(g.LouvreDepthM, tanProfile, g.WindowHeightM, k.LouvreGapPerDepth, k.FinPlaneOffsetM)

	return 1 - (1-overhang)*(1-fin)*(1-louvre)
}

// finFraction models evenly spaced vertical fins: each fin throws a shadow of
// width depth*|tan dAz| across a gap of depth*gapRatio. Fins mounted ahead of
// the glazing lose the strip of shadow that drops above the window head.
func finFraction(depthM, dAzDeg, tanProfile, windowHeightM, gapRatio, offsetM float64) float64 {
	if depthM <= 0 || gapRatio <= 0 {
		return 0
	}
	shadowW := depthM * math.Abs(math.Tan(dAzDeg*degToRad))
	f := clampFraction(shadowW / (depthM * gapRatio))
	return f * planeOffsetDiscount(offsetM, tanProfile, windowHeightM)
}

// louvreFraction models horizontal louvres: shadow depth follows the profile
// angle instead of the azimuth offset.
func louvreFraction(depthM, tanProfile, windowHeightM, gapRatio, offsetM float64) float64 {
	if depthM <= 0 || gapRatio <= 0 {
		return 0
	}
	shadowD := depthM * tanProfile
	f := clampFraction(shadowD / (depthM * gapRatio))
	return f * planeOffsetDiscount(offsetM, tanProfile, windowHeightM)
}

// planeOffsetDiscount reduces fin effectiveness when the fin plane sits ahead
// of the glazing: high sun drops part of the shadow off the window.
func planeOffsetDiscount(offsetM, tanProfile, windowHeightM float64) float64 {
	if offsetM <= 0 || windowHeightM <= 0 {
		return 1
	}
	drop := offsetM * tanProfile
	return clampFraction(1 - drop/windowHeightM)
}

// BlindFactor returns the transmitted fraction after automatic blind control:
// blinds deploy whenever total incident irradiance exceeds the threshold.
func BlindFactor(totalIncidentWm2 float64, k ShadingConstants) float64 {
	if k.BlindThresholdWm2 > 0 && totalIncidentWm2 > k.BlindThresholdWm2 {
		return 1 - clampFraction(k.BlindReduction)
	}
	return 1
}

func clampFraction(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
