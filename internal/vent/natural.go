package vent

import (
	"math"

	"comfort_simulator/internal/model"
)

// Natural-ventilation pressure model: wind dynamic pressure and buoyancy
// drive orifice flow through the opened areas. The practical velocity cap and
// pressure coefficients are empirical tuning constants (see Constants).

const (
	airDensity = 1.2
	gravity    = 9.81
	// epsVolume guards the ACH division for degenerate zones.
	epsVolume = 1e-6
)

// naturalACH converts the opened areas into an air-change rate. Zero volume
// or zero opened area yields ("none", 0) rather than a division error.
func (p Policy) naturalACH(cfg model.VentConfig, in Inputs) (float64, string) {
	if p.VolumeM3 <= epsVolume {
		return 0, "none"
	}

	faceTotal := in.Openings.TotalFaceAreaM2()
	roofArea := clampArea(in.Openings.RoofAreaM2)
	if faceTotal <= 0 && roofArea <= 0 {
		return 0, "none"
	}

	wind := clampArea(in.WindMS) * cfg.ShelterFactor
	pWind := 0.5 * airDensity * wind * wind * p.K.WindPressureCoeff
	pStack := p.stackPressure(in, p.StackHeightM/2)

	var qFace float64
	mode := "none"
	if faceTotal > 0 {
		var aEff, drive float64
		aEff, drive, mode = p.facadePath(in, pWind, pStack)
		qFace = p.orificeFlow(aEff, drive)
	}

	var qRoof float64
	if roofArea > 0 {
		// Stack across the full zone height drives the rooflight. With no
		// facade opening a small make-up leakage area feeds the outflow.
		makeup := faceTotal
		if makeup <= 0 {
			makeup = p.K.MakeupLeakageM2
			if mode == "none" {
				mode = "roof_only"
			}
		}
		aRoof := harmonicArea(roofArea, makeup)
		qRoof = p.orificeFlow(aRoof, p.stackPressure(in, p.StackHeightM)+0.25*pWind)
	}

	// Facade and roof paths combine by root sum square.
	q := math.Sqrt(qFace*qFace + qRoof*qRoof)
	return q * 3600 / p.VolumeM3, mode
}

// facadePath classifies the facade openings and returns the effective orifice
// area plus the driving pressure for that flow regime.
func (p Policy) facadePath(in Inputs, pWind, pStack float64) (aEff, drive float64, mode string) {
	areas := in.Openings.FaceAreaM2
	azs := in.Openings.FaceAzimuthDeg

	openFaces := 0
	for _, a := range areas {
		if clampArea(a) > 0 {
			openFaces++
		}
	}

	// Best opposite-facade pair, by harmonic combination of the two areas.
	var bestPair float64
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			ai, aj := clampArea(areas[i]), clampArea(areas[j])
			if ai <= 0 || aj <= 0 || !opposite(azs[i], azs[j]) {
				continue
			}
			if h := harmonicArea(ai, aj); h > bestPair {
				bestPair = h
			}
		}
	}

	total := in.Openings.TotalFaceAreaM2()
	switch {
	case bestPair > 0:
		// Cross ventilation: wind pressure difference across the zone plus stack.
		return bestPair, pWind + pStack, "cross"
	case openFaces > 1:
		return 0.5 * total, 0.5*pWind + pStack, "multi"
	default:
		// Single-sided exchange is mostly buoyancy with a little turbulence.
		return total / 3, pStack + 0.05*pWind, "single"
	}
}

// stackPressure is the buoyancy pressure over the given height.
func (p Policy) stackPressure(in Inputs, heightM float64) float64 {
	if heightM <= 0 {
		return 0
	}
	dT := math.Abs(in.IndoorC - in.OutdoorC)
	meanK := (in.IndoorC+in.OutdoorC)/2 + 273.15
	if meanK < 1 {
		meanK = 1
	}
	return airDensity * gravity * heightM * dT / meanK
}

// orificeFlow is the discharge relation Q = Cd·A·v with the theoretical
// velocity capped at the practical limit.
func (p Policy) orificeFlow(areaM2, pressurePa float64) float64 {
	if areaM2 <= 0 || pressurePa <= 0 {
		return 0
	}
	v := math.Sqrt(2 * pressurePa / airDensity)
	if v > p.K.PracticalVelocityCapMS {
		v = p.K.PracticalVelocityCapMS
	}
	return p.K.DischargeCoeff * areaM2 * v
}

// harmonicArea combines two series openings: 1/A² = 1/A1² + 1/A2².
func harmonicArea(a1, a2 float64) float64 {
	if a1 <= 0 || a2 <= 0 {
		return 0
	}
	return a1 * a2 / math.Sqrt(a1*a1+a2*a2)
}

// opposite reports whether two facade azimuths face away from each other.
func opposite(az1, az2 float64) bool {
	d := math.Mod(math.Abs(az1-az2), 360)
	if d > 180 {
		d = 360 - d
	}
	return d > 135
}
