package solar

import "math"

// FacadeComponents is irradiance projected onto a vertical facade, W/m2.
type FacadeComponents struct {
	Beam    float64
	Diffuse float64
	Ground  float64
}

func (c FacadeComponents) Total() float64 { return c.Beam + c.Diffuse + c.Ground }

// DefaultGroundAlbedo is the reflectance used for ground-bounced irradiance.
const DefaultGroundAlbedo = 0.2

// OnFacade projects sun-position irradiance onto a vertical facade with the
// given outward compass azimuth. The sun behind the facade (or below the
// horizon) contributes no beam; a vertical surface sees half the sky dome and
// half the ground.
func OnFacade(pos Position, irr Irradiance, faceAzimuthDeg, albedo float64) FacadeComponents {
	c := FacadeComponents{
		Diffuse: 0.5 * irr.DiffuseHorizontal,
		Ground:  0.5 * irr.GlobalHorizontal * albedo,
	}
	if pos.AltitudeDeg <= 0 {
		return FacadeComponents{}
	}
	dAz := azimuthDelta(pos.AzimuthDeg, faceAzimuthDeg)
	if math.Abs(dAz) < 90 {
		c.Beam = irr.DirectNormal * math.Cos(pos.AltitudeDeg*degToRad) * math.Cos(dAz*degToRad)
		if c.Beam < 0 {
			c.Beam = 0
		}
	}
	return c
}

// OnTilted returns total irradiance on an arbitrarily tilted plane (0=flat,
// 90=vertical) with the given compass azimuth, via the general incidence
// cosine plus isotropic sky and ground view factors.
func OnTilted(pos Position, irr Irradiance, tiltDeg, azimuthDeg, albedo float64) float64 {
	tiltRad := tiltDeg * degToRad
	var beam float64
	if pos.AltitudeDeg > 0 {
		altRad := pos.AltitudeDeg * degToRad
		dAzRad := azimuthDelta(pos.AzimuthDeg, azimuthDeg) * degToRad
		cosInc := math.Sin(altRad)*math.Cos(tiltRad) + math.Cos(altRad)*math.Sin(tiltRad)*math.Cos(dAzRad)
		if cosInc > 0 {
			beam = irr.DirectNormal * cosInc
		}
	}
	diffuse := irr.DiffuseHorizontal * (1 + math.Cos(tiltRad)) / 2
	ground := irr.GlobalHorizontal * albedo * (1 - math.Cos(tiltRad)) / 2
	return beam + diffuse + ground
}

// azimuthDelta is the signed sun-to-surface azimuth offset in (-180, 180].
func azimuthDelta(sunAzDeg, surfaceAzDeg float64) float64 {
	d := math.Mod(sunAzDeg-surfaceAzDeg, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}
