package solar

import (
	"math"
	"time"

	"comfort_simulator/internal/model"
)

// Position is the sun's apparent place for one instant, in degrees.
// Azimuth follows the compass convention (0=north, 90=east, 180=south).
// Altitude is negative at night.
type Position struct {
	AltitudeDeg    float64
	AzimuthDeg     float64
	DeclinationDeg float64
}

const degToRad = math.Pi / 180

// SunPosition computes the solar position for a UTC instant at a location.
// Low-precision ecliptic formulation: good to a fraction of a degree, which
// is ample for irradiance projection. Valid for any finite date.
func SunPosition(t time.Time, loc model.Location) Position {
	loc = loc.Normalize()

	d := julianDay(t.UTC()) - 2451545.0

	// Mean anomaly and mean ecliptic longitude of the sun, deg.
	g := wrap360(357.529 + 0.98560028*d)
	q := wrap360(280.459 + 0.98564736*d)

	// True ecliptic longitude, deg.
	l := wrap360(q + 1.915*math.Sin(g*degToRad) + 0.020*math.Sin(2*g*degToRad))

	// Obliquity of the ecliptic, deg.
	e := 23.439 - 0.00000036*d

	sinL := math.Sin(l * degToRad)
	declRad := math.Asin(math.Sin(e*degToRad) * sinL)
	raRad := math.Atan2(math.Cos(e*degToRad)*sinL, math.Cos(l*degToRad))

	// Greenwich mean sidereal time, hours, then local sidereal time.
	gmst := math.Mod(18.697374558+24.06570982441908*d, 24)
	if gmst < 0 {
		gmst += 24
	}
	lmstDeg := gmst*15 + loc.LongitudeDeg

	// Hour angle, rad.
	haRad := wrap360(lmstDeg-raRad/degToRad) * degToRad

	latRad := loc.LatitudeDeg * degToRad
	sinAlt := math.Sin(latRad)*math.Sin(declRad) + math.Cos(latRad)*math.Cos(declRad)*math.Cos(haRad)
	altRad := math.Asin(sinAlt)

	// Azimuth measured westward from south, shifted to compass north.
	azRad := math.Atan2(math.Sin(haRad), math.Cos(haRad)*math.Sin(latRad)-math.Tan(declRad)*math.Cos(latRad))
	azDeg := wrap360(azRad/degToRad + 180)

	return Position{
		AltitudeDeg:    altRad / degToRad,
		AzimuthDeg:     azDeg,
		DeclinationDeg: declRad / degToRad,
	}
}

// julianDay converts a UTC instant to a (fractional) Julian day number.
func julianDay(t time.Time) float64 {
	// Unix epoch is JD 2440587.5.
	return 2440587.5 + float64(t.UnixNano())/float64(24*time.Hour)
}

func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Irradiance holds the three horizontal-reference components, W/m2.
type Irradiance struct {
	DirectNormal      float64
	DiffuseHorizontal float64
	GlobalHorizontal  float64
}

// Clear-sky model constants: extraterrestrial-scale beam through a fixed
// broadband optical depth raised to the optical air mass.
const (
	clearSkyBeamWm2       = 1000.0
	clearSkyTransmittance = 0.75
	clearSkyDiffuseWm2    = 100.0
)

// ClearSky estimates irradiance from sun altitude alone, used whenever no
// measured irradiance exists. All components are zero at or below the horizon.
func ClearSky(altitudeDeg float64) Irradiance {
	if altitudeDeg <= 0 {
		return Irradiance{}
	}
	sinAlt := math.Sin(altitudeDeg * degToRad)

	airMass := 1 / sinAlt
	dni := clearSkyBeamWm2 * math.Pow(clearSkyTransmittance, airMass)
	dhi := clearSkyDiffuseWm2 * sinAlt
	ghi := dni*sinAlt + dhi
	if ghi < 0 {
		ghi = 0
	}
	return Irradiance{DirectNormal: dni, DiffuseHorizontal: dhi, GlobalHorizontal: ghi}
}

// CloudFactor attenuates clear-sky irradiance by total sky cover in tenths
// (Kasten-Czeplak form). 0 tenths leaves irradiance untouched.
func CloudFactor(tenths float64) float64 {
	if tenths <= 0 {
		return 1
	}
	if tenths > 10 {
		tenths = 10
	}
	f := 1 - 0.75*math.Pow(tenths/10, 3.4)
	if f < 0 {
		return 0
	}
	return f
}
