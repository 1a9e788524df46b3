package simulator

import (
	"math"
	"time"

	"comfort_simulator/internal/fabric"
	"comfort_simulator/internal/model"
	"comfort_simulator/internal/solar"
	"comfort_simulator/internal/vent"
	"comfort_simulator/internal/weather"
)

// Config fully describes one simulation run. It is treated as immutable once
// handed to New; re-running with a different config carries no residual state.
type Config struct {
	Location model.Location
	Geometry model.Geometry
	Envelope model.Envelope
	Faces    [4]model.FaceConfig
	Vent     model.VentConfig
	Band     model.ComfortBand
	Weather  weather.Source

	// Openings is the manual window/rooflight open state, only consulted in
	// manual ventilation mode.
	Openings vent.Openings

	InternalGainsW float64
	GroundAlbedo   float64
	// ThermalMassKJPerM2K is effective zone capacitance per floor area.
	ThermalMassKJPerM2K float64

	Shading solar.ShadingConstants
	VentK   vent.Constants
}

const (
	defaultInternalGainsW = 200
	defaultThermalMass    = 165 // kJ/m2K, medium-weight construction
	// epsConductance guards the steady-state division.
	epsConductance = 1e-9
	// luminousEfficacy converts global horizontal irradiance to illuminance.
	luminousEfficacyLmW = 110
)

func (c Config) normalized() Config {
	c.Location = c.Location.Normalize()
	c.Envelope = c.Envelope.Normalize()
	c.Vent = c.Vent.Normalize()
	if c.Weather == nil {
		c.Weather = weather.DefaultSynthetic()
	}
	if c.GroundAlbedo <= 0 || c.GroundAlbedo > 1 {
		c.GroundAlbedo = solar.DefaultGroundAlbedo
	}
	if c.InternalGainsW <= 0 {
		c.InternalGainsW = defaultInternalGainsW
	}
	if c.ThermalMassKJPerM2K <= 0 {
		c.ThermalMassKJPerM2K = defaultThermalMass
	}
	if c.Shading == (solar.ShadingConstants{}) {
		c.Shading = solar.DefaultShadingConstants()
	}
	if c.VentK == (vent.Constants{}) {
		c.VentK = vent.DefaultConstants()
	}
	if c.Band.MaxC <= c.Band.MinC {
		c.Band = model.ComfortBand{MinC: 18, MaxC: 26}
	}
	return c
}

// Snapshot is the instantaneous derived result for one evaluation: gains,
// losses, conductances, ventilation outcome, steady-state temperature and a
// desk-level illuminance estimate. It is recomputed on every call and never
// mutated in place.
type Snapshot struct {
	Time     time.Time `json:"time"`
	IndoorC  float64   `json:"indoor_c"`
	OutdoorC float64   `json:"outdoor_c"`

	Sun        solar.Position   `json:"sun"`
	Irradiance solar.Irradiance `json:"irradiance"`

	SolarGainW      float64    `json:"solar_gain_w"`
	GainByCardinalW [4]float64 `json:"gain_by_cardinal_w"`
	RooflightGainW  float64    `json:"rooflight_gain_w"`
	InternalGainsW  float64    `json:"internal_gains_w"`

	UAFabric float64 `json:"ua_fabric_wk"`
	UAVent   float64 `json:"ua_vent_wk"`

	FabricLossW float64 `json:"fabric_loss_w"`
	VentLossW   float64 `json:"vent_loss_w"`

	Vent vent.Result `json:"vent"`

	SteadyStateC   float64 `json:"steady_state_c"`
	IlluminanceLux float64 `json:"illuminance_lux"`
}

// Engine evaluates snapshots and integrates them through time. Construction
// pre-assembles the fabric conductances; everything per-step is pure.
type Engine struct {
	cfg      Config
	assembly fabric.Assembly
	policy   vent.Policy
	// capacityJK is the lumped zone capacitance C.
	capacityJK float64
}

func New(cfg Config) *Engine {
	cfg = cfg.normalized()
	return &Engine{
		cfg:      cfg,
		assembly: fabric.Assemble(cfg.Geometry, cfg.Envelope, cfg.Faces),
		policy: vent.Policy{
			Config:       cfg.Vent,
			Band:         cfg.Band,
			VolumeM3:     cfg.Geometry.VolumeM3(),
			StackHeightM: cfg.Geometry.HeightM,
			K:            cfg.VentK,
		},
		capacityJK: cfg.ThermalMassKJPerM2K * 1000 * cfg.Geometry.FloorAreaM2(),
	}
}

// Config returns the normalized run configuration.
func (e *Engine) Config() Config { return e.cfg }

// Assembly returns the precomputed fabric conductances.
func (e *Engine) Assembly() fabric.Assembly { return e.assembly }

// TimeConstant is the zone time constant C/UA at background ventilation.
func (e *Engine) TimeConstant() time.Duration {
	ua := e.assembly.Fabric() + fabric.VentConductance(e.cfg.Vent.BackgroundACH, e.cfg.Geometry.VolumeM3(), 0)
	if ua <= epsConductance {
		return 0
	}
	return time.Duration(e.capacityJK / ua * float64(time.Second))
}

// Evaluate computes the snapshot for one instant at the given indoor
// temperature. Identical inputs always produce identical outputs.
func (e *Engine) Evaluate(t time.Time, indoorC float64) Snapshot {
	cond := e.cfg.Weather.At(t)
	pos := solar.SunPosition(t, e.cfg.Location)

	var irr solar.Irradiance
	if cond.Measured {
		irr = solar.Irradiance{
			DirectNormal:      cond.DirectNormal,
			DiffuseHorizontal: cond.DiffuseHorizontal,
			GlobalHorizontal:  cond.GlobalHorizontal,
		}
	} else {
		irr = solar.ClearSky(pos.AltitudeDeg)
		cf := solar.CloudFactor(cond.SkyCoverTenths)
		irr.DirectNormal *= cf
		irr.DiffuseHorizontal *= cf
		irr.GlobalHorizontal *= cf
	}

	snap := Snapshot{
		Time:           t,
		IndoorC:        indoorC,
		OutdoorC:       cond.DryBulbC,
		Sun:            pos,
		Irradiance:     irr,
		InternalGainsW: e.cfg.InternalGainsW,
	}

	for _, f := range model.Faces() {
		win := e.assembly.Windows4[f]
		if !win.Glazed() {
			continue
		}
		faceAz := e.cfg.Geometry.FaceAzimuthDeg(f)
		comps := solar.OnFacade(pos, irr, faceAz, e.cfg.GroundAlbedo)

		shade := solar.BeamShadingFraction(pos, faceAz, solar.ShadeGeometry{
			OverhangDepthM: win.OverhangDepthM,
			FinDepthM:      win.FinDepthM,
			LouvreDepthM:   win.LouvreDepthM,
			WindowHeightM:  win.HeightM,
		}, e.cfg.Shading)

		incident := comps.Beam*(1-shade) + comps.Diffuse + comps.Ground
		incident *= solar.BlindFactor(comps.Total(), e.cfg.Shading)

		gain := incident * win.AreaM2 * e.cfg.Envelope.WindowG
		snap.GainByCardinalW[model.NearestCardinal(faceAz)] += gain
		snap.SolarGainW += gain
	}

	if e.cfg.Envelope.RooflightAreaM2 > 0 {
		snap.RooflightGainW = irr.GlobalHorizontal * e.cfg.Envelope.RooflightAreaM2 * e.cfg.Envelope.RooflightG
		snap.SolarGainW += snap.RooflightGainW
	}

	snap.Vent = e.policy.Evaluate(vent.Inputs{
		IndoorC:   indoorC,
		OutdoorC:  cond.DryBulbC,
		WindMS:    cond.WindMS,
		LocalHour: e.localHour(t),
		Openings:  e.cfg.Openings,
	})

	eta := 0.0
	if snap.Vent.HeatRecovery {
		eta = e.cfg.Vent.HeatRecoveryEta
	}
	snap.UAFabric = e.assembly.Fabric()
	snap.UAVent = fabric.VentConductance(snap.Vent.ACHTotal, e.cfg.Geometry.VolumeM3(), eta)

	dT := indoorC - cond.DryBulbC
	snap.FabricLossW = snap.UAFabric * dT
	snap.VentLossW = snap.UAVent * dT

	gains := snap.SolarGainW + snap.InternalGainsW
	snap.SteadyStateC = cond.DryBulbC + gains/math.Max(snap.UAFabric+snap.UAVent, epsConductance)

	snap.IlluminanceLux = e.illuminance(irr.GlobalHorizontal)

	return snap
}

// illuminance is a simplified average daylight-factor estimate at desk level.
func (e *Engine) illuminance(ghi float64) float64 {
	floor := e.cfg.Geometry.FloorAreaM2()
	if ghi <= 0 || floor <= 0 || e.assembly.WindowAreaM2 <= 0 {
		return 0
	}
	// Visible transmittance estimated from the solar g-value.
	tVis := math.Min(0.95, 1.15*e.cfg.Envelope.WindowG)
	// Deep plans lose daylight at the back of the zone.
	depthFactor := 1 / (1 + math.Pow(e.cfg.Geometry.DepthM/(2.5*e.cfg.Geometry.HeightM), 2))
	dfPct := 45 * e.assembly.WindowAreaM2 * tVis / floor * depthFactor
	return ghi * luminousEfficacyLmW * dfPct / 100
}

// localHour is the local clock hour (fractional) for the policy's schedules.
func (e *Engine) localHour(t time.Time) float64 {
	local := t.Add(time.Duration(e.cfg.Location.TimezoneOffsetHours * float64(time.Hour)))
	return float64(local.Hour()) + float64(local.Minute())/60
}
