package vent

import (
	"math"

	"comfort_simulator/internal/model"
)

// Kind tags a ventilation decision. Every timestep resolves to exactly one.
type Kind string

const (
	KindBackground Kind = "background"
	KindPreset     Kind = "preset"
	KindAdaptive   Kind = "adaptive"
	KindMVHR       Kind = "mvhr"
	KindManual     Kind = "manual"
)

// Result is the per-timestep ventilation outcome. ACHWindow is the share
// above the fixed background infiltration rate; HeatRecovery reports whether
// the heat-recovery efficiency may be credited for this step (balanced
// mechanical flow only, never window-driven air).
type Result struct {
	Kind         Kind    `json:"kind"`
	ACHTotal     float64 `json:"ach_total"`
	ACHWindow    float64 `json:"ach_window"`
	Active       bool    `json:"active"`
	HeatRecovery bool    `json:"heat_recovery"`
	Reason       string  `json:"reason"`
}

// Constants gather the empirical rates, thresholds and pressure-model
// coefficients. They are tuned values, kept configurable rather than derived.
type Constants struct {
	TrickleACH float64 `yaml:"trickle_ach"`
	OpenACH    float64 `yaml:"open_ach"`
	PurgeACH   float64 `yaml:"purge_ach"`

	AdaptiveFloorACH   float64 `yaml:"adaptive_floor_ach"`
	AdaptiveCeilingACH float64 `yaml:"adaptive_ceiling_ach"`
	AdaptiveRangeC     float64 `yaml:"adaptive_range_c"`
	MinBenefitDeltaC   float64 `yaml:"min_benefit_delta_c"`
	NightFloorC        float64 `yaml:"night_floor_c"`

	MVHRBaseACH  float64 `yaml:"mvhr_base_ach"`
	MVHRBoostACH float64 `yaml:"mvhr_boost_ach"`
	BypassDeltaC float64 `yaml:"bypass_delta_c"`

	DischargeCoeff         float64 `yaml:"discharge_coeff"`
	WindPressureCoeff      float64 `yaml:"wind_pressure_coeff"`
	PracticalVelocityCapMS float64 `yaml:"practical_velocity_cap_ms"`
	MakeupLeakageM2        float64 `yaml:"makeup_leakage_m2"`

	NightStartHour float64 `yaml:"night_start_hour"`
	NightEndHour   float64 `yaml:"night_end_hour"`
}

// DefaultConstants mirror the tuned source values.
func DefaultConstants() Constants {
	return Constants{
		TrickleACH: 0.6,
		OpenACH:    4.0,
		PurgeACH:   6.0,

		AdaptiveFloorACH:   0.5,
		AdaptiveCeilingACH: 6.0,
		AdaptiveRangeC:     4.0,
		MinBenefitDeltaC:   1.0,
		NightFloorC:        16.0,

		MVHRBaseACH:  0.5,
		MVHRBoostACH: 1.0,
		BypassDeltaC: 2.0,

		DischargeCoeff:         0.61,
		WindPressureCoeff:      0.6,
		PracticalVelocityCapMS: 3.0,
		MakeupLeakageM2:        0.05,

		NightStartHour: 23,
		NightEndHour:   7,
	}
}

// Openings are the manually opened free areas supplied by the UI each tick.
type Openings struct {
	FaceAreaM2     [4]float64 `json:"face_area_m2"`
	FaceAzimuthDeg [4]float64 `json:"face_azimuth_deg"`
	RoofAreaM2     float64    `json:"roof_area_m2"`
}

// TotalFaceAreaM2 sums the facade openings after clamping.
func (o Openings) TotalFaceAreaM2() float64 {
	var sum float64
	for _, a := range o.FaceAreaM2 {
		sum += clampArea(a)
	}
	return sum
}

// Inputs are the instantaneous values the policy decides on. Nothing else is
// carried between steps.
type Inputs struct {
	IndoorC   float64
	OutdoorC  float64
	WindMS    float64
	LocalHour float64
	Openings  Openings
}

// Policy evaluates the configured ventilation strategy for one timestep.
type Policy struct {
	Config       model.VentConfig
	Band         model.ComfortBand
	VolumeM3     float64
	StackHeightM float64
	K            Constants
}

// Evaluate returns the ventilation outcome for the given instant. The total
// rate never drops below the background infiltration rate, and ACHWindow is
// whatever sits above it.
func (p Policy) Evaluate(in Inputs) Result {
	cfg := p.Config.Normalize()

	var r Result
	switch cfg.Mode {
	case model.VentAdaptive:
		r = p.adaptive(cfg, in)
	case model.VentMVHR:
		r = p.mvhr(cfg, in)
	case model.VentManual:
		r = p.manual(cfg, in)
	default:
		r = p.preset(cfg, in)
	}

	if r.ACHTotal < cfg.BackgroundACH || math.IsNaN(r.ACHTotal) {
		r.ACHTotal = cfg.BackgroundACH
	}
	r.ACHWindow = r.ACHTotal - cfg.BackgroundACH
	if r.ACHWindow < 0 {
		r.ACHWindow = 0
	}
	return r
}

// adaptive seeks the comfort band: above it, and with usefully cooler outdoor
// air, the rate scales linearly with the overheating degree. A cold-night
// guard holds the background rate to avoid overcooling the fabric.
func (p Policy) adaptive(cfg model.VentConfig, in Inputs) Result {
	overheat := in.IndoorC - p.Band.MaxC
	benefit := in.IndoorC - in.OutdoorC

	if overheat <= 0 || benefit < p.K.MinBenefitDeltaC {
		return Result{Kind: KindBackground, ACHTotal: cfg.BackgroundACH, Reason: "no cooling benefit"}
	}
	if p.isNight(in.LocalHour) && in.OutdoorC < p.K.NightFloorC {
		return Result{Kind: KindBackground, ACHTotal: cfg.BackgroundACH, Reason: "night guard"}
	}

	degree := overheat / p.K.AdaptiveRangeC
	if degree > 1 {
		degree = 1
	}
	ach := p.K.AdaptiveFloorACH + degree*(p.K.AdaptiveCeilingACH-p.K.AdaptiveFloorACH)
	return Result{Kind: KindAdaptive, ACHTotal: ach, Active: true, Reason: "temperature seeking"}
}

// mvhr runs a boosted rate during the two daily occupied windows and a summer
// bypass when outdoor air can usefully cool an overheated zone. The bypass
// forfeits heat recovery for the step.
func (p Policy) mvhr(cfg model.VentConfig, in Inputs) Result {
	if in.IndoorC > p.Band.MaxC && in.IndoorC-in.OutdoorC > p.K.BypassDeltaC {
		return Result{Kind: KindMVHR, ACHTotal: p.K.MVHRBoostACH, Active: true, Reason: "summer bypass"}
	}

	occupied := (in.LocalHour >= 7 && in.LocalHour < 9) || (in.LocalHour >= 17 && in.LocalHour < 22)
	if occupied {
		return Result{Kind: KindMVHR, ACHTotal: p.K.MVHRBoostACH, Active: true, HeatRecovery: true, Reason: "occupied boost"}
	}
	return Result{Kind: KindMVHR, ACHTotal: p.K.MVHRBaseACH, HeatRecovery: true, Reason: "base rate"}
}

// preset resolves the fixed-rate modes, boosted to the purge rate inside the
// configured night window.
func (p Policy) preset(cfg model.VentConfig, in Inputs) Result {
	var ach float64
	active := false
	switch cfg.Mode {
	case model.VentTrickle:
		ach = p.K.TrickleACH
	case model.VentOpen:
		ach = p.K.OpenACH
		active = true
	case model.VentPurge:
		ach = p.K.PurgeACH
		active = true
	default:
		ach = cfg.BackgroundACH
	}

	if cfg.NightPurge && p.isNight(in.LocalHour) && ach < p.K.PurgeACH {
		return Result{Kind: KindPreset, ACHTotal: p.K.PurgeACH, Active: true, Reason: "night purge"}
	}
	kind := KindPreset
	if cfg.Mode == model.VentBackground || cfg.Mode == "" {
		kind = KindBackground
	}
	return Result{Kind: kind, ACHTotal: ach, Active: active, Reason: string(cfg.Mode)}
}

// manual adds the natural-ventilation flow from open windows and rooflight on
// top of the base rate. Manual openings are always additive.
func (p Policy) manual(cfg model.VentConfig, in Inputs) Result {
	achWindow, mode := p.naturalACH(cfg, in)
	return Result{
		Kind:     KindManual,
		ACHTotal: cfg.BackgroundACH + achWindow,
		Active:   achWindow > 0,
		Reason:   mode,
	}
}

func (p Policy) isNight(localHour float64) bool {
	if p.K.NightStartHour > p.K.NightEndHour {
		return localHour >= p.K.NightStartHour || localHour < p.K.NightEndHour
	}
	return localHour >= p.K.NightStartHour && localHour < p.K.NightEndHour
}

func clampArea(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
		return 0
	}
	return a
}
