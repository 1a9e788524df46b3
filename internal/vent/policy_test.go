package vent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comfort_simulator/internal/model"
)

func testPolicy(mode model.VentMode) Policy {
	return Policy{
		Config: model.VentConfig{
			Mode:            mode,
			BackgroundACH:   0.3,
			HeatRecoveryEta: 0.85,
			ShelterFactor:   0.5,
		},
		Band:         model.ComfortBand{MinC: 18, MaxC: 26},
		VolumeM3:     129.6,
		StackHeightM: 2.7,
		K:            DefaultConstants(),
	}
}

func TestEvaluate_BackgroundFloor(t *testing.T) {
	p := testPolicy(model.VentBackground)
	r := p.Evaluate(Inputs{IndoorC: 22, OutdoorC: 10, LocalHour: 12})

	assert.Equal(t, KindBackground, r.Kind)
	assert.InDelta(t, 0.3, r.ACHTotal, 0.001)
	assert.Zero(t, r.ACHWindow)
	assert.False(t, r.Active)
}

func TestEvaluate_PresetRates(t *testing.T) {
	r := testPolicy(model.VentTrickle).Evaluate(Inputs{LocalHour: 12})
	assert.Equal(t, KindPreset, r.Kind)
	assert.InDelta(t, 0.6, r.ACHTotal, 0.001)
	assert.InDelta(t, 0.3, r.ACHWindow, 0.001)

	r = testPolicy(model.VentOpen).Evaluate(Inputs{LocalHour: 12})
	assert.InDelta(t, 4.0, r.ACHTotal, 0.001)
	assert.True(t, r.Active)

	r = testPolicy(model.VentPurge).Evaluate(Inputs{LocalHour: 12})
	assert.InDelta(t, 6.0, r.ACHTotal, 0.001)
}

func TestEvaluate_NightPurgeBoost(t *testing.T) {
	p := testPolicy(model.VentTrickle)
	p.Config.NightPurge = true

	day := p.Evaluate(Inputs{LocalHour: 12})
	assert.InDelta(t, 0.6, day.ACHTotal, 0.001)

	night := p.Evaluate(Inputs{LocalHour: 2})
	assert.InDelta(t, 6.0, night.ACHTotal, 0.001)
	assert.Equal(t, "night purge", night.Reason)
	assert.True(t, night.Active)
}

func TestEvaluate_AdaptiveScalesWithOverheat(t *testing.T) {
	p := testPolicy(model.VentAdaptive)

	// Inside the band: background only.
	r := p.Evaluate(Inputs{IndoorC: 24, OutdoorC: 15, LocalHour: 14})
	assert.Equal(t, KindBackground, r.Kind)
	assert.InDelta(t, 0.3, r.ACHTotal, 0.001)

	mild := p.Evaluate(Inputs{IndoorC: 27, OutdoorC: 15, LocalHour: 14})
	assert.Equal(t, KindAdaptive, mild.Kind)
	assert.True(t, mild.Active)

	severe := p.Evaluate(Inputs{IndoorC: 30, OutdoorC: 15, LocalHour: 14})
	assert.Greater(t, severe.ACHTotal, mild.ACHTotal)
	// Fully saturated at or beyond the overheat range.
	assert.InDelta(t, 6.0, severe.ACHTotal, 0.001)
}

func TestEvaluate_AdaptiveNeedsCoolingBenefit(t *testing.T) {
	p := testPolicy(model.VentAdaptive)
	// Overheated, but outdoor air is warmer than indoor: opening cannot help.
	r := p.Evaluate(Inputs{IndoorC: 28, OutdoorC: 30, LocalHour: 14})
	assert.Equal(t, KindBackground, r.Kind)
	assert.Equal(t, "no cooling benefit", r.Reason)
}

func TestEvaluate_AdaptiveNightGuard(t *testing.T) {
	p := testPolicy(model.VentAdaptive)
	r := p.Evaluate(Inputs{IndoorC: 28, OutdoorC: 10, LocalHour: 3})
	assert.Equal(t, KindBackground, r.Kind)
	assert.Equal(t, "night guard", r.Reason)

	// The same conditions during the day open up.
	r = p.Evaluate(Inputs{IndoorC: 28, OutdoorC: 10, LocalHour: 14})
	assert.Equal(t, KindAdaptive, r.Kind)

	// Warm nights are exempt from the guard.
	r = p.Evaluate(Inputs{IndoorC: 28, OutdoorC: 18, LocalHour: 3})
	assert.Equal(t, KindAdaptive, r.Kind)
}

func TestEvaluate_MVHRSchedule(t *testing.T) {
	p := testPolicy(model.VentMVHR)

	base := p.Evaluate(Inputs{IndoorC: 21, OutdoorC: 10, LocalHour: 12})
	assert.Equal(t, KindMVHR, base.Kind)
	assert.InDelta(t, 0.5, base.ACHTotal, 0.001)
	assert.True(t, base.HeatRecovery)

	morning := p.Evaluate(Inputs{IndoorC: 21, OutdoorC: 10, LocalHour: 8})
	assert.InDelta(t, 1.0, morning.ACHTotal, 0.001)
	assert.True(t, morning.Active)
	assert.True(t, morning.HeatRecovery)

	evening := p.Evaluate(Inputs{IndoorC: 21, OutdoorC: 10, LocalHour: 19})
	assert.InDelta(t, 1.0, evening.ACHTotal, 0.001)
}

func TestEvaluate_MVHRSummerBypass(t *testing.T) {
	p := testPolicy(model.VentMVHR)
	r := p.Evaluate(Inputs{IndoorC: 28, OutdoorC: 20, LocalHour: 15})
	assert.Equal(t, "summer bypass", r.Reason)
	// Bypass forfeits heat recovery for the step.
	assert.False(t, r.HeatRecovery)
	assert.InDelta(t, 1.0, r.ACHTotal, 0.001)
}

func TestEvaluate_ManualClosedWindowsIsBackground(t *testing.T) {
	p := testPolicy(model.VentManual)
	r := p.Evaluate(Inputs{IndoorC: 24, OutdoorC: 15, WindMS: 3, LocalHour: 12})

	assert.Equal(t, KindManual, r.Kind)
	assert.InDelta(t, 0.3, r.ACHTotal, 0.0001)
	assert.Zero(t, r.ACHWindow)
	assert.False(t, r.Active)
	assert.Equal(t, "none", r.Reason)
}

func TestEvaluate_ManualOpeningsAdditive(t *testing.T) {
	p := testPolicy(model.VentManual)
	in := Inputs{
		IndoorC: 26, OutdoorC: 18, WindMS: 3, LocalHour: 12,
		Openings: Openings{
			FaceAreaM2:     [4]float64{0.8, 0, 0, 0},
			FaceAzimuthDeg: [4]float64{180, 270, 0, 90},
		},
	}
	r := p.Evaluate(in)
	assert.True(t, r.Active)
	assert.Greater(t, r.ACHWindow, 0.0)
	assert.InDelta(t, 0.3+r.ACHWindow, r.ACHTotal, 0.0001)
	assert.Equal(t, "single", r.Reason)
	// Window-driven air never credits heat recovery.
	assert.False(t, r.HeatRecovery)
}

func TestIsNight_WrapsMidnight(t *testing.T) {
	p := testPolicy(model.VentBackground)
	assert.True(t, p.isNight(23.5))
	assert.True(t, p.isNight(3))
	assert.False(t, p.isNight(7))
	assert.False(t, p.isNight(12))
}
