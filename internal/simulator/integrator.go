package simulator

import (
	"time"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/weather"
)

// StepRecord is one emitted point of a simulated series. Day series use
// 10-minute steps; annual series are hourly.
type StepRecord struct {
	Time     time.Time `json:"time"`
	IndoorC  float64   `json:"indoor_c"`
	OutdoorC float64   `json:"outdoor_c"`

	SolarGainW     float64 `json:"solar_gain_w"`
	InternalGainsW float64 `json:"internal_gains_w"`
	FabricLossW    float64 `json:"fabric_loss_w"`
	VentLossW      float64 `json:"vent_loss_w"`

	ACHTotal   float64 `json:"ach_total"`
	ACHWindow  float64 `json:"ach_window"`
	VentActive bool    `json:"vent_active"`
	VentKind   string  `json:"vent_kind"`

	HeatingW float64 `json:"heating_w"`
	CoolingW float64 `json:"cooling_w"`

	Comfort model.ComfortState `json:"comfort"`
}

// DayOptions tune the day driver. Zero values take the defaults.
type DayOptions struct {
	SpinUpDays int
	Step       time.Duration
}

const (
	defaultSpinUpDays = 7
	defaultDayStep    = 10 * time.Minute
	annualSpinUpHours = 7 * 24
	spinUpStep        = time.Hour
	initialIndoorC    = 20.0
)

// RunDay simulates one calendar day of the model year at sub-hourly
// resolution. A multi-day hourly spin-up ending at local midnight removes
// initial-condition bias before any record is emitted.
func (e *Engine) RunDay(month time.Month, day int, opts DayOptions) []StepRecord {
	if opts.SpinUpDays <= 0 {
		opts.SpinUpDays = defaultSpinUpDays
	}
	if opts.Step <= 0 {
		opts.Step = defaultDayStep
	}

	midnight := e.localMidnightUTC(month, day)
	indoor := e.spinUp(midnight.Add(-time.Duration(opts.SpinUpDays)*24*time.Hour), midnight)

	steps := int((24 * time.Hour) / opts.Step)
	records := make([]StepRecord, 0, steps)
	t := midnight
	for i := 0; i < steps; i++ {
		snap := e.Evaluate(t, indoor)
		records = append(records, e.record(snap))
		indoor = e.advance(snap, indoor, opts.Step)
		t = t.Add(opts.Step)
	}
	return records
}

// RunYear simulates the full 8760-hour model year after an hourly spin-up
// week. The per-step path is identical to the day driver's, so day-level and
// annual results agree for the same configuration.
func (e *Engine) RunYear() []StepRecord {
	start := e.localMidnightUTC(time.January, 1)
	indoor := e.spinUp(start.Add(-annualSpinUpHours*time.Hour), start)

	records := make([]StepRecord, 0, model.HoursPerYear)
	t := start
	for i := 0; i < model.HoursPerYear; i++ {
		snap := e.Evaluate(t, indoor)
		records = append(records, e.record(snap))
		indoor = e.advance(snap, indoor, time.Hour)
		t = t.Add(time.Hour)
	}
	return records
}

// spinUp integrates hourly from start to end and returns the indoor
// temperature at end, discarding the series.
func (e *Engine) spinUp(start, end time.Time) float64 {
	indoor := initialIndoorC
	for t := start; t.Before(end); t = t.Add(spinUpStep) {
		snap := e.Evaluate(t, indoor)
		indoor = e.advance(snap, indoor, spinUpStep)
	}
	return indoor
}

// advance is one forward-Euler step of C·dT/dt = gains − UA·(Tin − Tout).
// Conductance and gains were evaluated at the current indoor temperature, so
// ventilation policy and shading feed back into the derivative.
func (e *Engine) advance(snap Snapshot, indoorC float64, dt time.Duration) float64 {
	if e.capacityJK <= 0 {
		return snap.SteadyStateC
	}
	gains := snap.SolarGainW + snap.InternalGainsW
	losses := (snap.UAFabric + snap.UAVent) * (indoorC - snap.OutdoorC)
	return indoorC + (gains-losses)/e.capacityJK*dt.Seconds()
}

// record converts a snapshot into the emitted step record, classifying the
// comfort state and the steady-state demand to hold the nearest band edge.
func (e *Engine) record(snap Snapshot) StepRecord {
	ua := snap.UAFabric + snap.UAVent
	gains := snap.SolarGainW + snap.InternalGainsW

	heating := ua*(e.cfg.Band.MinC-snap.OutdoorC) - gains
	if heating < 0 {
		heating = 0
	}
	cooling := gains - ua*(e.cfg.Band.MaxC-snap.OutdoorC)
	if cooling < 0 {
		cooling = 0
	}

	return StepRecord{
		Time:           snap.Time,
		IndoorC:        snap.IndoorC,
		OutdoorC:       snap.OutdoorC,
		SolarGainW:     snap.SolarGainW,
		InternalGainsW: snap.InternalGainsW,
		FabricLossW:    snap.FabricLossW,
		VentLossW:      snap.VentLossW,
		ACHTotal:       snap.Vent.ACHTotal,
		ACHWindow:      snap.Vent.ACHWindow,
		VentActive:     snap.Vent.Active,
		VentKind:       string(snap.Vent.Kind),
		HeatingW:       heating,
		CoolingW:       cooling,
		Comfort:        e.cfg.Band.Classify(snap.IndoorC),
	}
}

// localMidnightUTC is 00:00 local time of the given model-year date, in UTC.
func (e *Engine) localMidnightUTC(month time.Month, day int) time.Time {
	utcMidnight := time.Date(weather.ModelYear, month, day, 0, 0, 0, 0, time.UTC)
	return utcMidnight.Add(-time.Duration(e.cfg.Location.TimezoneOffsetHours * float64(time.Hour)))
}
