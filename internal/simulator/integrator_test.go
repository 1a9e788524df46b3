package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/weather"
)

func TestRunDay_StepCountAndSpacing(t *testing.T) {
	e := New(testConfig())
	records := e.RunDay(time.June, 21, DayOptions{SpinUpDays: 1})

	require.Len(t, records, 144)
	assert.Equal(t, 10*time.Minute, records[1].Time.Sub(records[0].Time))

	// The series starts at local midnight of the requested day.
	assert.Equal(t, time.June, records[0].Time.Month())
	assert.Equal(t, 21, records[0].Time.Day())
}

func TestRunDay_Deterministic(t *testing.T) {
	cfg := testConfig()
	a := New(cfg).RunDay(time.June, 21, DayOptions{SpinUpDays: 2})
	b := New(cfg).RunDay(time.June, 21, DayOptions{SpinUpDays: 2})
	assert.Equal(t, a, b)
}

func TestRunDay_CustomStep(t *testing.T) {
	e := New(testConfig())
	records := e.RunDay(time.June, 21, DayOptions{SpinUpDays: 1, Step: time.Hour})
	assert.Len(t, records, 24)
}

func TestRunDay_SpinUpRemovesInitialBias(t *testing.T) {
	cfg := testConfig()
	cfg.Weather = fixedWeather{weather.Conditions{DryBulbC: 0, Measured: true}}
	e := New(cfg)

	records := e.RunDay(time.January, 15, DayOptions{SpinUpDays: 7})
	// After a week at 0 degrees outdoors the zone has settled far below the
	// 20 degree initial condition.
	assert.Less(t, records[0].IndoorC, 12.0)
}

func TestRunYear_FullSeries(t *testing.T) {
	e := New(testConfig())
	records := e.RunYear()

	require.Len(t, records, model.HoursPerYear)
	assert.Equal(t, time.Hour, records[1].Time.Sub(records[0].Time))

	for _, r := range []StepRecord{records[0], records[4000], records[8759]} {
		assert.Equal(t, weather.ModelYear, r.Time.Year())
	}
}

func TestRunYear_SummerWarmerThanWinter(t *testing.T) {
	e := New(testConfig())
	records := e.RunYear()

	var january, july float64
	var nJan, nJul int
	for _, r := range records {
		switch r.Time.Month() {
		case time.January:
			january += r.IndoorC
			nJan++
		case time.July:
			july += r.IndoorC
			nJul++
		}
	}
	assert.Greater(t, july/float64(nJul), january/float64(nJan))
}

func TestRecord_DemandAtBandEdges(t *testing.T) {
	cfg := testConfig()
	cfg.Weather = fixedWeather{weather.Conditions{DryBulbC: 0, Measured: true}}
	e := New(cfg)

	snap := e.Evaluate(time.Date(weather.ModelYear, 1, 15, 3, 0, 0, 0, time.UTC), 15)
	r := e.record(snap)

	// Holding 18 degrees against 0 outside needs more than the free gains.
	assert.Greater(t, r.HeatingW, 0.0)
	assert.Zero(t, r.CoolingW)
	assert.Equal(t, model.StateHeating, r.Comfort)

	ua := snap.UAFabric + snap.UAVent
	assert.InDelta(t, ua*18-snap.SolarGainW-snap.InternalGainsW, r.HeatingW, 0.001)
}

func TestAdvance_MovesTowardSteadyState(t *testing.T) {
	cfg := testConfig()
	cfg.Weather = fixedWeather{weather.Conditions{DryBulbC: 10, Measured: true}}
	e := New(cfg)
	at := time.Date(weather.ModelYear, 1, 15, 3, 0, 0, 0, time.UTC)

	snap := e.Evaluate(at, 25)
	cooled := e.advance(snap, 25, time.Hour)
	assert.Less(t, cooled, 25.0)
	assert.Greater(t, cooled, snap.SteadyStateC)

	snap = e.Evaluate(at, snap.SteadyStateC)
	held := e.advance(snap, snap.SteadyStateC, time.Hour)
	assert.InDelta(t, snap.SteadyStateC, held, 0.01)
}
