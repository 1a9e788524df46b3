package simulator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/preset"
	"comfort_simulator/internal/weather"
)

var statsBand = model.ComfortBand{MinC: 18, MaxC: 26}

// syntheticSeries builds an hourly year with a seasonal indoor swing so the
// aggregator sees all three comfort states.
func syntheticSeries(band model.ComfortBand) []StepRecord {
	start := time.Date(weather.ModelYear, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]StepRecord, model.HoursPerYear)
	for i := range records {
		at := start.Add(time.Duration(i) * time.Hour)
		doy := float64(at.YearDay())
		// 10 degrees in January up to about 30 in July.
		indoor := 20 + 10*math.Cos(2*math.Pi*(doy-196)/365)
		records[i] = StepRecord{
			Time:     at,
			IndoorC:  indoor,
			OutdoorC: indoor - 5,
			Comfort:  band.Classify(indoor),
		}
	}
	return records
}

func TestAggregate_ComfortPartition(t *testing.T) {
	series := syntheticSeries(statsBand)
	s := Aggregate(series, statsBand, preset.Tariff{}, preset.CarbonFactors{})

	assert.Equal(t, len(series), s.HoursInComfort+s.HeatingHours+s.OverheatingHours)
	assert.Greater(t, s.HeatingHours, 0)
	assert.Greater(t, s.OverheatingHours, 0)
	assert.Greater(t, s.HoursInComfort, 0)
}

func TestAggregate_HistogramCountsSum(t *testing.T) {
	series := syntheticSeries(statsBand)
	s := Aggregate(series, statsBand, preset.Tariff{}, preset.CarbonFactors{})

	total := 0
	for _, c := range s.Histogram.Counts {
		total += c
	}
	assert.Equal(t, len(series), total)
	assert.InDelta(t, -10, s.Histogram.MinC, 0.001)
	assert.InDelta(t, 1, s.Histogram.BinWidthC, 0.001)
}

func TestAggregate_Extremes(t *testing.T) {
	series := syntheticSeries(statsBand)
	s := Aggregate(series, statsBand, preset.Tariff{}, preset.CarbonFactors{})

	assert.InDelta(t, 30, s.PeakIndoorC, 0.2)
	assert.InDelta(t, 10, s.MinIndoorC, 0.2)
	assert.Equal(t, time.July, s.PeakTime.Month())
	assert.Greater(t, s.MeanIndoorC, s.MinIndoorC)
	assert.Less(t, s.MeanIndoorC, s.PeakIndoorC)
	assert.InDelta(t, s.MeanIndoorC-5, s.MeanOutdoorC, 0.01)
}

func TestAggregate_MonthlyOverheatingConsistent(t *testing.T) {
	series := syntheticSeries(statsBand)
	s := Aggregate(series, statsBand, preset.Tariff{}, preset.CarbonFactors{})

	total := 0
	for _, h := range s.MonthlyOverheatingHours {
		total += h
	}
	assert.Equal(t, s.OverheatingHours, total)
	// Mid-winter months carry no overheating in this profile.
	assert.Zero(t, s.MonthlyOverheatingHours[0])
	assert.Greater(t, s.MonthlyOverheatingHours[6], 0)
}

func TestAggregate_EnergyCostAndCarbon(t *testing.T) {
	series := syntheticSeries(statsBand)
	for i := range series {
		series[i].HeatingW = 1000
		series[i].CoolingW = 500
	}
	tariff := preset.Tariff{HeatingPerKWh: 0.07, CoolingPerKWh: 0.28, Currency: "GBP"}
	carbon := preset.CarbonFactors{HeatingKgPerKWh: 0.21, CoolingKgPerKWh: 0.14}

	s := Aggregate(series, statsBand, tariff, carbon)

	assert.InDelta(t, 8760, s.HeatingKWh, 0.1)
	assert.InDelta(t, 4380, s.CoolingKWh, 0.1)
	assert.InDelta(t, 8760*0.07+4380*0.28, s.EnergyCost, 0.5)
	assert.InDelta(t, 8760*0.21+4380*0.14, s.CarbonKg, 0.5)
	assert.Equal(t, "GBP", s.Currency)
}

func TestAggregate_ExtremalWeeks(t *testing.T) {
	series := syntheticSeries(statsBand)
	s := Aggregate(series, statsBand, preset.Tariff{}, preset.CarbonFactors{})

	require.Len(t, s.WorstWeek.Records, 168)
	require.Len(t, s.ColdestWeek.Records, 168)

	// The worst week sits in summer, the coldest in winter.
	assert.Greater(t, s.WorstWeek.OverheatHrs, 0)
	assert.Greater(t, s.WorstWeek.MeanOutdoorC, s.ColdestWeek.MeanOutdoorC)
}

func TestAggregate_EmptySeries(t *testing.T) {
	s := Aggregate(nil, statsBand, preset.Tariff{}, preset.CarbonFactors{})
	assert.Zero(t, s.PeakIndoorC)
	assert.Zero(t, s.MinIndoorC)
	assert.Zero(t, s.HoursInComfort)
	assert.Empty(t, s.WorstWeek.Records)
}
