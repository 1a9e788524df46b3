package simulator

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/preset"
)

// Histogram is a fixed-bin indoor temperature distribution. Bin i covers
// [MinC + i·BinWidthC, MinC + (i+1)·BinWidthC); out-of-range samples clamp
// into the edge bins so counts always sum to the sample count.
type Histogram struct {
	MinC      float64 `json:"min_c"`
	BinWidthC float64 `json:"bin_width_c"`
	Counts    []int   `json:"counts"`
}

func (h *Histogram) add(tempC float64) {
	i := int(math.Floor((tempC - h.MinC) / h.BinWidthC))
	if i < 0 {
		i = 0
	}
	if i >= len(h.Counts) {
		i = len(h.Counts) - 1
	}
	h.Counts[i]++
}

// Week is an extractable one-week sub-series for charting.
type Week struct {
	Start        time.Time    `json:"start"`
	Records      []StepRecord `json:"records"`
	OverheatHrs  int          `json:"overheat_hours"`
	MeanOutdoorC float64      `json:"mean_outdoor_c"`
}

// AnnualStats is the single-pass aggregation of an annual series.
type AnnualStats struct {
	HoursInComfort   int `json:"hours_in_comfort"`
	HeatingHours     int `json:"heating_hours"`
	OverheatingHours int `json:"overheating_hours"`
	HoursAbove26     int `json:"hours_above_26"`
	HoursAbove28     int `json:"hours_above_28"`

	DegreeHoursBelow float64 `json:"degree_hours_below"`
	DegreeHoursAbove float64 `json:"degree_hours_above"`

	PeakIndoorC float64   `json:"peak_indoor_c"`
	PeakTime    time.Time `json:"peak_time"`
	MinIndoorC  float64   `json:"min_indoor_c"`
	MinTime     time.Time `json:"min_time"`

	MeanIndoorC  float64 `json:"mean_indoor_c"`
	MeanOutdoorC float64 `json:"mean_outdoor_c"`

	MonthlyOverheatingHours [12]int `json:"monthly_overheating_hours"`

	Histogram Histogram `json:"histogram"`

	HeatingKWh float64 `json:"heating_kwh"`
	CoolingKWh float64 `json:"cooling_kwh"`
	EnergyCost float64 `json:"energy_cost"`
	Currency   string  `json:"currency"`
	CarbonKg   float64 `json:"carbon_kg"`

	WorstWeek   Week `json:"worst_week"`
	ColdestWeek Week `json:"coldest_week"`
}

const (
	histMinC     = -10.0
	histMaxC     = 40.0
	histBinC     = 1.0
	hoursPerWeek = 168
)

// Aggregate computes annual statistics from an hourly series in one pass
// (plus a week scan). Every hour lands in exactly one comfort state, so
// HoursInComfort + HeatingHours + OverheatingHours equals the series length.
func Aggregate(series []StepRecord, band model.ComfortBand, tariff preset.Tariff, carbon preset.CarbonFactors) AnnualStats {
	s := AnnualStats{
		PeakIndoorC: math.Inf(-1),
		MinIndoorC:  math.Inf(1),
		Histogram: Histogram{
			MinC:      histMinC,
			BinWidthC: histBinC,
			Counts:    make([]int, int((histMaxC-histMinC)/histBinC)),
		},
		Currency: tariff.Currency,
	}
	if len(series) == 0 {
		s.PeakIndoorC, s.MinIndoorC = 0, 0
		return s
	}

	indoor := make([]float64, len(series))
	outdoor := make([]float64, len(series))

	for i, r := range series {
		indoor[i] = r.IndoorC
		outdoor[i] = r.OutdoorC

		switch r.Comfort {
		case model.StateHeating:
			s.HeatingHours++
			s.DegreeHoursBelow += band.MinC - r.IndoorC
		case model.StateOverheating:
			s.OverheatingHours++
			s.DegreeHoursAbove += r.IndoorC - band.MaxC
			s.MonthlyOverheatingHours[r.Time.Month()-1]++
		default:
			s.HoursInComfort++
		}

		if r.IndoorC > 26 {
			s.HoursAbove26++
		}
		if r.IndoorC > 28 {
			s.HoursAbove28++
		}

		if r.IndoorC > s.PeakIndoorC {
			s.PeakIndoorC = r.IndoorC
			s.PeakTime = r.Time
		}
		if r.IndoorC < s.MinIndoorC {
			s.MinIndoorC = r.IndoorC
			s.MinTime = r.Time
		}

		s.Histogram.add(r.IndoorC)

		s.HeatingKWh += r.HeatingW / 1000
		s.CoolingKWh += r.CoolingW / 1000
	}

	s.MeanIndoorC = stat.Mean(indoor, nil)
	s.MeanOutdoorC = stat.Mean(outdoor, nil)

	s.EnergyCost = s.HeatingKWh*tariff.HeatingPerKWh + s.CoolingKWh*tariff.CoolingPerKWh
	s.CarbonKg = s.HeatingKWh*carbon.HeatingKgPerKWh + s.CoolingKWh*carbon.CoolingKgPerKWh

	s.WorstWeek, s.ColdestWeek = extremalWeeks(series)
	return s
}

// extremalWeeks finds the week with the most overheating hours and the week
// with the lowest mean outdoor temperature.
func extremalWeeks(series []StepRecord) (worst, coldest Week) {
	weeks := len(series) / hoursPerWeek
	if weeks == 0 {
		return
	}

	coldestMean := math.Inf(1)
	worstHours := -1

	for w := 0; w < weeks; w++ {
		chunk := series[w*hoursPerWeek : (w+1)*hoursPerWeek]

		overheat := 0
		out := make([]float64, len(chunk))
		for i, r := range chunk {
			out[i] = r.OutdoorC
			if r.Comfort == model.StateOverheating {
				overheat++
			}
		}
		mean := stat.Mean(out, nil)

		if overheat > worstHours {
			worstHours = overheat
			worst = Week{Start: chunk[0].Time, Records: chunk, OverheatHrs: overheat, MeanOutdoorC: mean}
		}
		if mean < coldestMean {
			coldestMean = mean
			coldest = Week{Start: chunk[0].Time, Records: chunk, OverheatHrs: overheat, MeanOutdoorC: mean}
		}
	}
	return
}
