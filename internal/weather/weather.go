package weather

import (
	"errors"
	"math"
	"time"

	"comfort_simulator/internal/model"
)

// ModelYear is the fixed, non-leap year every simulation runs in.
const ModelYear = 2021

// ErrDatasetLength rejects hourly datasets that are not exactly one model
// year long. Callers fall back to synthetic forcing rather than failing.
var ErrDatasetLength = errors.New("weather: hourly dataset must contain exactly 8760 records")

// Conditions are the forcing values at one instant.
type Conditions struct {
	DryBulbC float64
	// Irradiance components, W/m2. Only meaningful when Measured is true;
	// otherwise the engine derives clear-sky values attenuated by SkyCover.
	DirectNormal      float64
	DiffuseHorizontal float64
	GlobalHorizontal  float64
	WindMS            float64
	SkyCoverTenths    float64
	Measured          bool
}

// Source yields forcing conditions for any instant. Implementations are pure.
type Source interface {
	At(t time.Time) Conditions
}

// Synthetic is a periodic temperature profile: a seasonal sinusoid carrying a
// diurnal sinusoid, with optional constant wind. It never reports measured
// irradiance, so irradiance falls back to the clear-sky model.
type Synthetic struct {
	SummerPeakC  float64 `json:"summer_peak_c" yaml:"summer_peak_c"`
	WinterPeakC  float64 `json:"winter_peak_c" yaml:"winter_peak_c"`
	DiurnalRange float64 `json:"diurnal_range_c" yaml:"diurnal_range_c"`
	MeanWindMS   float64 `json:"mean_wind_ms" yaml:"mean_wind_ms"`
}

// DefaultSynthetic is a temperate maritime profile.
func DefaultSynthetic() Synthetic {
	return Synthetic{SummerPeakC: 22, WinterPeakC: 6, DiurnalRange: 8, MeanWindMS: 3}
}

func (s Synthetic) At(t time.Time) Conditions {
	doy := float64(t.YearDay())
	hour := float64(t.Hour()) + float64(t.Minute())/60

	mean := (s.SummerPeakC + s.WinterPeakC) / 2
	seasonAmp := (s.SummerPeakC - s.WinterPeakC) / 2
	// Seasonal peak near mid July (day 196).
	season := mean + seasonAmp*math.Cos(2*math.Pi*(doy-196)/365)

	// Diurnal minimum near 05:00, peak near 15:00.
	diurnal := (s.DiurnalRange / 2) * math.Cos(2*math.Pi*(hour-15)/24)

	return Conditions{
		DryBulbC: season + diurnal,
		WindMS:   s.MeanWindMS,
	}
}

// Dataset is a fixed hourly forcing series of exactly one model year.
type Dataset struct {
	records []model.HourlyRecord
}

// NewDataset validates the record count. Anything but 8760 rows is rejected.
func NewDataset(records []model.HourlyRecord) (*Dataset, error) {
	if len(records) != model.HoursPerYear {
		return nil, ErrDatasetLength
	}
	return &Dataset{records: records}, nil
}

// At returns the record covering the hour of year of t. Instants outside the
// model year wrap by hour index, which keeps spin-up periods well defined.
func (d *Dataset) At(t time.Time) Conditions {
	start := time.Date(ModelYear, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := int(math.Floor(t.Sub(start).Hours()))
	idx %= model.HoursPerYear
	if idx < 0 {
		idx += model.HoursPerYear
	}
	r := d.records[idx]
	return Conditions{
		DryBulbC:          r.DryBulbTempC,
		DirectNormal:      r.DirectNormalWhm2,
		DiffuseHorizontal: r.DiffuseHorizontalWhm2,
		GlobalHorizontal:  r.GlobalHorizontalWhm2,
		WindMS:            r.WindMS,
		SkyCoverTenths:    r.TotalSkyCoverTenths,
		Measured:          true,
	}
}

// Stats summarizes a dataset for validation display.
type Stats struct {
	MinTempC       float64 `json:"min_temp_c"`
	MaxTempC       float64 `json:"max_temp_c"`
	MeanTempC      float64 `json:"mean_temp_c"`
	AnnualGHIkWhm2 float64 `json:"annual_ghi_kwh_m2"`
	MeanWindMS     float64 `json:"mean_wind_ms"`
}

// Stats computes validation statistics over the full year.
func (d *Dataset) Stats() Stats {
	s := Stats{MinTempC: math.Inf(1), MaxTempC: math.Inf(-1)}
	var tempSum, ghiSum, windSum float64
	for _, r := range d.records {
		if r.DryBulbTempC < s.MinTempC {
			s.MinTempC = r.DryBulbTempC
		}
		if r.DryBulbTempC > s.MaxTempC {
			s.MaxTempC = r.DryBulbTempC
		}
		tempSum += r.DryBulbTempC
		ghiSum += r.GlobalHorizontalWhm2
		windSum += r.WindMS
	}
	n := float64(len(d.records))
	s.MeanTempC = tempSum / n
	s.AnnualGHIkWhm2 = ghiSum / 1000
	s.MeanWindMS = windSum / n
	return s
}

// FallbackSource wraps an optional dataset over a synthetic profile. A nil or
// rejected dataset silently degrades to the synthetic forcing.
type FallbackSource struct {
	Synthetic Synthetic
	Dataset   *Dataset
}

func (f FallbackSource) At(t time.Time) Conditions {
	if f.Dataset != nil {
		return f.Dataset.At(t)
	}
	return f.Synthetic.At(t)
}
