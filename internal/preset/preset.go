package preset

import (
	"comfort_simulator/internal/model"
)

// Library is the injected read-only table set: envelope presets, comfort
// band, tariff and carbon factors. Engines receive a Library value instead of
// reaching for package globals, so tests can run alternate scenarios.
type Library struct {
	Envelopes map[string]model.Envelope
	Band      model.ComfortBand
	Tariff    Tariff
	Carbon    CarbonFactors
}

// Tariff prices delivered heating and cooling energy.
type Tariff struct {
	HeatingPerKWh float64 `json:"heating_per_kwh" yaml:"heating_per_kwh"`
	CoolingPerKWh float64 `json:"cooling_per_kwh" yaml:"cooling_per_kwh"`
	Currency      string  `json:"currency" yaml:"currency"`
}

// CarbonFactors convert delivered energy to emissions.
type CarbonFactors struct {
	HeatingKgPerKWh float64 `json:"heating_kg_per_kwh" yaml:"heating_kg_per_kwh"`
	CoolingKgPerKWh float64 `json:"cooling_kg_per_kwh" yaml:"cooling_kg_per_kwh"`
}

// Default returns the built-in table set.
func Default() Library {
	return Library{
		Envelopes: map[string]model.Envelope{
			"passivhaus": {WallU: 0.15, RoofU: 0.12, FloorU: 0.15, WindowU: 0.8, WindowG: 0.5},
			"2010s":      {WallU: 0.28, RoofU: 0.16, FloorU: 0.22, WindowU: 1.4, WindowG: 0.6},
			"1970s":      {WallU: 1.0, RoofU: 0.6, FloorU: 0.8, WindowU: 2.8, WindowG: 0.75},
			"victorian":  {WallU: 1.7, RoofU: 2.0, FloorU: 1.2, WindowU: 4.8, WindowG: 0.85},
		},
		Band: model.ComfortBand{MinC: 18, MaxC: 26},
		Tariff: Tariff{
			HeatingPerKWh: 0.07,
			CoolingPerKWh: 0.28,
			Currency:      "GBP",
		},
		Carbon: CarbonFactors{
			HeatingKgPerKWh: 0.21,
			CoolingKgPerKWh: 0.14,
		},
	}
}

// Envelope resolves a named envelope preset, falling back to "2010s".
func (l Library) Envelope(name string) model.Envelope {
	if e, ok := l.Envelopes[name]; ok {
		return e
	}
	return l.Envelopes["2010s"]
}
