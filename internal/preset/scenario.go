package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"comfort_simulator/internal/model"
	"comfort_simulator/internal/weather"
)

// Scenario is a YAML-loadable run description for the CLIs. Missing fields
// fall back to defaults, so an empty file is a valid scenario.
type Scenario struct {
	Location model.Location `yaml:"location"`
	Geometry model.Geometry `yaml:"geometry"`
	// EnvelopePreset picks a named table entry; Envelope overrides it when
	// any U-value is set.
	EnvelopePreset      string              `yaml:"envelope_preset"`
	Envelope            model.Envelope      `yaml:"envelope"`
	Faces               [4]model.FaceConfig `yaml:"faces"`
	Vent                model.VentConfig    `yaml:"vent"`
	Band                *model.ComfortBand  `yaml:"comfort_band"`
	Synthetic           *weather.Synthetic  `yaml:"synthetic_weather"`
	InternalGainsW      float64             `yaml:"internal_gains_w"`
	ThermalMassKJPerM2K float64             `yaml:"thermal_mass_kj_per_m2k"`
}

// LoadScenario reads a YAML scenario file. An empty path returns defaults.
func LoadScenario(path string) (Scenario, error) {
	var sc Scenario
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return sc, fmt.Errorf("read scenario: %w", err)
		}
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return sc, fmt.Errorf("parse scenario: %w", err)
		}
	}
	sc.applyDefaults()
	return sc, nil
}

func (s *Scenario) applyDefaults() {
	if s.Location == (model.Location{}) {
		s.Location = model.Location{LatitudeDeg: 51.5, LongitudeDeg: -0.1}
	}
	if !s.Geometry.Valid() {
		s.Geometry = model.Geometry{WidthM: 6, DepthM: 8, HeightM: 2.7, OrientationDeg: 180}
	}
	if s.EnvelopePreset == "" {
		s.EnvelopePreset = "2010s"
	}
	var zeroFaces [4]model.FaceConfig
	if s.Faces == zeroFaces {
		s.Faces[model.FaceFront].GlazingFraction = 0.4
		s.Faces[model.FaceBack].GlazingFraction = 0.2
	}
	if s.Vent.Mode == "" {
		s.Vent.Mode = model.VentBackground
	}
	if s.Vent.BackgroundACH == 0 {
		s.Vent.BackgroundACH = 0.3
	}
	if s.InternalGainsW == 0 {
		s.InternalGainsW = 200
	}
	if s.ThermalMassKJPerM2K == 0 {
		s.ThermalMassKJPerM2K = 165
	}
}

// ResolveEnvelope applies the preset table plus any explicit overrides.
func (s Scenario) ResolveEnvelope(lib Library) model.Envelope {
	env := lib.Envelope(s.EnvelopePreset)
	if s.Envelope.WallU > 0 {
		env.WallU = s.Envelope.WallU
	}
	if s.Envelope.RoofU > 0 {
		env.RoofU = s.Envelope.RoofU
	}
	if s.Envelope.FloorU > 0 {
		env.FloorU = s.Envelope.FloorU
	}
	if s.Envelope.WindowU > 0 {
		env.WindowU = s.Envelope.WindowU
	}
	if s.Envelope.WindowG > 0 {
		env.WindowG = s.Envelope.WindowG
	}
	if s.Envelope.RooflightAreaM2 > 0 {
		env.RooflightAreaM2 = s.Envelope.RooflightAreaM2
		env.RooflightU = s.Envelope.RooflightU
		env.RooflightG = s.Envelope.RooflightG
	}
	return env.Normalize()
}

// ResolveBand returns the scenario comfort band or the library default.
func (s Scenario) ResolveBand(lib Library) model.ComfortBand {
	if s.Band != nil {
		return *s.Band
	}
	return lib.Band
}

// ResolveSynthetic returns the scenario synthetic profile or the default.
func (s Scenario) ResolveSynthetic() weather.Synthetic {
	if s.Synthetic != nil {
		return *s.Synthetic
	}
	return weather.DefaultSynthetic()
}
