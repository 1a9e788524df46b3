package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"comfort_simulator/internal/preset"
	"comfort_simulator/internal/simulator"
	"comfort_simulator/internal/weather"
	"comfort_simulator/internal/ws"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	scenarioPath := flag.String("scenario", "", "YAML scenario file (optional)")
	weatherPath := flag.String("weather", "", "hourly weather CSV (optional, synthetic fallback)")
	frontendDir := flag.String("frontend-dir", "frontend/build", "directory containing frontend build")
	flag.Parse()

	scenario, err := preset.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	lib := preset.Default()
	cfg := buildConfig(scenario, lib, *weatherPath)

	hub := ws.NewHub()
	handler := ws.NewHandler(hub, lib, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	if _, err := os.Stat(*frontendDir); err == nil {
		log.Printf("Serving frontend from %s", *frontendDir)
		mux.Handle("/", http.FileServer(http.Dir(*frontendDir)))
	}

	log.Printf("Starting server on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}

// buildConfig assembles the engine configuration from the scenario, the
// preset library and an optional weather file. A missing or malformed
// dataset degrades to the synthetic profile.
func buildConfig(sc preset.Scenario, lib preset.Library, weatherPath string) simulator.Config {
	source := weather.FallbackSource{Synthetic: sc.ResolveSynthetic()}
	if weatherPath != "" {
		ds, err := weather.LoadCSV(weatherPath)
		if err != nil {
			log.Printf("Weather data unusable, using synthetic profile: %v", err)
		} else {
			source.Dataset = ds
			st := ds.Stats()
			log.Printf("Weather loaded: temp %.1f..%.1f C, %.0f kWh/m2 annual GHI",
				st.MinTempC, st.MaxTempC, st.AnnualGHIkWhm2)
		}
	}

	return simulator.Config{
		Location:            sc.Location,
		Geometry:            sc.Geometry,
		Envelope:            sc.ResolveEnvelope(lib),
		Faces:               sc.Faces,
		Vent:                sc.Vent,
		Band:                sc.ResolveBand(lib),
		Weather:             source,
		InternalGainsW:      sc.InternalGainsW,
		ThermalMassKJPerM2K: sc.ThermalMassKJPerM2K,
	}
}
