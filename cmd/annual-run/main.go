package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"comfort_simulator/internal/preset"
	"comfort_simulator/internal/simulator"
	"comfort_simulator/internal/weather"
)

func main() {
	scenarioPath := flag.String("scenario", "", "YAML scenario file (optional)")
	weatherPath := flag.String("weather", "", "hourly weather CSV (optional, synthetic fallback)")
	seriesOut := flag.String("series-out", "", "write the hourly series to this CSV file")
	flag.Parse()

	scenario, err := preset.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	lib := preset.Default()

	source := weather.FallbackSource{Synthetic: scenario.ResolveSynthetic()}
	if *weatherPath != "" {
		ds, err := weather.LoadCSV(*weatherPath)
		if err != nil {
			log.Printf("Weather data unusable, using synthetic profile: %v", err)
		} else {
			source.Dataset = ds
		}
	}

	engine := simulator.New(simulator.Config{
		Location:            scenario.Location,
		Geometry:            scenario.Geometry,
		Envelope:            scenario.ResolveEnvelope(lib),
		Faces:               scenario.Faces,
		Vent:                scenario.Vent,
		Band:                scenario.ResolveBand(lib),
		Weather:             source,
		InternalGainsW:      scenario.InternalGainsW,
		ThermalMassKJPerM2K: scenario.ThermalMassKJPerM2K,
	})

	log.Printf("Zone: %.0f m3, UA %.1f W/K, time constant %.1f h",
		engine.Config().Geometry.VolumeM3(), engine.Assembly().Fabric(),
		engine.TimeConstant().Hours())

	series := engine.RunYear()
	stats := simulator.Aggregate(series, engine.Config().Band, lib.Tariff, lib.Carbon)

	printStats(stats)

	if *seriesOut != "" {
		if err := writeSeries(*seriesOut, series); err != nil {
			log.Fatalf("Failed to write series: %v", err)
		}
		log.Printf("Hourly series written to %s", *seriesOut)
	}
}

func printStats(s simulator.AnnualStats) {
	fmt.Println()
	fmt.Println("=== Annual comfort ===")
	fmt.Printf("  In comfort band:   %5d h\n", s.HoursInComfort)
	fmt.Printf("  Heating needed:    %5d h  (%.0f degree-hours below band)\n", s.HeatingHours, s.DegreeHoursBelow)
	fmt.Printf("  Overheating:       %5d h  (%.0f degree-hours above band)\n", s.OverheatingHours, s.DegreeHoursAbove)
	fmt.Printf("  Above 26 C:        %5d h\n", s.HoursAbove26)
	fmt.Printf("  Above 28 C:        %5d h\n", s.HoursAbove28)
	fmt.Printf("  Peak indoor:       %.1f C at %s\n", s.PeakIndoorC, s.PeakTime.Format("2006-01-02 15:04"))
	fmt.Printf("  Minimum indoor:    %.1f C at %s\n", s.MinIndoorC, s.MinTime.Format("2006-01-02 15:04"))
	fmt.Printf("  Mean indoor:       %.1f C (outdoor %.1f C)\n", s.MeanIndoorC, s.MeanOutdoorC)

	fmt.Println()
	fmt.Println("=== Monthly overheating hours ===")
	for m, hrs := range s.MonthlyOverheatingHours {
		if hrs > 0 {
			fmt.Printf("  %-9s %5d h\n", monthName(m+1), hrs)
		}
	}

	fmt.Println()
	fmt.Println("=== Energy / carbon / cost ===")
	fmt.Printf("  Heating demand:    %8.0f kWh\n", s.HeatingKWh)
	fmt.Printf("  Cooling demand:    %8.0f kWh\n", s.CoolingKWh)
	fmt.Printf("  Energy cost:       %8.2f %s\n", s.EnergyCost, s.Currency)
	fmt.Printf("  Carbon:            %8.0f kg CO2e\n", s.CarbonKg)

	fmt.Println()
	fmt.Printf("Worst week starts %s: %d overheating hours\n",
		s.WorstWeek.Start.Format("2006-01-02"), s.WorstWeek.OverheatHrs)
	fmt.Printf("Coldest week starts %s: mean outdoor %.1f C\n",
		s.ColdestWeek.Start.Format("2006-01-02"), s.ColdestWeek.MeanOutdoorC)
}

func monthName(m int) string {
	names := []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	return names[m-1]
}

func writeSeries(path string, series []simulator.StepRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"time", "indoor_c", "outdoor_c", "solar_gain_w",
		"fabric_loss_w", "vent_loss_w", "ach_total", "heating_w", "cooling_w", "comfort"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range series {
		row := []string{
			r.Time.Format("2006-01-02T15:04"),
			fmtF(r.IndoorC), fmtF(r.OutdoorC), fmtF(r.SolarGainW),
			fmtF(r.FabricLossW), fmtF(r.VentLossW), fmtF(r.ACHTotal),
			fmtF(r.HeatingW), fmtF(r.CoolingW), string(r.Comfort),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
