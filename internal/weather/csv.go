package weather

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"comfort_simulator/internal/model"
)

// ParseCSV reads hourly weather records from CSV with a header row matching
// the HourlyRecord csv tags. It parses only; length validation happens in
// NewDataset so callers can decide how to degrade.
func ParseCSV(r io.Reader) ([]model.HourlyRecord, error) {
	var records []model.HourlyRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("parsing weather csv: %w", err)
	}
	return records, nil
}

// LoadCSV opens and parses an hourly weather CSV file, then validates it as
// a one-year dataset.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewDataset(records)
}
