package climate

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// Record is one raw row from a temperature source. AverageTemperature is nil
// when the source had no reading for that month.
type Record struct {
	Date               time.Time
	Country            string
	City               string
	AverageTemperature *float64
}

// Observation is a record that carries a temperature.
type Observation struct {
	Date        time.Time
	Country     string
	City        string
	Temperature float64
}

// Year returns the calendar year of the observation.
func (o Observation) Year() int {
	return o.Date.Year()
}

// Month returns the month of the observation (1-12).
func (o Observation) Month() int {
	return int(o.Date.Month())
}

// Dataset is an immutable, ordered collection of observations. Build one with
// NewDataset and share it freely between goroutines.
type Dataset struct {
	observations []Observation
	minYear      int
	maxYear      int
	minTemp      float64
	maxTemp      float64
}

// NewDataset keeps the records that have a temperature, in input order.
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{observations: make([]Observation, 0, len(records))}
	temps := make([]float64, 0, len(records))

	for _, r := range records {
		if r.AverageTemperature == nil {
			continue
		}
		obs := Observation{
			Date:        r.Date,
			Country:     r.Country,
			City:        r.City,
			Temperature: *r.AverageTemperature,
		}
		if len(ds.observations) == 0 || obs.Year() < ds.minYear {
			ds.minYear = obs.Year()
		}
		if len(ds.observations) == 0 || obs.Year() > ds.maxYear {
			ds.maxYear = obs.Year()
		}
		ds.observations = append(ds.observations, obs)
		temps = append(temps, obs.Temperature)
	}

	if len(temps) > 0 {
		ds.minTemp = floats.Min(temps)
		ds.maxTemp = floats.Max(temps)
	}
	return ds
}

// Len reports the number of observations.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.observations)
}

// YearBounds returns the first and last year present. ok is false for an
// empty dataset.
func (d *Dataset) YearBounds() (min, max int, ok bool) {
	if d.Len() == 0 {
		return 0, 0, false
	}
	return d.minYear, d.maxYear, true
}

// TemperatureBounds returns the coldest and warmest monthly average across the
// whole dataset. Renderers use it as a fixed colour scale so that grids built
// with different filters stay comparable.
func (d *Dataset) TemperatureBounds() (min, max float64, ok bool) {
	if d.Len() == 0 {
		return 0, 0, false
	}
	return d.minTemp, d.maxTemp, true
}

// Countries lists distinct countries in order of first appearance.
func (d *Dataset) Countries() []string {
	if d == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, o := range d.observations {
		if _, ok := seen[o.Country]; ok {
			continue
		}
		seen[o.Country] = struct{}{}
		out = append(out, o.Country)
	}
	return out
}

// Cities lists the distinct cities of a country in order of first appearance.
func (d *Dataset) Cities(country string) []string {
	if d == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, o := range d.observations {
		if o.Country != country {
			continue
		}
		if _, ok := seen[o.City]; ok {
			continue
		}
		seen[o.City] = struct{}{}
		out = append(out, o.City)
	}
	return out
}
