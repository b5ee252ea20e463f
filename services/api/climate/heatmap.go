package climate

import "fmt"

// Scale is the fixed colour range a renderer should use.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Heatmap is a grid plus everything a renderer needs to draw it.
type Heatmap struct {
	Title     string  `json:"title"`
	XAxis     string  `json:"x_axis"`
	YAxis     string  `json:"y_axis"`
	Bucketing string  `json:"bucketing"`
	Filters   Filters `json:"filters"`
	Scale     *Scale  `json:"scale,omitempty"`
	Grid      *Grid   `json:"grid"`
}

// Title names a heatmap after its scope and bucketing, e.g.
// "Lima, Peru Average Temperature Decadal Heatmap".
func Title(f Filters, b Bucketing) string {
	scope := "Global"
	switch {
	case f.City != "":
		scope = fmt.Sprintf("%s, %s", f.City, f.Country)
	case f.Country != "":
		scope = f.Country
	}
	return fmt.Sprintf("%s Average Temperature %s Heatmap", scope, b)
}

// NewHeatmap builds the grid for f and attaches the dataset-wide scale.
func NewHeatmap(ds *Dataset, f Filters, b Bucketing) (*Heatmap, error) {
	grid, err := Build(ds, f, b)
	if err != nil {
		return nil, err
	}
	hm := &Heatmap{
		Title:     Title(f, b),
		XAxis:     b.Axis(),
		YAxis:     "Month",
		Bucketing: b.String(),
		Filters:   f,
		Grid:      grid,
	}
	if lo, hi, ok := ds.TemperatureBounds(); ok {
		hm.Scale = &Scale{Min: lo, Max: hi}
	}
	return hm, nil
}

// Comparison holds two heatmaps meant to be drawn side by side.
type Comparison struct {
	Left  *Heatmap `json:"left"`
	Right *Heatmap `json:"right"`
}

// Compare builds two heatmaps over the same year range. Both share the
// dataset-wide scale, so equal colours mean equal temperatures.
func Compare(ds *Dataset, years YearRange, left, right Filters, b Bucketing) (*Comparison, error) {
	left.Years = years
	right.Years = years

	l, err := NewHeatmap(ds, left, b)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	r, err := NewHeatmap(ds, right, b)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}
	return &Comparison{Left: l, Right: r}, nil
}
