package climate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInvalidFilters is returned when a filter combination cannot be
	// resolved, e.g. a city without its country.
	ErrInvalidFilters = errors.New("invalid filters")
	// ErrInvalidBucketing is returned for an unknown column bucketing.
	ErrInvalidBucketing = errors.New("invalid bucketing")
)

// Bucketing selects the column axis of a grid.
type Bucketing int

const (
	// Yearly uses the calendar year as column key.
	Yearly Bucketing = iota
	// Decadal uses the year rounded down to its decade (1987 -> 1980).
	Decadal
)

// ParseBucketing accepts "yearly" or "decadal" (case-insensitive). An empty
// string means Yearly.
func ParseBucketing(s string) (Bucketing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yearly", "year":
		return Yearly, nil
	case "decadal", "decade":
		return Decadal, nil
	default:
		return Yearly, fmt.Errorf("%w: %q", ErrInvalidBucketing, s)
	}
}

func (b Bucketing) String() string {
	switch b {
	case Yearly:
		return "Yearly"
	case Decadal:
		return "Decadal"
	default:
		return fmt.Sprintf("Bucketing(%d)", int(b))
	}
}

// Axis is the label of the column axis ("Year" or "Decade").
func (b Bucketing) Axis() string {
	if b == Decadal {
		return "Decade"
	}
	return "Year"
}

// ColumnKey maps a calendar year onto this bucketing's column key.
func (b Bucketing) ColumnKey(year int) int {
	if b != Decadal {
		return year
	}
	// floor division, so that negative years also round down
	q := year / 10
	if year%10 < 0 {
		q--
	}
	return q * 10
}

func (b Bucketing) valid() bool {
	return b == Yearly || b == Decadal
}

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// Filters narrows a dataset before aggregation. Empty Country or City means
// no restriction on that field.
type Filters struct {
	Years   YearRange `json:"years"`
	Country string    `json:"country,omitempty"`
	City    string    `json:"city,omitempty"`
}

// Validate rejects a city without a country: city names are only unique
// within a country.
func (f Filters) Validate() error {
	if f.City != "" && f.Country == "" {
		return fmt.Errorf("%w: city %q requires a country", ErrInvalidFilters, f.City)
	}
	return nil
}

// Match reports whether an observation passes every filter.
func (f Filters) Match(o Observation) bool {
	if !f.Years.Contains(o.Year()) {
		return false
	}
	if f.Country != "" && o.Country != f.Country {
		return false
	}
	if f.City != "" && o.City != f.City {
		return false
	}
	return true
}

// Grid is a month-by-column matrix of mean temperatures. Cells[i][j] belongs
// to Rows[i] and Columns[j]; a nil cell had no observations.
type Grid struct {
	Rows    []int        `json:"rows"`
	Columns []int        `json:"columns"`
	Cells   [][]*float64 `json:"cells"`
}

// IsEmpty reports whether the grid has no rows.
func (g *Grid) IsEmpty() bool {
	return g == nil || len(g.Rows) == 0
}

// Value returns the mean for (month, column) and whether the cell is defined.
func (g *Grid) Value(month, column int) (float64, bool) {
	if g == nil {
		return 0, false
	}
	i := sort.SearchInts(g.Rows, month)
	if i == len(g.Rows) || g.Rows[i] != month {
		return 0, false
	}
	j := sort.SearchInts(g.Columns, column)
	if j == len(g.Columns) || g.Columns[j] != column {
		return 0, false
	}
	if c := g.Cells[i][j]; c != nil {
		return *c, true
	}
	return 0, false
}

type cellKey struct {
	month  int
	column int
}

// Build filters the dataset, buckets every remaining observation by
// (month, column key) and averages each bucket. An empty result is a valid
// grid with no rows and no columns.
func Build(ds *Dataset, f Filters, b Bucketing) (*Grid, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if !b.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBucketing, int(b))
	}

	samples := make(map[cellKey][]float64)
	months := make(map[int]struct{})
	columns := make(map[int]struct{})

	if ds != nil {
		for _, o := range ds.observations {
			if !f.Match(o) {
				continue
			}
			key := cellKey{month: o.Month(), column: b.ColumnKey(o.Year())}
			samples[key] = append(samples[key], o.Temperature)
			months[key.month] = struct{}{}
			columns[key.column] = struct{}{}
		}
	}

	grid := &Grid{
		Rows:    sortedKeys(months),
		Columns: sortedKeys(columns),
	}
	grid.Cells = make([][]*float64, len(grid.Rows))
	for i, month := range grid.Rows {
		row := make([]*float64, len(grid.Columns))
		for j, column := range grid.Columns {
			values, ok := samples[cellKey{month: month, column: column}]
			if !ok {
				continue
			}
			mean := stat.Mean(values, nil)
			row[j] = &mean
		}
		grid.Cells[i] = row
	}
	return grid, nil
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
