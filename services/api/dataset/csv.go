package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

// Column names of the Berkeley Earth "GlobalLandTemperaturesByCity" exports.
const (
	ColumnDate        = "dt"
	ColumnTemperature = "AverageTemperature"
	ColumnCountry     = "Country"
	ColumnCity        = "City"
)

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

// ParseResult is the outcome of ParseCSV.
type ParseResult struct {
	Records []climate.Record
	// Skipped counts rows dropped for a bad date, a bad temperature or a wrong
	// field count.
	Skipped int
}

// ParseCSV reads a header-led CSV. Columns are located by name, so their order
// and any extra columns do not matter. An empty temperature yields a record
// with a nil AverageTemperature.
func ParseCSV(r io.Reader) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}, errors.New("csv is empty")
		}
		return ParseResult{}, fmt.Errorf("read csv header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return ParseResult{}, err
	}

	var res ParseResult
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("read csv: %w", err)
		}

		rec, ok := parseRow(row, idx)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

type columns struct {
	date, temperature, country, city int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		// strip a UTF-8 BOM some spreadsheet exports prepend
		pos[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	c := columns{
		date:        lookup(ColumnDate),
		temperature: lookup(ColumnTemperature),
		country:     lookup(ColumnCountry),
		city:        lookup(ColumnCity),
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("csv missing required columns: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func parseRow(row []string, c columns) (climate.Record, bool) {
	for _, i := range []int{c.date, c.temperature, c.country, c.city} {
		if i >= len(row) {
			return climate.Record{}, false
		}
	}

	date, ok := parseDate(row[c.date])
	if !ok {
		return climate.Record{}, false
	}

	rec := climate.Record{
		Date:    date,
		Country: strings.TrimSpace(row[c.country]),
		City:    strings.TrimSpace(row[c.city]),
	}

	if raw := strings.TrimSpace(row[c.temperature]); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return climate.Record{}, false
		}
		// "NaN" is how pandas-written files spell a missing reading; infinities
		// cannot be averaged or encoded as JSON either
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			rec.AverageTemperature = &v
		}
	}
	return rec, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
