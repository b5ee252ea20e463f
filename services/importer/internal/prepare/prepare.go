package prepare

import (
	"fmt"
	"math"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

// Key identifies a stored observation: one reading per city per month.
type Key struct {
	Date    string
	Country string
	City    string
}

// KeyOf returns the storage key of a record.
func KeyOf(r climate.Record) Key {
	return Key{Date: r.Date.Format("2006-01-02"), Country: r.Country, City: r.City}
}

// Deduplicate keeps one record per key. The last occurrence wins but takes
// the position of the first, so file order is preserved.
func Deduplicate(records []climate.Record) []climate.Record {
	pos := make(map[Key]int, len(records))
	out := make([]climate.Record, 0, len(records))
	for _, r := range records {
		k := KeyOf(r)
		if i, ok := pos[k]; ok {
			out[i] = r
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}
	return out
}

// IndexExisting maps stored records by key for FilterChanged.
func IndexExisting(records []climate.Record) map[Key]*float64 {
	idx := make(map[Key]*float64, len(records))
	for _, r := range records {
		idx[KeyOf(r)] = r.AverageTemperature
	}
	return idx
}

// FilterChanged selects candidates that are new or whose temperature moved
// by more than epsilon.
func FilterChanged(candidates []climate.Record, existing map[Key]*float64, epsilon float64) []climate.Record {
	out := make([]climate.Record, 0, len(candidates))
	for _, cand := range candidates {
		prev, ok := existing[KeyOf(cand)]
		if !ok {
			out = append(out, cand)
			continue
		}
		if !ValuesEqual(prev, cand.AverageTemperature, epsilon) {
			out = append(out, cand)
		}
	}
	return out
}

// CountMissing returns how many records have no temperature.
func CountMissing(records []climate.Record) int {
	n := 0
	for _, r := range records {
		if r.AverageTemperature == nil {
			n++
		}
	}
	return n
}

// ValuesEqual compares two optional float values with tolerance.
func ValuesEqual(a, b *float64, epsilon float64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return math.Abs(*a-*b) <= epsilon
	}
}

// ValuePtrString prints pointer values for logging.
func ValuePtrString(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.3f", *v)
}
