package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// Summary aggregates the records currently in view.
type Summary struct {
	Count     int     `json:"count"`
	Active    int     `json:"active"`
	Inactive  int     `json:"inactive"`
	Total     float64 `json:"total"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Malformed int     `json:"malformed"` // Balances that did not parse
}

// Summarize computes counts and balance statistics. Balances that do not
// parse are counted in Malformed and left out of the statistics.
func Summarize(records []model.Record) Summary {
	s := Summary{Count: len(records)}
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.IsActive {
			s.Active++
		} else {
			s.Inactive++
		}
		v := ParseBalance(rec.Balance)
		if math.IsNaN(v) {
			s.Malformed++
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return s
	}
	sort.Float64s(values)
	s.Total = floats.Sum(values)
	s.Mean = stat.Mean(values, nil)
	s.Median = median(values)
	return s
}

// median expects sorted input and averages the two middle values for an
// even count.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
