// Package stats provides statistical helpers for batch summaries.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0-100) of sorted using the
// empirical distribution. The slice must already be sorted in ascending
// order. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 100)
	return stat.Quantile(float64(p)/100, stat.Empirical, sorted, nil)
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64 `json:"mean" toon:"mean"`
	Max  float64 `json:"max" toon:"max"`
	P50  float64 `json:"p50" toon:"p50"`
	P90  float64 `json:"p90" toon:"p90"`
	P95  float64 `json:"p95" toon:"p95"`
}

// Describe computes the distribution of values. values is not modified.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: stat.Mean(sorted, nil),
		Max:  floats.Max(sorted),
		P50:  Percentile(sorted, 50),
		P90:  Percentile(sorted, 90),
		P95:  Percentile(sorted, 95),
	}
}

// Ints converts integer samples for use with Describe.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
