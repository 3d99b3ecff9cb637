// Package stats provides the descriptive-statistics primitives used to
// summarize simulation draws: count, mean, sample standard deviation,
// extrema, and linear-interpolation quantiles. Missing observations
// (NaN) are skipped, matching the conventions of the tabular tooling
// this library post-processes.
package stats

import (
	"math"
	"slices"
)

// present returns the non-NaN observations.
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Count returns the number of non-missing observations.
func Count(values []float64) float64 {
	return float64(len(present(values)))
}

// Mean returns the arithmetic mean of the non-missing observations,
// or NaN if there are none.
func Mean(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Std returns the sample standard deviation (n-1 denominator) of the
// non-missing observations, or NaN for fewer than two.
func Std(values []float64) float64 {
	vs := present(values)
	if len(vs) < 2 {
		return math.NaN()
	}
	mean := Mean(vs)
	var sumSq float64
	for _, v := range vs {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(vs)-1))
}

// Min returns the smallest non-missing observation, or NaN if there are none.
func Min(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return math.NaN()
	}
	return slices.Min(vs)
}

// Max returns the largest non-missing observation, or NaN if there are none.
func Max(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return math.NaN()
	}
	return slices.Max(vs)
}

// Quantile returns the q-th quantile (0 <= q <= 1) of the non-missing
// observations using linear interpolation between order statistics,
// or NaN if there are none.
func Quantile(values []float64, q float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return math.NaN()
	}
	slices.Sort(vs)
	if q <= 0 {
		return vs[0]
	}
	if q >= 1 {
		return vs[len(vs)-1]
	}
	pos := q * float64(len(vs)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return vs[lo]
	}
	frac := pos - float64(lo)
	return vs[lo] + frac*(vs[hi]-vs[lo])
}
