// Package stats provides the column-wise normalizations used by the
// maintenance optimizer. All functions are pure: they never mutate their
// input and always return a freshly allocated slice.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinMax rescales values to [0,1] using (v - min) / (max - min).
// A constant column has no discriminative signal, so every value maps to 0
// instead of dividing by zero.
func MinMax(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	min := floats.Min(values)
	max := floats.Max(values)
	span := max - min
	if span == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / span
	}
	return out
}

// ZScore standardizes values using (v - mean) / stddev with the population
// standard deviation. A zero-variance column maps to all zeros, mirroring the
// MinMax degenerate rule.
func ZScore(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	mean := stat.Mean(values, nil)
	std := stat.PopStdDev(values, nil)
	if std == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

// Degenerate reports whether the column would hit the zero-contribution rule,
// so callers can log the condition.
func Degenerate(values []float64) bool {
	if len(values) == 0 {
		return true
	}
	return floats.Min(values) == floats.Max(values)
}
