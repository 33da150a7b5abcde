// Package dsp holds the pure numeric primitives of the core (component D):
// statistics, filters, FFT, correlation, peak/envelope detection and CWT.
// Every function here is a pure function over immutable arrays; none of them
// touch signal, registry, or buffer state.
package dsp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats bundles the basic descriptive statistics for one snapshot (§4.D).
type Stats struct {
	Mean     float64
	Median   float64
	Variance float64
	StdDev   float64
	Skewness float64
	Kurtosis float64
	Min      float64
	Max      float64
	N        int
}

// Describe computes Stats over x. Empty input returns a zero-value Stats
// with N=0 rather than panicking (§4.D "must handle empty and single-element
// inputs without exception").
func Describe(x []float64) Stats {
	n := len(x)
	if n == 0 {
		return Stats{}
	}
	if n == 1 {
		return Stats{Mean: x[0], Median: x[0], Min: x[0], Max: x[0], N: 1}
	}

	mean := stat.Mean(x, nil)
	// Population variance (divide by N), the same moment Welford reports.
	variance := stat.Variance(x, nil) * float64(n-1) / float64(n)
	sd := math.Sqrt(variance)

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[n-1]

	var skew, kurt float64
	if sd > 0 {
		skew = stat.Skew(x, nil)
		kurt = stat.ExKurtosis(x, nil)
	}

	return Stats{
		Mean:     mean,
		Median:   Percentile(sorted, 0.5),
		Variance: variance,
		StdDev:   sd,
		Skewness: skew,
		Kurtosis: kurt,
		Min:      lo,
		Max:      hi,
		N:        n,
	}
}

// Percentile returns the p-th percentile (p in [0,1]) of sorted ascending
// data using linear interpolation between closest ranks. Empty input
// returns 0.
func Percentile(sortedAsc []float64, p float64) float64 {
	n := len(sortedAsc)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sortedAsc[0]
	}
	if p <= 0 {
		return sortedAsc[0]
	}
	if p >= 1 {
		return sortedAsc[n-1]
	}
	return stat.Quantile(p, stat.LinInterp, sortedAsc, nil)
}

// Welford computes mean/variance/stddev online, numerically stably, one
// value at a time (§3 "running statistics"; §4.D "Welford formulation used
// by streaming consumers").
type Welford struct {
	count int64
	mean  float64
	m2    float64
}

// Update folds one new value into the running statistics.
func (w *Welford) Update(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	delta2 := x - w.mean
	w.m2 += delta * delta2
}

// Count returns the number of values folded in so far.
func (w *Welford) Count() int64 { return w.count }

// Mean returns the running mean, 0 if no values have been seen.
func (w *Welford) Mean() float64 { return w.mean }

// Variance returns the running (population) variance, 0 if fewer than 2
// values have been seen.
func (w *Welford) Variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count)
}

// StdDev returns the running standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}

// Reset clears the running state.
func (w *Welford) Reset() {
	*w = Welford{}
}
