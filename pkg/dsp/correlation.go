package dsp

import "math"

// Autocorrelation computes r(lag) for lag = 0..min(N-1, 100), normalized so
// r(0) == 1 (§4.D):
//
//	r(lag) = sum((x[i]-mu)*(x[i+lag]-mu)) / (n*sigma^2), n = N-lag
func Autocorrelation(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	maxLag := n - 1
	if maxLag > 100 {
		maxLag = 100
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range x {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	out := make([]float64, maxLag+1)
	out[0] = 1
	if variance == 0 {
		return out // degenerate constant series: correlation undefined beyond lag 0, left at 0
	}

	for lag := 1; lag <= maxLag; lag++ {
		m := n - lag
		var sum float64
		for i := 0; i < m; i++ {
			sum += (x[i] - mean) * (x[i+lag] - mean)
		}
		out[lag] = sum / (float64(m) * variance)
	}
	return out
}

// CrossCorrelation computes Pearson-style cross-correlation of a and b over
// lags -maxLag..maxLag (§4.D). a is held fixed; b is shifted by lag samples
// (positive lag means b is delayed relative to a). normalize enables
// mean/variance (Pearson) normalization; when false each lag holds the mean
// of the raw products over the overlapping samples, with no mean removal.
func CrossCorrelation(a, b []float64, maxLag int, normalize bool) []float64 {
	n := len(a)
	if n == 0 || len(b) == 0 {
		return nil
	}
	if maxLag < 0 {
		maxLag = 0
	}

	var meanA, meanB, sdA, sdB float64
	if normalize {
		meanA = mean(a)
		meanB = mean(b)
		sdA = stddevAround(a, meanA)
		sdB = stddevAround(b, meanB)
	}

	out := make([]float64, 2*maxLag+1)
	for li, lag := -maxLag, 0; li <= maxLag; li, lag = li+1, lag+1 {
		out[lag] = crossAt(a, b, li, meanA, meanB, sdA, sdB, normalize)
	}
	return out
}

func crossAt(a, b []float64, lag int, meanA, meanB, sdA, sdB float64, normalize bool) float64 {
	na, nb := len(a), len(b)
	var sum float64
	var count int
	for i := 0; i < na; i++ {
		j := i + lag
		if j < 0 || j >= nb {
			continue
		}
		sum += (a[i] - meanA) * (b[j] - meanB)
		count++
	}
	if count == 0 {
		return 0
	}
	if !normalize {
		return sum / float64(count)
	}
	denom := sdA * sdB
	if denom == 0 {
		return 0
	}
	return sum / (float64(count) * denom)
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

func stddevAround(x []float64, m float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(x)))
}
