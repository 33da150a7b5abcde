package dsp

import "math"

// MovingAverageWindow returns the window size implied by a normalized
// cutoff frequency, per §4.D: max(2, round(100/cutoff)).
func MovingAverageWindow(cutoff float64) int {
	if cutoff <= 0 {
		return 2
	}
	w := int(math.Round(100 / cutoff))
	if w < 2 {
		return 2
	}
	return w
}

// MovingAverage computes the sliding mean of window size w over x. The
// output is the same length as the input; the leading edge (where a full
// window isn't yet available) uses whatever prefix of x is available,
// i.e. an expanding window until w samples have accumulated — this keeps
// |output| == |input| as required by §4.D without fabricating data before
// the series starts.
func MovingAverage(x []float64, w int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if w < 1 {
		w = 1
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += x[i]
		lo := i - w + 1
		if lo < 0 {
			lo = 0
		} else {
			sum -= x[lo-1]
		}
		count := i - lo + 1
		out[i] = sum / float64(count)
	}
	return out
}

// LowPass applies a moving-average low-pass filter with cutoff expressed as
// a fraction of the sampling rate.
func LowPass(x []float64, cutoff float64) []float64 {
	return MovingAverage(x, MovingAverageWindow(cutoff))
}

// HighPass is input minus its low-pass component (§4.D), so that
// HighPass(x) + LowPass(x) == x within floating tolerance (§8).
func HighPass(x []float64, cutoff float64) []float64 {
	lp := LowPass(x, cutoff)
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] - lp[i]
	}
	return out
}

// BandPass cascades a low-pass at highCutoff with a high-pass at lowCutoff
// (§4.D: "band-pass via cascade"), passing frequencies between lowCutoff and
// highCutoff.
func BandPass(x []float64, lowCutoff, highCutoff float64) []float64 {
	return HighPass(LowPass(x, highCutoff), lowCutoff)
}
