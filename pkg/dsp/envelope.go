package dsp

// Envelope holds the upper and lower envelope of a series, computed as
// moving max/min over a window (§4.D).
type Envelope struct {
	Upper []float64
	Lower []float64
}

// ComputeEnvelope returns the moving-max (upper) and moving-min (lower)
// envelopes of x over window w, centered so |output| == |input|.
func ComputeEnvelope(x []float64, w int) Envelope {
	n := len(x)
	if n == 0 {
		return Envelope{}
	}
	if w < 1 {
		w = 1
	}

	upper := make([]float64, n)
	lower := make([]float64, n)
	half := w / 2

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= n {
			hi = n - 1
		}

		mx, mn := x[lo], x[lo]
		for j := lo + 1; j <= hi; j++ {
			if x[j] > mx {
				mx = x[j]
			}
			if x[j] < mn {
				mn = x[j]
			}
		}
		upper[i] = mx
		lower[i] = mn
	}

	return Envelope{Upper: upper, Lower: lower}
}
