package dsp

// Peak is one detected local maximum.
type Peak struct {
	Index int
	Value float64
}

// DetectPeaks finds local maxima over 3-sample windows (x[i-1] < x[i] >
// x[i+1]) whose value exceeds threshold, keeping at most one peak per
// minSeparation samples (the tallest wins ties within that distance) (§4.D).
func DetectPeaks(x []float64, threshold float64, minSeparation int) []Peak {
	if len(x) < 3 {
		return nil
	}
	if minSeparation < 1 {
		minSeparation = 1
	}

	var candidates []Peak
	for i := 1; i < len(x)-1; i++ {
		if x[i] > x[i-1] && x[i] > x[i+1] && x[i] > threshold {
			candidates = append(candidates, Peak{Index: i, Value: x[i]})
		}
	}

	return enforceSeparation(candidates, minSeparation)
}

// enforceSeparation greedily keeps the tallest peak within any window of
// minSeparation samples, scanning left to right.
func enforceSeparation(candidates []Peak, minSeparation int) []Peak {
	if len(candidates) == 0 {
		return nil
	}
	var out []Peak
	for _, c := range candidates {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]
		if c.Index-last.Index < minSeparation {
			if c.Value > last.Value {
				*last = c
			}
			continue
		}
		out = append(out, c)
	}
	return out
}
