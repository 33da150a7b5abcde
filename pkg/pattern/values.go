package pattern

import (
	"sort"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// values extracts the value series from a sample snapshot, in order.
func values(samples []ringbuffer.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// estimatedRateHz returns the sampling rate implied by the median
// inter-sample delta in the snapshot (§4.E periodicity: "estimated sample
// rate (median inter-sample Δt)"), falling back to fallbackHz when fewer
// than two samples are present or timestamps do not advance.
func estimatedRateHz(samples []ringbuffer.Sample, fallbackHz float64) float64 {
	if len(samples) < 2 {
		return fallbackHz
	}
	deltas := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		d := float64(samples[i].TimestampUs - samples[i-1].TimestampUs)
		if d > 0 {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) == 0 {
		return fallbackHz
	}
	medianUs := median(deltas)
	if medianUs <= 0 {
		return fallbackHz
	}
	return 1e6 / medianUs
}

// median returns the median of a slice, copying it first so the caller's
// order is left untouched.
func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}
