package aggregate

import "github.com/signalforge/telemetry/pkg/ringbuffer"

// computeWeighted implements §4.G weighted aggregation: componentwise
// weighted sum using options.weights. A signal with no configured weight
// defaults to 1.
func computeWeighted(snapshots map[string][]ringbuffer.Sample, weights map[string]float64) (*WeightedResult, error) {
	aligned := Align(snapshots)
	n := len(aligned.Timestamps)
	if n == 0 {
		return nil, ErrInvalidSpec
	}

	values := make([]float64, n)
	for _, id := range aligned.SignalIDs {
		w, ok := weights[id]
		if !ok {
			w = 1
		}
		series := aligned.Columns[id]
		for i, v := range series {
			values[i] += w * v
		}
	}

	return &WeightedResult{Timestamps: aligned.Timestamps, Values: values}, nil
}
