package aggregate

import (
	"math"
	"sort"

	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// Reducer names a time-bucket reduction function (§4.G time-bucketed
// aggregation).
type Reducer int

const (
	ReduceMean Reducer = iota
	ReduceSum
	ReduceMin
	ReduceMax
	ReduceRMS
	ReduceHarmonicMean
	ReduceGeometricMean
	ReducePercentile
)

// Bucket is one reduced time window (§4.G: "group samples by
// floor(ts/window)·window", inclusive start / exclusive end — §9 decides
// the open question on this boundary convention).
type Bucket struct {
	StartUs int64
	Value   float64
	Count   int
}

// BucketAggregate groups samples into fixed-width, left-aligned windows
// (bucket start = floor(ts/windowUs)*windowUs, inclusive of StartUs,
// exclusive of StartUs+windowUs) and reduces each with reducer. percentile
// is only consulted when reducer is ReducePercentile, in [0,1].
func BucketAggregate(samples []ringbuffer.Sample, windowUs int64, reducer Reducer, percentile float64) []Bucket {
	if len(samples) == 0 || windowUs <= 0 {
		return nil
	}

	grouped := make(map[int64][]float64)
	for _, s := range samples {
		start := (s.TimestampUs / windowUs) * windowUs
		if s.TimestampUs < 0 && s.TimestampUs%windowUs != 0 {
			start -= windowUs // floor division toward -inf for negative timestamps
		}
		grouped[start] = append(grouped[start], s.Value)
	}

	starts := make([]int64, 0, len(grouped))
	for start := range grouped {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	out := make([]Bucket, len(starts))
	for i, start := range starts {
		values := grouped[start]
		out[i] = Bucket{StartUs: start, Value: reduce(values, reducer, percentile), Count: len(values)}
	}
	return out
}

func reduce(values []float64, reducer Reducer, percentile float64) float64 {
	switch reducer {
	case ReduceSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	case ReduceMin:
		m := values[0]
		for _, v := range values {
			m = math.Min(m, v)
		}
		return m
	case ReduceMax:
		m := values[0]
		for _, v := range values {
			m = math.Max(m, v)
		}
		return m
	case ReduceRMS:
		var sumSq float64
		for _, v := range values {
			sumSq += v * v
		}
		return math.Sqrt(sumSq / float64(len(values)))
	case ReduceHarmonicMean:
		var sumInv float64
		var nonZero int
		for _, v := range values {
			if v == 0 {
				continue
			}
			sumInv += 1 / v
			nonZero++
		}
		if sumInv == 0 {
			return 0 // degenerate input: return a safe default rather than dividing by zero (§7)
		}
		return float64(nonZero) / sumInv
	case ReduceGeometricMean:
		var sumLog float64
		var count int
		for _, v := range values {
			if v <= 0 {
				continue
			}
			sumLog += math.Log(v)
			count++
		}
		if count == 0 {
			return 0
		}
		return math.Exp(sumLog / float64(count))
	case ReducePercentile:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		return dsp.Percentile(sorted, percentile)
	default: // ReduceMean
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}
