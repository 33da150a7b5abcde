package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

func bucketSamples(pairs ...float64) []ringbuffer.Sample {
	out := make([]ringbuffer.Sample, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, ringbuffer.Sample{TimestampUs: int64(pairs[i]), Value: pairs[i+1]})
	}
	return out
}

func TestBucketAggregateGroupsByWindow(t *testing.T) {
	// window = 1000us: [0,1000) and [1000,2000)
	samples := bucketSamples(0, 1, 500, 2, 999, 3, 1000, 10, 1500, 20)
	buckets := BucketAggregate(samples, 1000, ReduceMean, 0)
	require.Len(t, buckets, 2)
	assert.Equal(t, int64(0), buckets[0].StartUs)
	assert.InDelta(t, 2.0, buckets[0].Value, 1e-9) // mean(1,2,3)
	assert.Equal(t, 3, buckets[0].Count)

	assert.Equal(t, int64(1000), buckets[1].StartUs)
	assert.InDelta(t, 15.0, buckets[1].Value, 1e-9) // mean(10,20)
	assert.Equal(t, 2, buckets[1].Count)
}

func TestBucketAggregateNegativeTimestampsFloorTowardNegativeInfinity(t *testing.T) {
	samples := bucketSamples(-500, 1, -1, 2, 0, 3)
	buckets := BucketAggregate(samples, 1000, ReduceSum, 0)
	require.Len(t, buckets, 2)
	assert.Equal(t, int64(-1000), buckets[0].StartUs)
	assert.InDelta(t, 3.0, buckets[0].Value, 1e-9) // -500 and -1 fall in [-1000,0)
	assert.Equal(t, int64(0), buckets[1].StartUs)
	assert.InDelta(t, 3.0, buckets[1].Value, 1e-9)
}

func TestReduceFormulas(t *testing.T) {
	values := []float64{1, 2, 4}
	assert.InDelta(t, 7.0/3, reduce(values, ReduceMean, 0), 1e-9)
	assert.InDelta(t, 7.0, reduce(values, ReduceSum, 0), 1e-9)
	assert.InDelta(t, 1.0, reduce(values, ReduceMin, 0), 1e-9)
	assert.InDelta(t, 4.0, reduce(values, ReduceMax, 0), 1e-9)
	assert.InDelta(t, 2.645751, reduce(values, ReduceRMS, 0), 1e-5)
	assert.InDelta(t, 1.7142857, reduce(values, ReduceHarmonicMean, 0), 1e-5)
	assert.InDelta(t, 2.0, reduce(values, ReduceGeometricMean, 0), 1e-5)
}

func TestReduceDegenerateHarmonicAndGeometricMeans(t *testing.T) {
	assert.Equal(t, 0.0, reduce([]float64{0, 0}, ReduceHarmonicMean, 0))
	assert.Equal(t, 0.0, reduce([]float64{-1, -2}, ReduceGeometricMean, 0))
}

func TestBucketAggregateEmptyInput(t *testing.T) {
	assert.Nil(t, BucketAggregate(nil, 1000, ReduceMean, 0))
	assert.Nil(t, BucketAggregate(bucketSamples(0, 1), 0, ReduceMean, 0))
}
