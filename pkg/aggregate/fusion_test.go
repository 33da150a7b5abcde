package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

func TestComputeFusionSimpleAverageOfIdenticalSeries(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(1, 2, 3),
		"b": sampleSeries(1, 2, 3),
	}
	res, err := computeFusion(snapshots, FusionSimpleAverage)
	require.NoError(t, err)
	require.Len(t, res.Values, 3)
	assert.Equal(t, []float64{1, 2, 3}, res.Values)
	for _, c := range res.Confidence {
		assert.InDelta(t, 1.0, c, 1e-9) // zero cross-signal variance -> full confidence
	}
}

func TestComputeFusionKalmanConverges(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(10, 10, 10, 10, 10),
		"b": sampleSeries(10, 10, 10, 10, 10),
	}
	res, err := computeFusion(snapshots, FusionKalman)
	require.NoError(t, err)
	require.Len(t, res.Values, 5)
	assert.InDelta(t, 10.0, res.Values[len(res.Values)-1], 0.5)
}

func TestComputeFusionBayesianWeightsMoreStableSignalHigher(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"stable": sampleSeries(5, 5, 5, 5, 5, 5, 5, 5),
		"noisy":  sampleSeries(0, 10, 0, 10, 0, 10, 0, 10),
	}
	res, err := computeFusion(snapshots, FusionBayesian)
	require.NoError(t, err)
	require.Len(t, res.Values, 8)
	// The fused estimate should lean toward the low-variance signal once
	// enough observations have accumulated.
	assert.InDelta(t, 5.0, res.Values[len(res.Values)-1], 3.0)
}

func TestComputeFusionDempsterShaferFlagsOutlierAsLessConfident(t *testing.T) {
	base := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(base...),
	}
	res, err := computeFusion(snapshots, FusionDempsterShafer)
	require.NoError(t, err)
	require.Len(t, res.Confidence, 10)
	assert.Less(t, res.Confidence[9], res.Confidence[0])
}

func TestComputeFusionRejectsEmptyInput(t *testing.T) {
	_, err := computeFusion(map[string][]ringbuffer.Sample{}, FusionSimpleAverage)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
