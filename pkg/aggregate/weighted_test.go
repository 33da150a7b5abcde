package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

func TestComputeWeightedAppliesConfiguredWeights(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(1, 1, 1),
		"b": sampleSeries(2, 2, 2),
	}
	res, err := computeWeighted(snapshots, map[string]float64{"a": 2, "b": 0.5})
	require.NoError(t, err)
	require.Len(t, res.Values, 3)
	for _, v := range res.Values {
		assert.InDelta(t, 3.0, v, 1e-9) // 2*1 + 0.5*2
	}
}

func TestComputeWeightedDefaultsMissingWeightToOne(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(1, 2, 3),
		"b": sampleSeries(1, 1, 1),
	}
	res, err := computeWeighted(snapshots, map[string]float64{"a": 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Values[0], 1e-9) // 2*1 + 1*1
	assert.InDelta(t, 5.0, res.Values[1], 1e-9) // 2*2 + 1*1
}

func TestComputeWeightedRejectsEmptyInput(t *testing.T) {
	_, err := computeWeighted(map[string][]ringbuffer.Sample{}, nil)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
