package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

func TestComputeStatisticalPerfectlyCorrelatedSignals(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(1, 2, 3, 4, 5),
		"b": sampleSeries(2, 4, 6, 8, 10),
	}
	res, err := computeStatistical(snapshots)
	require.NoError(t, err)
	require.Len(t, res.SignalIDs, 2)

	idxA, idxB := 0, 1
	if res.SignalIDs[0] != "a" {
		idxA, idxB = 1, 0
	}
	assert.InDelta(t, 1.0, res.Correlation[idxA][idxB], 1e-6)
	assert.InDelta(t, 1.0, res.Synchrony, 1e-6)
}

func TestComputeStatisticalRanges(t *testing.T) {
	snapshots := map[string][]ringbuffer.Sample{
		"a": sampleSeries(1, 5, 2),
	}
	res, err := computeStatistical(snapshots)
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 1, Max: 5}, res.Ranges["a"])
}

func TestComputeStatisticalRejectsEmptyInput(t *testing.T) {
	_, err := computeStatistical(map[string][]ringbuffer.Sample{})
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
