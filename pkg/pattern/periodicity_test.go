package pattern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

func sineSamples(n int, freqHz, rateHz float64) []ringbuffer.Sample {
	out := make([]ringbuffer.Sample, n)
	for i := 0; i < n; i++ {
		out[i] = ringbuffer.Sample{
			Value:       math.Sin(2 * math.Pi * freqHz * float64(i) / rateHz),
			TimestampUs: int64(float64(i) * 1e6 / rateHz),
		}
	}
	return out
}

func TestAnalyzePeriodicityDetectsPureTone(t *testing.T) {
	samples := sineSamples(1024, 1.0, 10.0)
	res := Analyze(samples, signal.ModePeriodicity, Options{RateHz: 10})
	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.Periodicity)

	assert.True(t, res.Periodicity.Detected)
	assert.InDelta(t, 1.0, res.Periodicity.FrequencyHz, 0.1)
	assert.GreaterOrEqual(t, res.Periodicity.Confidence, 0.8)
}

func TestAnalyzePeriodicityInsufficientData(t *testing.T) {
	samples := sineSamples(3, 1.0, 10.0)
	res := Analyze(samples, signal.ModePeriodicity, Options{RateHz: 10})
	assert.Equal(t, StatusInsufficientData, res.Status)
	assert.Nil(t, res.Periodicity)
}
