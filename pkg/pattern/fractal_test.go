package pattern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

func TestAnalyzeFractalReturnsClassification(t *testing.T) {
	samples := make([]ringbuffer.Sample, 256)
	for i := range samples {
		samples[i] = ringbuffer.Sample{Value: math.Sin(float64(i) * 0.3)}
	}
	res := Analyze(samples, signal.ModeFractal, Options{})
	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.Fractal)

	assert.Contains(t, []string{"anti_persistent", "random_walk", "persistent"}, res.Fractal.SelfSimilarity)
	assert.Greater(t, res.Fractal.BoxCountingDimension, 0.0)
}

func TestAnalyzeFractalInsufficientData(t *testing.T) {
	samples := make([]ringbuffer.Sample, 5)
	res := Analyze(samples, signal.ModeFractal, Options{})
	assert.Equal(t, StatusInsufficientData, res.Status)
}
