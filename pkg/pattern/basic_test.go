package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

func makeSamples(vals ...float64) []ringbuffer.Sample {
	out := make([]ringbuffer.Sample, len(vals))
	for i, v := range vals {
		out[i] = ringbuffer.Sample{Value: v, TimestampUs: int64(i * 100)}
	}
	return out
}

func TestAnalyzeBasicStats(t *testing.T) {
	res := Analyze(makeSamples(1, 2, 3, 4, 5), signal.ModeBasic, Options{})
	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.Basic)
	assert.InDelta(t, 3.0, res.Basic.Stats.Mean, 1e-9)
}

func TestAnalyzeSpectrumTopFrequencies(t *testing.T) {
	res := Analyze(makeSamples(1, 0, -1, 0, 1, 0, -1, 0), signal.ModeSpectrum, Options{RateHz: 8})
	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.Spectrum)
	assert.NotEmpty(t, res.Spectrum.TopBins)
}

func TestAnalyzeUnsupportedMode(t *testing.T) {
	res := Analyze(makeSamples(1, 2, 3), signal.Mode(999), Options{})
	assert.Equal(t, StatusUnsupported, res.Status)
}
