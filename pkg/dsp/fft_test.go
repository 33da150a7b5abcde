package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFTEmptyInput(t *testing.T) {
	s := FFT(nil, 10)
	assert.Equal(t, Spectrum{}, s)
}

func TestFFTPureTonePeak(t *testing.T) {
	// §8 FFT round-trip property: a pure tone of frequency f with N
	// samples at rate fs where f*N/fs is integer peaks at bin k = f*N/fs
	// with >=95% energy in the nearest bin.
	const fs = 64.0
	const f = 4.0
	const n = 64 // f*n/fs = 4, integer

	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * f * float64(i) / fs)
	}

	spec := FFT(x, fs)
	require.NotEmpty(t, spec.Magnitude)

	expectedBin := int(f * float64(spec.N) / fs)

	peakBin := 0
	peakMag := 0.0
	var totalEnergy float64
	for i, m := range spec.Magnitude {
		totalEnergy += m * m
		if m > peakMag {
			peakMag = m
			peakBin = i
		}
	}

	assert.Equal(t, expectedBin, peakBin)

	nearEnergy := spec.Magnitude[peakBin] * spec.Magnitude[peakBin]
	if peakBin > 0 {
		nearEnergy += spec.Magnitude[peakBin-1] * spec.Magnitude[peakBin-1]
	}
	if peakBin < len(spec.Magnitude)-1 {
		nearEnergy += spec.Magnitude[peakBin+1] * spec.Magnitude[peakBin+1]
	}

	assert.GreaterOrEqual(t, nearEnergy/totalEnergy, 0.95)
}

func TestTopKMagnitudesExcludesDC(t *testing.T) {
	s := Spectrum{Magnitude: []float64{100, 1, 5, 2, 9}}
	top := s.TopKMagnitudes(2)
	require.Len(t, top, 2)
	assert.Equal(t, 4, top[0]) // magnitude 9
	assert.Equal(t, 2, top[1]) // magnitude 5
}
