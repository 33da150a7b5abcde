package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuousWaveletTransformShape(t *testing.T) {
	x := make([]float64, 128)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.3)
	}

	res := ContinuousWaveletTransform(x, WaveletMorlet, 1, 16, 8)
	require.Len(t, res.Scales, 8)
	require.Len(t, res.Coefficients, 8)
	for _, row := range res.Coefficients {
		assert.Len(t, row, len(x))
	}

	// Scales should be increasing (log-spaced).
	for i := 1; i < len(res.Scales); i++ {
		assert.Greater(t, res.Scales[i], res.Scales[i-1])
	}
}

func TestContinuousWaveletTransformMexicanHat(t *testing.T) {
	x := []float64{0, 0, 0, 1, 0, 0, 0}
	res := ContinuousWaveletTransform(x, WaveletMexicanHat, 1, 4, 3)
	require.Len(t, res.Coefficients, 3)
	for _, row := range res.Coefficients {
		require.Len(t, row, len(x))
	}
}

func TestContinuousWaveletTransformEmptyInput(t *testing.T) {
	res := ContinuousWaveletTransform(nil, WaveletMorlet, 1, 8, 4)
	assert.Nil(t, res.Scales)
	assert.Nil(t, res.Coefficients)
}

func TestContinuousWaveletTransformSingleScale(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	res := ContinuousWaveletTransform(x, WaveletMorlet, 2, 2, 1)
	require.Len(t, res.Scales, 1)
	assert.Equal(t, 2.0, res.Scales[0])
	require.Len(t, res.Coefficients, 1)
	assert.Len(t, res.Coefficients[0], len(x))
}
