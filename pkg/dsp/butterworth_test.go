package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignButterworthLowPassDCGainIsUnity(t *testing.T) {
	coeffs := DesignButterworthLowPass(2, 0.2)
	require.NotEmpty(t, coeffs.B)
	require.NotEmpty(t, coeffs.A)

	// DC gain = sum(b) / sum(a); a[0] is normalized to 1.
	var sumB, sumA float64
	for _, v := range coeffs.B {
		sumB += v
	}
	for _, v := range coeffs.A {
		sumA += v
	}
	assert.InDelta(t, 1.0, sumB/sumA, 1e-6)
}

func TestDirectFormIIStepsWithoutDiverging(t *testing.T) {
	coeffs := DesignButterworthLowPass(4, 0.1)
	x := make([]float64, 500)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.05)
	}
	out := Apply(coeffs, x)

	for _, v := range out {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestDesignButterworthOrderClamped(t *testing.T) {
	c := DesignButterworthLowPass(20, 0.3)
	assert.Len(t, c.A, 9) // clamped to order 8 -> 9 coefficients
}
