package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutocorrelationZeroLagIsOne(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1, 2, 3, 4, 5}
	r := Autocorrelation(x)
	require.NotEmpty(t, r)
	assert.InDelta(t, 1.0, r[0], 1e-9)
}

func TestAutocorrelationPeriodicSignalHasStrongLagPeak(t *testing.T) {
	n := 200
	period := 20
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(i) / float64(period))
	}
	r := Autocorrelation(x)
	require.Greater(t, len(r), period)
	assert.Greater(t, r[period], 0.6)
}

func TestAutocorrelationConstantSeriesDegenerate(t *testing.T) {
	x := make([]float64, 10)
	for i := range x {
		x[i] = 7
	}
	r := Autocorrelation(x)
	assert.Equal(t, 1.0, r[0])
	for _, v := range r[1:] {
		assert.Equal(t, 0.0, v)
	}
}

func TestCrossCorrelationFindsShift(t *testing.T) {
	n := 100
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = math.Sin(2 * math.Pi * float64(i) / 20)
	}
	shift := 5
	for i := range b {
		src := i - shift
		if src >= 0 && src < n {
			b[i] = a[src]
		}
	}

	r := CrossCorrelation(a, b, 10, true)
	require.Len(t, r, 21)

	// lag index `shift+10` corresponds to lag=+shift in the -10..10 range
	best := 0
	for i, v := range r {
		if v > r[best] {
			best = i
		}
	}
	assert.Equal(t, shift, best-10)
}
