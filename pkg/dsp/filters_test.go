package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverageWindowFormula(t *testing.T) {
	assert.Equal(t, 2, MovingAverageWindow(1000)) // round(100/1000)=0 -> clamp 2
	assert.Equal(t, 10, MovingAverageWindow(10))
	assert.Equal(t, 2, MovingAverageWindow(0))
}

func TestMovingAverageLengthPreserved(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	out := MovingAverage(x, 3)
	assert.Len(t, out, len(x))
}

func TestHighPassPlusLowPassEqualsInput(t *testing.T) {
	// §8: high_pass(x) + low_pass(x) = x within floating tolerance.
	x := make([]float64, 50)
	for i := range x {
		x[i] = math.Sin(float64(i)*0.3) + 0.1*float64(i)
	}

	lp := LowPass(x, 5)
	hp := HighPass(x, 5)

	for i := range x {
		assert.InDelta(t, x[i], lp[i]+hp[i], 1e-9)
	}
}

func TestLowPassMeanApproximatesInputMeanForGentleCutoff(t *testing.T) {
	// §8: mean(low_pass(x, cutoff near 0)) ≈ mean(x). Uses a series that
	// oscillates around a fixed mean (rather than a trend) so the causal
	// expanding-window average at the leading edge doesn't bias the result.
	x := make([]float64, 200)
	for i := range x {
		x[i] = 10 + 3*math.Sin(float64(i)*1.3)
	}
	lp := LowPass(x, 0.01)

	assert.InDelta(t, mean(x), mean(lp), 0.5)
}

func TestBandPassRunsWithoutPanicOnShortInput(t *testing.T) {
	assert.NotPanics(t, func() {
		BandPass([]float64{1, 2}, 5, 20)
	})
}
