package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLMSErrorShrinksOnPredictableSignal(t *testing.T) {
	l := NewLMS(4, 0.05, false)
	x := make([]float64, 300)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.2)
	}
	_, errs := l.FilterSeries(x)

	earlyAbs := math.Abs(errs[10])
	lateAbs := math.Abs(errs[len(errs)-1])
	assert.Less(t, lateAbs, earlyAbs)
}

func TestLMSWeightHistoryOnlyWhenRequested(t *testing.T) {
	l := NewLMS(2, 0.1, false)
	l.FilterSeries([]float64{1, 2, 3})
	assert.Nil(t, l.WeightHistory())

	l2 := NewLMS(2, 0.1, true)
	l2.FilterSeries([]float64{1, 2, 3})
	require.Len(t, l2.WeightHistory(), 3)
}
