package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeEmptyAndSingle(t *testing.T) {
	assert.Equal(t, Stats{}, Describe(nil))

	s := Describe([]float64{5})
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 1, s.N)
}

func TestDescribeBasic(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	s := Describe(x)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, 3.0, s.Median, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
}

func TestPercentileBounds(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 5.0, Percentile(sorted, 1))
	assert.InDelta(t, 3.0, Percentile(sorted, 0.5), 1e-9)
}

func TestWelfordMatchesBatch(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	var w Welford
	for _, v := range x {
		w.Update(v)
	}

	batch := Describe(x)
	assert.InDelta(t, batch.Mean, w.Mean(), 1e-9)
	assert.InDelta(t, batch.Variance, w.Variance(), 1e-9)
	assert.Equal(t, int64(len(x)), w.Count())
}

func TestWelfordResetAndSmallN(t *testing.T) {
	var w Welford
	assert.Equal(t, 0.0, w.Variance())
	w.Update(1)
	assert.Equal(t, 0.0, w.Variance()) // single sample has no variance

	w.Reset()
	assert.Equal(t, int64(0), w.Count())
	assert.Equal(t, 0.0, w.Mean())
}
