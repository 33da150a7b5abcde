package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyScalingBasic(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{Offset: 10, Scale: 2, OutputMin: -1000, OutputMax: 1000})
	require.NoError(t, err)
	result, ok := s.ApplyScaling(20)
	assert.True(t, ok)
	assert.InDelta(t, 20, result, 1e-9)
}

func TestApplyScalingClipsOutliers(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{Scale: 1, OutputMin: 0, OutputMax: 10})
	require.NoError(t, err)
	high, ok := s.ApplyScaling(1000)
	assert.True(t, ok)
	assert.Equal(t, 10.0, high)
	low, ok := s.ApplyScaling(-1000)
	assert.True(t, ok)
	assert.Equal(t, 0.0, low)
}

func TestApplyScalingCompressPolicySquashesTowardBounds(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{Scale: 1, OutputMin: 0, OutputMax: 10, Outliers: OutlierCompress})
	require.NoError(t, err)
	result, ok := s.ApplyScaling(20)
	assert.True(t, ok)
	assert.Less(t, result, 10.0)
	assert.Greater(t, result, 9.0)
}

func TestApplyScalingRejectPolicyReportsOutlierAsNotOk(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{Scale: 1, OutputMin: 0, OutputMax: 10, Outliers: OutlierReject})
	require.NoError(t, err)
	result, ok := s.ApplyScaling(1000)
	assert.False(t, ok)
	assert.Equal(t, 1000.0, result)

	inRange, ok := s.ApplyScaling(5)
	assert.True(t, ok)
	assert.Equal(t, 5.0, inRange)
}

func TestUpdateAdaptationDynamicRangeTracksObservedSpan(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{
		Scale: 1, OutputMin: 0, OutputMax: 100, Mode: ScalerDynamicRange, AdaptationSpeed: 1,
	})
	require.NoError(t, err)
	for _, v := range []float64{0, 10, 20, 5} {
		s.UpdateAdaptation(v)
	}
	assert.InDelta(t, 100.0/20.0, s.Scale(), 1e-6)
	assert.InDelta(t, 0, s.Offset(), 1e-9)
}

func TestUpdateAdaptationNormalizationMapsThreeSigma(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{Scale: 1, OutputMin: -1, OutputMax: 1, Mode: ScalerNormalization})
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		v := 5.0
		if i%2 == 0 {
			v = 5.0 + 1.0
		} else {
			v = 5.0 - 1.0
		}
		s.UpdateAdaptation(v)
	}
	assert.InDelta(t, 5, s.Offset(), 0.2)
}

func TestUpdateAdaptationRobustUsesMedianAndIQR(t *testing.T) {
	s, err := NewAutoScaler(ScalerConfig{Scale: 1, OutputMin: 0, OutputMax: 10, Mode: ScalerRobust})
	require.NoError(t, err)
	for _, v := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9} {
		s.UpdateAdaptation(v)
	}
	assert.InDelta(t, 5, s.Offset(), 1e-9)
}

func TestScalerConfigValidation(t *testing.T) {
	_, err := NewAutoScaler(ScalerConfig{OutputMin: 10, OutputMax: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
