package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyControlHysteresisTransitions(t *testing.T) {
	c, err := NewThresholdController(ThresholdConfig{
		Threshold:  0,
		Hysteresis: 0.2,
		DeadBand:   0.05,
		Strategy:   StrategyStatistical,
	})
	require.NoError(t, err)

	inputs := []float64{0.03, 0.25, 0.10, -0.25, 0.00}
	want := []State{StateDeadBand, StateTriggeredAbove, StateNormal, StateTriggeredBelow, StateDeadBand}

	for i, v := range inputs {
		out := c.ApplyControl(v)
		assert.Equal(t, want[i], out.State, "input #%d (%v)", i, v)
	}
}

func TestNewThresholdControllerRejectsInvalidConfig(t *testing.T) {
	_, err := NewThresholdController(ThresholdConfig{Hysteresis: 0.1, DeadBand: 0.2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUpdateAdaptationStatisticalTracksObservations(t *testing.T) {
	c, err := NewThresholdController(ThresholdConfig{Threshold: 0, Hysteresis: 1, Strategy: StrategyStatistical})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		c.UpdateAdaptation(Feedback{Value: 10})
	}
	assert.InDelta(t, 10, c.Threshold(), 1.0)
}

func TestUpdateAdaptationClampsToConstraints(t *testing.T) {
	c, err := NewThresholdController(ThresholdConfig{
		Threshold: 0, Hysteresis: 1, Strategy: StrategyStatistical,
		AdaptationRate: 1, ConstrainMax: true, Max: 5,
	})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		c.UpdateAdaptation(Feedback{Value: 1000})
	}
	assert.LessOrEqual(t, c.Threshold(), 5.0)
}

func TestUpdateAdaptationPercentile(t *testing.T) {
	c, err := NewThresholdController(ThresholdConfig{Strategy: StrategyPercentile, Percentile: 0.5})
	require.NoError(t, err)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		c.UpdateAdaptation(Feedback{Value: v})
	}
	assert.InDelta(t, 3, c.Threshold(), 1e-9)
}

func TestUpdateAdaptationGradientTracksIncreasingTrend(t *testing.T) {
	c, err := NewThresholdController(ThresholdConfig{Strategy: StrategyGradient, GradientAlpha: 1})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		c.UpdateAdaptation(Feedback{Value: float64(i)})
	}
	assert.Greater(t, c.Threshold(), 0.0)
}
