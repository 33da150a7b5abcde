// Package control implements the Adaptive Controller (component F): a
// per-signal threshold state machine and an auto-scaler, each owning its
// state exclusively and mutated only under its caller's per-signal lease
// (§4.F, §5 "Ownership").
package control

import (
	"fmt"
	"math"
	"sort"

	"github.com/signalforge/telemetry/pkg/dsp"
)

// State is the tagged outcome of ApplyControl (§4.F).
type State int

const (
	StateNormal State = iota
	StateDeadBand
	StateTriggeredAbove
	StateTriggeredBelow
)

func (s State) String() string {
	switch s {
	case StateDeadBand:
		return "dead_band"
	case StateTriggeredAbove:
		return "triggered_above"
	case StateTriggeredBelow:
		return "triggered_below"
	default:
		return "normal"
	}
}

// Direction reports which side of the threshold value falls on.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAbove
	DirectionBelow
)

func (d Direction) String() string {
	switch d {
	case DirectionAbove:
		return "above"
	case DirectionBelow:
		return "below"
	default:
		return "none"
	}
}

// Outcome is the tagged result of ApplyControl (§4.F).
type Outcome struct {
	State     State
	Value     float64
	Threshold float64
	Direction Direction
}

// Strategy names an adaptation algorithm for UpdateAdaptation (§4.F).
type Strategy int

const (
	StrategyStatistical Strategy = iota
	StrategyPercentile
	StrategyEntropy
	StrategyGradient
	StrategyFuzzy
)

func (s Strategy) String() string {
	switch s {
	case StrategyStatistical:
		return "statistical"
	case StrategyPercentile:
		return "percentile"
	case StrategyEntropy:
		return "entropy"
	case StrategyGradient:
		return "gradient"
	case StrategyFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// ThresholdConfig configures a ThresholdController (§4.F).
type ThresholdConfig struct {
	Threshold  float64
	Hysteresis float64
	DeadBand   float64
	Strategy   Strategy

	AdaptationRate float64 // statistical strategy's k multiplier input
	Percentile     float64 // 0..1, percentile strategy's target percentile
	SampleCap      int     // bound on the recent-values buffer; defaults to 200
	GradientAlpha  float64 // gradient strategy's step size

	ConstrainMin bool
	Min          float64
	ConstrainMax bool
	Max          float64
}

// Validate checks structural invariants.
func (c ThresholdConfig) Validate() error {
	if c.DeadBand < 0 || c.Hysteresis < 0 {
		return fmt.Errorf("%w: dead_band and hysteresis must be >= 0", ErrInvalidConfig)
	}
	if c.DeadBand >= c.Hysteresis && c.Hysteresis > 0 {
		return fmt.Errorf("%w: dead_band must be < hysteresis", ErrInvalidConfig)
	}
	if c.ConstrainMin && c.ConstrainMax && c.Min > c.Max {
		return fmt.Errorf("%w: min must be <= max", ErrInvalidConfig)
	}
	if c.Strategy < StrategyStatistical || c.Strategy > StrategyFuzzy {
		return fmt.Errorf("%w: unknown strategy %v", ErrInvalidConfig, c.Strategy)
	}
	return nil
}

func (c ThresholdConfig) sampleCap() int {
	if c.SampleCap <= 0 {
		return 200
	}
	return c.SampleCap
}

// Feedback carries an observed value back into the adaptation loop.
type Feedback struct {
	Value float64
}

// ThresholdController is the state-machine + adaptation state for one
// signal's threshold controller (§4.F). It is not safe for concurrent use
// without external serialization; §5 requires the caller to only access it
// under that signal's per-signal lease.
type ThresholdController struct {
	cfg     ThresholdConfig
	current float64

	welford dsp.Welford
	recent  []float64 // bounded history for percentile/entropy/gradient
	lastErr float64   // previous feedback error, for the fuzzy strategy's rate-of-change term
	haveErr bool
}

// NewThresholdController builds a controller seeded at cfg.Threshold.
func NewThresholdController(cfg ThresholdConfig) (*ThresholdController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ThresholdController{cfg: cfg, current: cfg.Threshold}, nil
}

// Threshold returns the controller's current threshold.
func (c *ThresholdController) Threshold() float64 { return c.current }

// ApplyControl classifies value against the current threshold (§4.F).
func (c *ThresholdController) ApplyControl(value float64) Outcome {
	delta := value - c.current
	abs := math.Abs(delta)

	out := Outcome{Value: value, Threshold: c.current}
	switch {
	case abs < c.cfg.DeadBand:
		out.State = StateDeadBand
		out.Direction = DirectionNone
	case delta > c.cfg.Hysteresis:
		out.State = StateTriggeredAbove
		out.Direction = DirectionAbove
	case delta < -c.cfg.Hysteresis:
		out.State = StateTriggeredBelow
		out.Direction = DirectionBelow
	default:
		out.State = StateNormal
		if delta > 0 {
			out.Direction = DirectionAbove
		} else if delta < 0 {
			out.Direction = DirectionBelow
		}
	}
	return out
}

// UpdateAdaptation recomputes the threshold from feedback using the
// controller's configured strategy (§4.F).
func (c *ThresholdController) UpdateAdaptation(fb Feedback) {
	c.pushRecent(fb.Value)

	switch c.cfg.Strategy {
	case StrategyStatistical:
		c.adaptStatistical(fb)
	case StrategyPercentile:
		c.adaptPercentile()
	case StrategyEntropy:
		c.adaptEntropy()
	case StrategyGradient:
		c.adaptGradient()
	case StrategyFuzzy:
		c.adaptFuzzy(fb)
	}
	c.current = c.clamp(c.current)
}

func (c *ThresholdController) pushRecent(v float64) {
	c.recent = append(c.recent, v)
	if cap := c.cfg.sampleCap(); len(c.recent) > cap {
		c.recent = c.recent[len(c.recent)-cap:]
	}
}

func (c *ThresholdController) clamp(t float64) float64 {
	if c.cfg.ConstrainMin && t < c.cfg.Min {
		t = c.cfg.Min
	}
	if c.cfg.ConstrainMax && t > c.cfg.Max {
		t = c.cfg.Max
	}
	return t
}

// adaptStatistical implements §4.F Statistical: new_threshold = μ + k·σ,
// k = 2·(1 + adaptation_rate·(1 − stability)), stability = 1/(1+Var).
func (c *ThresholdController) adaptStatistical(fb Feedback) {
	c.welford.Update(fb.Value)
	variance := c.welford.Variance()
	stability := 1 / (1 + variance)
	k := 2 * (1 + c.cfg.AdaptationRate*(1-stability))
	c.current = c.welford.Mean() + k*c.welford.StdDev()
}

// adaptPercentile implements §4.F Percentile: new_threshold = the p-th
// percentile of the bounded recent-values buffer.
func (c *ThresholdController) adaptPercentile() {
	if len(c.recent) == 0 {
		return
	}
	sorted := append([]float64(nil), c.recent...)
	sort.Float64s(sorted)
	p := c.cfg.Percentile
	if p <= 0 {
		p = 0.95
	}
	c.current = dsp.Percentile(sorted, p)
}

// adaptEntropy implements §4.F Entropy: discretize the recent buffer into
// 10 bins, compute Shannon entropy H, and set
// new_threshold = μ + σ·(1 + H/ln 2).
func (c *ThresholdController) adaptEntropy() {
	if len(c.recent) == 0 {
		return
	}
	stats := dsp.Describe(c.recent)
	h := shannonEntropy(c.recent, 10)
	c.current = stats.Mean + stats.StdDev*(1+h/math.Ln2)
}

func shannonEntropy(x []float64, bins int) float64 {
	if len(x) == 0 || bins < 1 {
		return 0
	}
	minV, maxV := x[0], x[0]
	for _, v := range x {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		return 0
	}
	counts := make([]int, bins)
	for _, v := range x {
		b := int((v - minV) / span * float64(bins))
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	var h float64
	n := float64(len(x))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log(p)
	}
	return h
}

// adaptGradient implements §4.F Gradient: new_threshold =
// 0.8·current + 0.2·(current + slope·α), where slope is the OLS slope of
// the recent-values buffer against its index.
func (c *ThresholdController) adaptGradient() {
	if len(c.recent) < 2 {
		return
	}
	t := make([]float64, len(c.recent))
	for i := range t {
		t[i] = float64(i)
	}
	slope := olsSlope(t, c.recent)
	alpha := c.cfg.GradientAlpha
	if alpha == 0 {
		alpha = 1
	}
	c.current = 0.8*c.current + 0.2*(c.current+slope*alpha)
}

func olsSlope(t, y []float64) float64 {
	n := len(t)
	var sumT, sumY float64
	for i := range t {
		sumT += t[i]
		sumY += y[i]
	}
	meanT, meanY := sumT/float64(n), sumY/float64(n)
	var num, den float64
	for i := range t {
		dt := t[i] - meanT
		num += dt * (y[i] - meanY)
		den += dt * dt
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// adaptFuzzy implements §4.F Fuzzy: an additive rule-based adjustment from
// the feedback error (distance from the current threshold) and its rate of
// change since the previous feedback.
func (c *ThresholdController) adaptFuzzy(fb Feedback) {
	err := fb.Value - c.current
	rate := 0.0
	if c.haveErr {
		rate = err - c.lastErr
	}
	c.lastErr = err
	c.haveErr = true

	// Rule base: error with same-sign or zero rate → push harder (0.3·err);
	// error with opposing rate (already correcting) → push gently (0.1·err);
	// zero error → hold.
	var adjust float64
	switch {
	case math.Abs(err) < 1e-9:
		adjust = 0
	case err*rate >= 0:
		adjust = 0.3 * err
	default:
		adjust = 0.1 * err
	}
	c.current += adjust
}
