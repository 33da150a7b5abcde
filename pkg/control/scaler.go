package control

import (
	"fmt"
	"math"
	"sort"

	"github.com/signalforge/telemetry/pkg/dsp"
)

// ScalerMode names an auto-scaler adaptation algorithm (§4.F Auto-scaler).
type ScalerMode int

const (
	ScalerDynamicRange ScalerMode = iota
	ScalerHistogram
	ScalerNormalization
	ScalerRobust
)

func (m ScalerMode) String() string {
	switch m {
	case ScalerDynamicRange:
		return "dynamic_range"
	case ScalerHistogram:
		return "histogram"
	case ScalerNormalization:
		return "normalization"
	case ScalerRobust:
		return "robust"
	default:
		return "unknown"
	}
}

// OutlierPolicy controls what ApplyScaling does with a scaled value outside
// the configured output range (§3 Auto-Scaler outlier_policy).
type OutlierPolicy int

const (
	// OutlierClip saturates the scaled value to the output range (default).
	OutlierClip OutlierPolicy = iota
	// OutlierCompress smoothly squashes out-of-range values toward the
	// output bounds instead of hard-clamping them.
	OutlierCompress
	// OutlierReject reports the scaled value as invalid rather than
	// returning a number; callers see this as ApplyScaling's second,
	// ok=false return.
	OutlierReject
)

func (p OutlierPolicy) String() string {
	switch p {
	case OutlierClip:
		return "clip"
	case OutlierCompress:
		return "compress"
	case OutlierReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ScalerConfig configures an AutoScaler (§4.F).
type ScalerConfig struct {
	Offset float64
	Scale  float64

	OutputMin float64
	OutputMax float64
	Outliers  OutlierPolicy

	Mode            ScalerMode
	AdaptationSpeed float64 // dynamic_range exponential smoothing factor α
	RecentCap       int     // robust mode's recent-buffer bound; defaults to 1000
}

// Validate checks structural invariants.
func (c ScalerConfig) Validate() error {
	if c.OutputMin > c.OutputMax {
		return fmt.Errorf("%w: output_min must be <= output_max", ErrInvalidConfig)
	}
	if c.Mode < ScalerDynamicRange || c.Mode > ScalerRobust {
		return fmt.Errorf("%w: unknown scaler mode %v", ErrInvalidConfig, c.Mode)
	}
	return nil
}

func (c ScalerConfig) recentCap() int {
	if c.RecentCap <= 0 {
		return 1000
	}
	return c.RecentCap
}

// AutoScaler rescales values into an output range and adapts its scale
// factor from observed data (§4.F). Like ThresholdController, it is mutated
// only under its signal's per-signal lease (§5).
type AutoScaler struct {
	cfg    ScalerConfig
	offset float64
	scale  float64

	haveRange    bool
	obsMin       float64
	obsMax       float64
	welford      dsp.Welford
	recentBuffer []float64
}

// NewAutoScaler builds a scaler seeded at cfg.Offset/cfg.Scale.
func NewAutoScaler(cfg ScalerConfig) (*AutoScaler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	return &AutoScaler{cfg: cfg, offset: cfg.Offset, scale: scale}, nil
}

// ApplyScaling implements §4.F: scaled = (value − offset)·scale, then
// applies the configured outlier policy against the output range. ok is
// false only under OutlierReject when the scaled value falls outside the
// output range; every other policy always reports ok=true.
func (s *AutoScaler) ApplyScaling(value float64) (result float64, ok bool) {
	scaled := (value - s.offset) * s.scale
	outside := scaled < s.cfg.OutputMin || scaled > s.cfg.OutputMax

	switch s.cfg.Outliers {
	case OutlierCompress:
		return s.compress(scaled), true
	case OutlierReject:
		return scaled, !outside
	default: // OutlierClip
		if scaled < s.cfg.OutputMin {
			return s.cfg.OutputMin, true
		}
		if scaled > s.cfg.OutputMax {
			return s.cfg.OutputMax, true
		}
		return scaled, true
	}
}

// compress smoothly squashes scaled toward the output range via a tanh
// saturation curve centered on the range's midpoint, so moderate overshoots
// land strictly inside the bound they overshot. In float64, tanh rounds to
// exactly ±1 once its argument passes about 19, so an overshoot of more than
// about 18 half-ranges beyond the bound returns the bound itself.
func (s *AutoScaler) compress(scaled float64) float64 {
	mid := (s.cfg.OutputMin + s.cfg.OutputMax) / 2
	half := (s.cfg.OutputMax - s.cfg.OutputMin) / 2
	if half <= 0 {
		return mid
	}
	return mid + half*math.Tanh((scaled-mid)/half)
}

// UpdateAdaptation folds a newly observed value into the scaler's running
// statistics and recomputes offset/scale per the configured mode (§4.F).
func (s *AutoScaler) UpdateAdaptation(value float64) {
	switch s.cfg.Mode {
	case ScalerDynamicRange:
		s.adaptDynamicRange(value)
	case ScalerHistogram:
		s.adaptHistogram(value)
	case ScalerNormalization:
		s.adaptNormalization(value)
	case ScalerRobust:
		s.adaptRobust(value)
	}
}

// adaptDynamicRange implements §4.F Dynamic range: track observed min/max;
// new_scale = (out_max−out_min)/max(obs_max−obs_min, ε); exponential
// smoothing with adaptation_speed α.
func (s *AutoScaler) adaptDynamicRange(value float64) {
	if !s.haveRange {
		s.obsMin, s.obsMax = value, value
		s.haveRange = true
	} else {
		s.obsMin = math.Min(s.obsMin, value)
		s.obsMax = math.Max(s.obsMax, value)
	}

	const epsilon = 1e-9
	span := math.Max(s.obsMax-s.obsMin, epsilon)
	target := (s.cfg.OutputMax - s.cfg.OutputMin) / span

	alpha := s.cfg.AdaptationSpeed
	if alpha <= 0 {
		alpha = 1
	}
	if alpha > 1 {
		alpha = 1
	}
	s.scale = (1-alpha)*s.scale + alpha*target
	s.offset = s.obsMin
}

const histogramBins = 10

// adaptHistogram is not one of spec.md's three specified adaptation rules
// (dynamic range, normalization, robust); histogram mode's algorithm is
// this module's own resolution, following adaptEntropy's bucket-discretize
// approach in threshold.go: bin the recent buffer into histogramBins
// equal-width bins across its observed span, trim the empty leading and
// trailing bins, and map the remaining occupied range to the output
// range. Trimming outlier-only edge bins is what distinguishes this from
// dynamic_range's raw min/max span.
func (s *AutoScaler) adaptHistogram(value float64) {
	s.recentBuffer = append(s.recentBuffer, value)
	if cap := s.cfg.recentCap(); len(s.recentBuffer) > cap {
		s.recentBuffer = s.recentBuffer[len(s.recentBuffer)-cap:]
	}
	if len(s.recentBuffer) < 2 {
		return
	}

	minV, maxV := s.recentBuffer[0], s.recentBuffer[0]
	for _, v := range s.recentBuffer {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span <= 0 {
		return
	}

	counts := make([]int, histogramBins)
	for _, v := range s.recentBuffer {
		b := int((v - minV) / span * float64(histogramBins))
		if b >= histogramBins {
			b = histogramBins - 1
		}
		counts[b]++
	}

	first, last := 0, histogramBins-1
	for first < histogramBins && counts[first] == 0 {
		first++
	}
	for last >= 0 && counts[last] == 0 {
		last--
	}
	if first > last {
		return
	}

	binWidth := span / float64(histogramBins)
	trimmedMin := minV + binWidth*float64(first)
	trimmedMax := minV + binWidth*float64(last+1)

	const epsilon = 1e-9
	effSpan := math.Max(trimmedMax-trimmedMin, epsilon)
	s.offset = trimmedMin
	s.scale = (s.cfg.OutputMax - s.cfg.OutputMin) / effSpan
}

// adaptNormalization implements §4.F Normalization: Welford running μ, σ;
// map ±3σ to the output range.
func (s *AutoScaler) adaptNormalization(value float64) {
	s.welford.Update(value)
	sd := s.welford.StdDev()
	if sd <= 0 {
		return
	}
	s.offset = s.welford.Mean()
	s.scale = (s.cfg.OutputMax - s.cfg.OutputMin) / (6 * sd)
}

// adaptRobust implements §4.F Robust: maintain a recent buffer (≤1000);
// median and IQR drive scale.
func (s *AutoScaler) adaptRobust(value float64) {
	s.recentBuffer = append(s.recentBuffer, value)
	if cap := s.cfg.recentCap(); len(s.recentBuffer) > cap {
		s.recentBuffer = s.recentBuffer[len(s.recentBuffer)-cap:]
	}
	if len(s.recentBuffer) < 2 {
		return
	}

	sorted := append([]float64(nil), s.recentBuffer...)
	sort.Float64s(sorted)
	median := dsp.Percentile(sorted, 0.5)
	q1 := dsp.Percentile(sorted, 0.25)
	q3 := dsp.Percentile(sorted, 0.75)
	iqr := q3 - q1

	s.offset = median
	if iqr > 1e-9 {
		s.scale = (s.cfg.OutputMax - s.cfg.OutputMin) / iqr
	}
}

// Offset and Scale report the scaler's current parameters.
func (s *AutoScaler) Offset() float64 { return s.offset }
func (s *AutoScaler) Scale() float64  { return s.scale }
