package pattern

import (
	"math"
	"sort"

	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// Sensitivity selects the outlier/derivative thresholds used by anomaly
// detection (§4.E Anomaly: θ ∈ {2,3,4} / k ∈ {2,3,5} for
// sensitivity ∈ {high,normal,low}).
type Sensitivity int

const (
	SensitivityNormal Sensitivity = iota // zero value
	SensitivityHigh
	SensitivityLow
)

func (s Sensitivity) zThreshold() float64 {
	switch s {
	case SensitivityHigh:
		return 2
	case SensitivityLow:
		return 4
	default:
		return 3
	}
}

func (s Sensitivity) derivativeK() float64 {
	switch s {
	case SensitivityHigh:
		return 2
	case SensitivityLow:
		return 5
	default:
		return 3
	}
}

// AnomalyClass classifies a detected pattern anomaly.
type AnomalyClass int

const (
	ClassSpike AnomalyClass = iota
	ClassDip
	ClassLevelShift
	ClassMinorFluctuation
)

func (c AnomalyClass) String() string {
	switch c {
	case ClassSpike:
		return "spike"
	case ClassDip:
		return "dip"
	case ClassLevelShift:
		return "level_shift"
	default:
		return "minor_fluctuation"
	}
}

// Severity grades an anomaly by |z|.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "critical"
	}
}

func severityFromZ(absZ float64) Severity {
	switch {
	case absZ > 4:
		return SeverityCritical
	case absZ > 3:
		return SeverityHigh
	case absZ > 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AnomalyPoint is one detected anomalous sample.
type AnomalyPoint struct {
	Index    int
	Value    float64
	Z        float64
	Class    AnomalyClass
	Severity Severity
}

// AnomalyResult is the union of statistical and pattern anomalies,
// deduplicated by sample index (§4.E Anomaly).
type AnomalyResult struct {
	Points []AnomalyPoint
}

const minAnomalySamples = 5

// analyzeAnomaly implements §4.E Anomaly.
func analyzeAnomaly(samples []ringbuffer.Sample, sensitivity Sensitivity) Result {
	if len(samples) < minAnomalySamples {
		return insufficientData(signal.ModeAnomaly)
	}
	x := values(samples)
	stats := dsp.Describe(x)

	found := make(map[int]AnomalyPoint)

	if stats.StdDev > 0 {
		theta := sensitivity.zThreshold()
		for i, v := range x {
			z := (v - stats.Mean) / stats.StdDev
			if math.Abs(z) > theta {
				class := ClassSpike
				if z < 0 {
					class = ClassDip
				}
				found[i] = AnomalyPoint{Index: i, Value: v, Z: z, Class: class, Severity: severityFromZ(math.Abs(z))}
			}
		}
	}

	if len(x) > 1 {
		diffs := make([]float64, len(x)-1)
		var sumAbs float64
		for i := 1; i < len(x); i++ {
			diffs[i-1] = x[i] - x[i-1]
			sumAbs += math.Abs(diffs[i-1])
		}
		meanAbsDiff := sumAbs / float64(len(diffs))
		k := sensitivity.derivativeK()

		if meanAbsDiff > 0 {
			for i, d := range diffs {
				idx := i + 1
				if math.Abs(d) <= k*meanAbsDiff {
					continue
				}
				// A jump that merely reverts the previous sample's spike/dip
				// (the trailing edge of an already-flagged transient) is not
				// a second, distinct anomaly.
				if prior, ok := found[idx-1]; ok && (prior.Class == ClassSpike || prior.Class == ClassDip) {
					continue
				}

				class := classifyDerivative(x, idx, d)
				z := 0.0
				if stats.StdDev > 0 {
					z = (x[idx] - stats.Mean) / stats.StdDev
				}
				if existing, ok := found[idx]; ok {
					if severityFromZ(math.Abs(z)) > existing.Severity {
						existing.Severity = severityFromZ(math.Abs(z))
					}
					found[idx] = existing
					continue
				}
				sev := severityFromZ(math.Abs(z))
				if math.Abs(d) < 1.2*k*meanAbsDiff {
					class = ClassMinorFluctuation
				}
				found[idx] = AnomalyPoint{Index: idx, Value: x[idx], Z: z, Class: class, Severity: sev}
			}
		}
	}

	points := make([]AnomalyPoint, 0, len(found))
	for _, p := range found {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Index < points[j].Index })

	return Result{Mode: signal.ModeAnomaly, Status: StatusOK, Anomaly: &AnomalyResult{Points: points}}
}

// classifyDerivative distinguishes a transient spike/dip (value reverts on
// the next sample) from a sustained level shift.
func classifyDerivative(x []float64, idx int, d float64) AnomalyClass {
	if idx+1 >= len(x) {
		if d > 0 {
			return ClassSpike
		}
		return ClassDip
	}
	next := x[idx+1] - x[idx]
	if d > 0 && next < -0.5*d {
		return ClassSpike
	}
	if d < 0 && next > -0.5*d {
		return ClassDip
	}
	return ClassLevelShift
}
