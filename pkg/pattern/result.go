// Package pattern implements the Pattern Detector (component E): given a
// signal snapshot and an analysis mode, it produces a tagged Analysis
// Result (§4.E). Each mode's payload has a fixed shape, per §9's guidance
// to replace dynamically-typed analysis results with a tagged variant.
package pattern

import "github.com/signalforge/telemetry/pkg/signal"

// Status classifies the outcome of an analysis, independent of its mode.
type Status int

const (
	// StatusOK means the mode-specific payload field is populated.
	StatusOK Status = iota
	// StatusInsufficientData means N was too small to analyze; all
	// mode-specific payload fields are zero-valued.
	StatusInsufficientData
	// StatusUnsupported means Analyze has no detector for the requested
	// mode (§9: "must return an unsupported result rather than
	// silently returning placeholder values").
	StatusUnsupported
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInsufficientData:
		return "insufficient_data"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Result is the tagged union returned by Analyze. Exactly one of the
// mode-specific pointer fields is non-nil when Status is StatusOK, and it
// matches Mode.
type Result struct {
	Mode     signal.Mode
	Status   Status
	Degraded bool // marks a result built on a transient numeric fallback; no detector here sets it

	Basic       *BasicResult
	Spectrum    *SpectrumResult
	Peaks       *PeaksResult
	Envelope    *EnvelopeResult
	Periodicity *PeriodicityResult
	Trend       *TrendResult
	Anomaly     *AnomalyResult
	Chaos       *ChaosResult
	Fractal     *FractalResult
}

func insufficientData(mode signal.Mode) Result {
	return Result{Mode: mode, Status: StatusInsufficientData}
}

func unsupported(mode signal.Mode) Result {
	return Result{Mode: mode, Status: StatusUnsupported}
}
