package pattern

import (
	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// Options carries the per-mode knobs Analyze needs beyond the sample
// snapshot itself. Zero values fall back to the defaults documented on
// each field.
type Options struct {
	// RateHz is the signal's nominal sampling rate, used by spectrum,
	// periodicity, and chaos. Defaults to 10 Hz (§3 RateStandard) if zero.
	RateHz float64

	// PeakThreshold and PeakMinSeparation configure ModePeaks.
	PeakThreshold     float64
	PeakMinSeparation int

	// EnvelopeWindow configures ModeEnvelope; defaults to 5 if zero.
	EnvelopeWindow int

	// AnomalySensitivity configures ModeAnomaly; defaults to SensitivityNormal.
	AnomalySensitivity Sensitivity
}

func (o Options) rateHz() float64 {
	if o.RateHz <= 0 {
		return 10
	}
	return o.RateHz
}

func (o Options) envelopeWindow() int {
	if o.EnvelopeWindow <= 0 {
		return 5
	}
	return o.EnvelopeWindow
}

// Analyze dispatches a signal snapshot to the detector for mode,
// implementing the Pattern Detector's single entry point (§4.E).
func Analyze(samples []ringbuffer.Sample, mode signal.Mode, opts Options) Result {
	switch mode {
	case signal.ModeBasic:
		return analyzeBasic(samples)
	case signal.ModeSpectrum:
		return analyzeSpectrum(samples, opts.rateHz())
	case signal.ModePeaks:
		return analyzePeaks(samples, opts.PeakThreshold, opts.PeakMinSeparation)
	case signal.ModeEnvelope:
		return analyzeEnvelope(samples, opts.envelopeWindow())
	case signal.ModePeriodicity:
		return analyzePeriodicity(samples, opts.rateHz())
	case signal.ModeTrend:
		return analyzeTrend(samples)
	case signal.ModeAnomaly:
		return analyzeAnomaly(samples, opts.AnomalySensitivity)
	case signal.ModeChaos:
		return analyzeChaos(samples, opts.rateHz())
	case signal.ModeFractal:
		return analyzeFractal(samples)
	default:
		return unsupported(mode)
	}
}
