package pattern

import (
	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// BasicResult carries descriptive statistics (§4.D Statistics).
type BasicResult struct {
	Stats dsp.Stats
}

func analyzeBasic(samples []ringbuffer.Sample) Result {
	if len(samples) == 0 {
		return insufficientData(signal.ModeBasic)
	}
	return Result{
		Mode:   signal.ModeBasic,
		Status: StatusOK,
		Basic:  &BasicResult{Stats: dsp.Describe(values(samples))},
	}
}

// SpectrumResult carries the FFT magnitude/phase spectrum (§4.D FFT) and
// the top-k strongest non-DC frequency components.
type SpectrumResult struct {
	Spectrum   dsp.Spectrum
	TopBins    []int
	TopFreqsHz []float64
}

func analyzeSpectrum(samples []ringbuffer.Sample, rateHz float64) Result {
	if len(samples) < 2 {
		return insufficientData(signal.ModeSpectrum)
	}
	spec := dsp.FFT(values(samples), rateHz)
	top := spec.TopKMagnitudes(5)
	freqs := make([]float64, len(top))
	for i, b := range top {
		freqs[i] = spec.Freqs[b]
	}
	return Result{
		Mode:     signal.ModeSpectrum,
		Status:   StatusOK,
		Spectrum: &SpectrumResult{Spectrum: spec, TopBins: top, TopFreqsHz: freqs},
	}
}

// PeaksResult carries detected local maxima (§4.D Peak detection).
type PeaksResult struct {
	Peaks []dsp.Peak
}

func analyzePeaks(samples []ringbuffer.Sample, threshold float64, minSeparation int) Result {
	if len(samples) < 3 {
		return insufficientData(signal.ModePeaks)
	}
	return Result{
		Mode:   signal.ModePeaks,
		Status: StatusOK,
		Peaks:  &PeaksResult{Peaks: dsp.DetectPeaks(values(samples), threshold, minSeparation)},
	}
}

// EnvelopeResult carries upper/lower envelopes (§4.D Envelope).
type EnvelopeResult struct {
	Envelope dsp.Envelope
}

func analyzeEnvelope(samples []ringbuffer.Sample, window int) Result {
	if len(samples) == 0 {
		return insufficientData(signal.ModeEnvelope)
	}
	return Result{
		Mode:     signal.ModeEnvelope,
		Status:   StatusOK,
		Envelope: &EnvelopeResult{Envelope: dsp.ComputeEnvelope(values(samples), window)},
	}
}
