package pattern

import (
	"math"

	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// PeriodicityResult reports whether the waveform shows a dominant
// repeating cycle, and at what period (§4.E Periodicity).
type PeriodicityResult struct {
	Detected      bool
	PeriodSeconds float64
	FrequencyHz   float64
	AutocorrLag   int
	AutocorrPeak  float64
	TopFreqsHz    []float64
	Confidence    float64
}

const minPeriodicitySamples = 8

// analyzePeriodicity implements §4.E Periodicity: the first autocorrelation
// peak ≥0.6 (excluding lag 0) mapped to a period via the estimated sample
// rate, cross-checked against the top-5 FFT magnitudes.
func analyzePeriodicity(samples []ringbuffer.Sample, fallbackRateHz float64) Result {
	if len(samples) < minPeriodicitySamples {
		return insufficientData(signal.ModePeriodicity)
	}
	x := values(samples)
	acf := dsp.Autocorrelation(x)

	// The first autocorrelation peak (local maximum) at or above 0.6 gives the
	// period; peaks at its multiples can score marginally higher.
	bestLag := -1
	bestVal := 0.0
	for lag := 1; lag < len(acf); lag++ {
		if acf[lag] < 0.6 || acf[lag] < acf[lag-1] {
			continue
		}
		if lag+1 < len(acf) && acf[lag+1] > acf[lag] {
			continue
		}
		bestLag = lag
		bestVal = acf[lag]
		break
	}

	rateHz := estimatedRateHz(samples, fallbackRateHz)
	spec := dsp.FFT(x, rateHz)
	top := spec.TopKMagnitudes(5)
	topFreqs := make([]float64, len(top))
	var maxMag, sumMag float64
	for i, b := range top {
		topFreqs[i] = spec.Freqs[b]
		if spec.Magnitude[b] > maxMag {
			maxMag = spec.Magnitude[b]
		}
	}
	for i := 1; i < len(spec.Magnitude); i++ { // exclude DC (bin 0)
		sumMag += spec.Magnitude[i]
	}
	meanMag := 0.0
	if n := len(spec.Magnitude) - 1; n > 0 {
		meanMag = sumMag / float64(n)
	}

	spectralTerm := 0.0
	if meanMag > 0 {
		spectralTerm = math.Min(maxMag/meanMag-1, 10) / 10
		spectralTerm = math.Max(0, math.Min(1, spectralTerm))
	}

	res := PeriodicityResult{
		TopFreqsHz: topFreqs,
	}
	if bestLag > 0 {
		res.Detected = true
		res.AutocorrLag = bestLag
		res.AutocorrPeak = bestVal
		res.PeriodSeconds = float64(bestLag) / rateHz
		res.FrequencyHz = rateHz / float64(bestLag)
	}
	res.Confidence = math.Max(0, math.Min(1, 0.6*bestVal+0.4*spectralTerm))

	return Result{Mode: signal.ModePeriodicity, Status: StatusOK, Periodicity: &res}
}
