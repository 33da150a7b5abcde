package pattern

import (
	"math"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// FractalResult reports a box-counting dimension and a Hurst exponent
// (R/S analysis), and the self-similarity class the Hurst exponent
// implies (§4.E Fractal).
type FractalResult struct {
	BoxCountingDimension float64
	HurstExponent        float64
	SelfSimilarity       string // "anti_persistent", "random_walk", "persistent"
}

const minFractalSamples = 32

// analyzeFractal implements §4.E Fractal.
func analyzeFractal(samples []ringbuffer.Sample) Result {
	if len(samples) < minFractalSamples {
		return insufficientData(signal.ModeFractal)
	}
	x := values(samples)

	dim := boxCountingDimension(x)
	hurst := rescaledRangeHurst(x)

	var class string
	switch {
	case hurst < 0.45:
		class = "anti_persistent"
	case hurst > 0.55:
		class = "persistent"
	default:
		class = "random_walk"
	}

	return Result{
		Mode:   signal.ModeFractal,
		Status: StatusOK,
		Fractal: &FractalResult{
			BoxCountingDimension: dim,
			HurstExponent:        hurst,
			SelfSimilarity:       class,
		},
	}
}

// boxCountingDimension treats the series as a curve in the (index, value)
// unit square and estimates its fractal dimension as the negative slope of
// log(box count) vs log(box size) across a handful of power-of-two scales.
func boxCountingDimension(x []float64) float64 {
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
		return 1 // a flat series fills no vertical extent; treat as a line
	}

	n := len(x)
	var logEps, logCount []float64
	for divisions := 4; divisions <= 64 && divisions < n; divisions *= 2 {
		boxSize := 1.0 / float64(divisions)
		occupied := make(map[[2]int]struct{})
		for i, v := range x {
			bx := i * divisions / n
			by := int((v - minV) / span * float64(divisions))
			if by >= divisions {
				by = divisions - 1
			}
			occupied[[2]int{bx, by}] = struct{}{}
		}
		logEps = append(logEps, math.Log(boxSize))
		logCount = append(logCount, math.Log(float64(len(occupied))))
	}

	fit := fitLinear(logEps, logCount)
	return -fit.Slope
}

// rescaledRangeHurst estimates the Hurst exponent via classic R/S analysis:
// the series is split into windows of several sizes, the rescaled range
// R/S is averaged per size, and the Hurst exponent is the slope of
// log(R/S) vs log(window size).
func rescaledRangeHurst(x []float64) float64 {
	n := len(x)
	var logN, logRS []float64

	for winSize := 8; winSize <= n/2; winSize *= 2 {
		var sumRS float64
		var count int
		for start := 0; start+winSize <= n; start += winSize {
			window := x[start : start+winSize]
			rs := rescaledRange(window)
			if rs > 0 {
				sumRS += rs
				count++
			}
		}
		if count == 0 {
			continue
		}
		logN = append(logN, math.Log(float64(winSize)))
		logRS = append(logRS, math.Log(sumRS/float64(count)))
	}

	if len(logN) < 2 {
		return 0.5 // not enough scales to estimate; assume an unbiased random walk
	}
	fit := fitLinear(logN, logRS)
	return fit.Slope
}

func rescaledRange(window []float64) float64 {
	n := len(window)
	if n == 0 {
		return 0
	}
	var mean float64
	for _, v := range window {
		mean += v
	}
	mean /= float64(n)

	var cum, minCum, maxCum, variance float64
	for i, v := range window {
		d := v - mean
		cum += d
		variance += d * d
		if i == 0 || cum < minCum {
			minCum = cum
		}
		if i == 0 || cum > maxCum {
			maxCum = cum
		}
	}
	stdDev := math.Sqrt(variance / float64(n))
	if stdDev == 0 {
		return 0
	}
	return (maxCum - minCum) / stdDev
}
