package pattern

import (
	"math"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// TrendResult reports the best-fitting trend model over the snapshot
// (§4.E Trend).
type TrendResult struct {
	Type      string // "linear", "exponential", "logarithmic", or "polynomial"
	Slope     float64
	Params    []float64 // model-specific coefficients, see Type
	RSquared  float64
	Direction string // "increasing", "decreasing", "flat"
	Forecast  func(t float64) float64
}

const minTrendSamples = 4

// analyzeTrend implements §4.E Trend: fits linear, exponential (log y vs
// t), logarithmic (y vs log t), and quadratic polynomial models, and keeps
// whichever has the highest R²; the quadratic must beat the best of the
// other three by more than quadraticMinGain.
func analyzeTrend(samples []ringbuffer.Sample) Result {
	if len(samples) < minTrendSamples {
		return insufficientData(signal.ModeTrend)
	}
	y := values(samples)
	t := make([]float64, len(y))
	for i := range t {
		t[i] = float64(i)
	}

	best := TrendResult{RSquared: math.Inf(-1)}

	if fit := fitLinear(t, y); fit.RSquared > best.RSquared {
		slope := fit.Slope
		intercept := fit.Intercept
		best = TrendResult{
			Type:     "linear",
			Slope:    slope,
			Params:   []float64{intercept, slope},
			RSquared: fit.RSquared,
			Forecast: func(tf float64) float64 { return intercept + slope*tf },
		}
	}

	if logY, ok := positiveSeries(y); ok {
		if fit := fitLinear(t, logY); fit.RSquared > best.RSquared {
			a, b := fit.Intercept, fit.Slope
			best = TrendResult{
				Type:     "exponential",
				Slope:    b,
				Params:   []float64{a, b},
				RSquared: fit.RSquared,
				Forecast: func(tf float64) float64 { return math.Exp(a) * math.Exp(b*tf) },
			}
		}
	}

	logT := make([]float64, len(t))
	for i := range t {
		logT[i] = math.Log(t[i] + 1) // shift so t=0 is defined (§7 transient numeric handling)
	}
	if fit := fitLinear(logT, y); fit.RSquared > best.RSquared {
		a, b := fit.Intercept, fit.Slope
		best = TrendResult{
			Type:     "logarithmic",
			Slope:    b,
			Params:   []float64{a, b},
			RSquared: fit.RSquared,
			Forecast: func(tf float64) float64 { return a + b*math.Log(tf+1) },
		}
	}

	// The quadratic contains the linear model, so its R² is never lower on
	// the same data; it replaces the best fit only when it gains more than
	// quadraticMinGain, so a noisy straight line stays "linear".
	const quadraticMinGain = 1e-3
	if a, b, c, r2 := fitQuadratic(t, y); r2 > best.RSquared+quadraticMinGain {
		best = TrendResult{
			Type:     "polynomial",
			Slope:    b,
			Params:   []float64{a, b, c},
			RSquared: r2,
			Forecast: func(tf float64) float64 { return a + b*tf + c*tf*tf },
		}
	}

	const flatEpsilon = 1e-9
	switch {
	case best.Slope > flatEpsilon:
		best.Direction = "increasing"
	case best.Slope < -flatEpsilon:
		best.Direction = "decreasing"
	default:
		best.Direction = "flat"
	}

	return Result{Mode: signal.ModeTrend, Status: StatusOK, Trend: &best}
}

// positiveSeries returns log(y) and true if every value is strictly
// positive (exponential fit requires this); otherwise ok is false.
func positiveSeries(y []float64) ([]float64, bool) {
	out := make([]float64, len(y))
	for i, v := range y {
		if v <= 0 {
			return nil, false
		}
		out[i] = math.Log(v)
	}
	return out, true
}
