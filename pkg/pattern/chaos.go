package pattern

import (
	"math"

	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// ChaosResult reports a Rosenstein-style largest-Lyapunov-exponent
// estimate and the attractor classification it implies (§4.E Chaos).
type ChaosResult struct {
	Delay                 int
	EmbeddingDimension    int
	LyapunovExponent      float64
	AttractorType         string // "chaotic", "periodic", "fixed_point"
	PredictabilityHorizon float64
	PredictabilityDefined bool
}

const (
	chaosEmbeddingDimension = 3
	defaultTakensDelay      = 10
	minChaosSamples         = 60
	rosensteinHorizonSteps  = 8
)

// analyzeChaos implements §4.E Chaos: Takens-embed the series with delay τ
// (first minimum of the autocorrelation function, default 10) and
// dimension 3, then estimate the largest Lyapunov exponent by tracking how
// fast nearest-neighbor trajectories diverge (Rosenstein's method).
func analyzeChaos(samples []ringbuffer.Sample, rateHz float64) Result {
	if len(samples) < minChaosSamples {
		return insufficientData(signal.ModeChaos)
	}
	x := values(samples)
	tau := takensDelay(x)
	m := chaosEmbeddingDimension

	vectors := embed(x, tau, m)
	if len(vectors) < rosensteinHorizonSteps+2 {
		return insufficientData(signal.ModeChaos)
	}

	lambda := rosensteinLyapunov(vectors, tau, rosensteinHorizonSteps)

	res := ChaosResult{
		Delay:              tau,
		EmbeddingDimension: m,
		LyapunovExponent:   lambda,
	}
	switch {
	case lambda > 0.01:
		res.AttractorType = "chaotic"
	case lambda < -0.01:
		res.AttractorType = "fixed_point"
	default:
		res.AttractorType = "periodic"
	}
	if lambda > 0 {
		res.PredictabilityDefined = true
		// lambda is a per-sample-step rate; convert to seconds using the
		// signal's sampling rate.
		res.PredictabilityHorizon = (1 / lambda) / rateHz
	}

	return Result{Mode: signal.ModeChaos, Status: StatusOK, Chaos: &res}
}

// takensDelay picks τ as the first lag where the autocorrelation function
// has a local minimum, defaulting to defaultTakensDelay if none is found
// within the available lags.
func takensDelay(x []float64) int {
	acf := dsp.Autocorrelation(x)
	for lag := 1; lag+1 < len(acf); lag++ {
		if acf[lag] < acf[lag-1] && acf[lag] < acf[lag+1] {
			return lag
		}
	}
	if defaultTakensDelay < len(x) {
		return defaultTakensDelay
	}
	return 1
}

// embed builds Takens delay-coordinate vectors (x[i], x[i+tau], ..., x[i+(m-1)tau]).
func embed(x []float64, tau, m int) [][]float64 {
	n := len(x)
	span := (m - 1) * tau
	if span >= n {
		return nil
	}
	count := n - span
	vectors := make([][]float64, count)
	for i := 0; i < count; i++ {
		v := make([]float64, m)
		for d := 0; d < m; d++ {
			v[d] = x[i+d*tau]
		}
		vectors[i] = v
	}
	return vectors
}

// rosensteinLyapunov estimates the largest Lyapunov exponent: for each
// embedded point, find its nearest neighbor excluding points fewer than tau
// steps away in time (to avoid trivially correlated points), then average
// log-divergence over rosensteinHorizonSteps steps and fit a line through
// the average log-divergence curve; the slope is the exponent.
func rosensteinLyapunov(vectors [][]float64, tau, horizon int) float64 {
	n := len(vectors)
	avgLogDiv := make([]float64, horizon)
	counts := make([]int, horizon)

	for i := 0; i < n; i++ {
		j := nearestNeighbor(vectors, i, tau)
		if j < 0 {
			continue
		}
		for k := 0; k < horizon; k++ {
			if i+k >= n || j+k >= n {
				break
			}
			d := euclideanDistance(vectors[i+k], vectors[j+k])
			if d <= 0 {
				continue
			}
			avgLogDiv[k] += math.Log(d)
			counts[k]++
		}
	}

	t := make([]float64, 0, horizon)
	y := make([]float64, 0, horizon)
	for k := 0; k < horizon; k++ {
		if counts[k] == 0 {
			continue
		}
		t = append(t, float64(k))
		y = append(y, avgLogDiv[k]/float64(counts[k]))
	}
	fit := fitLinear(t, y)
	return fit.Slope
}

func nearestNeighbor(vectors [][]float64, i, minSeparation int) int {
	best := -1
	bestDist := math.Inf(1)
	for j := range vectors {
		if j == i {
			continue
		}
		if abs(j-i) < minSeparation {
			continue
		}
		d := euclideanDistance(vectors[i], vectors[j])
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
