package aggregate

import (
	"math"

	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// computeFusion implements §4.G fusion aggregation. §9 leaves the named
// fusion strategies without concrete formulas beyond simple_average; this
// module fixes one concrete algorithm per variant (documented in
// DESIGN.md).
func computeFusion(snapshots map[string][]ringbuffer.Sample, method FusionMethod) (*FusionResult, error) {
	aligned := Align(snapshots)
	n := len(aligned.Timestamps)
	p := len(aligned.SignalIDs)
	if n == 0 || p == 0 {
		return nil, ErrInvalidSpec
	}

	switch method {
	case FusionKalman:
		return fuseKalman(aligned), nil
	case FusionBayesian:
		return fuseBayesian(aligned), nil
	case FusionDempsterShafer:
		return fuseDempsterShafer(aligned), nil
	default:
		return fuseSimpleAverage(aligned), nil
	}
}

// fuseSimpleAverage: componentwise mean across signals; confidence is the
// inverse of the cross-signal variance at each point (tight agreement
// across sensors implies high confidence).
func fuseSimpleAverage(a AlignedSeries) *FusionResult {
	n := len(a.Timestamps)
	p := len(a.SignalIDs)
	values := make([]float64, n)
	confidence := make([]float64, n)

	for i := 0; i < n; i++ {
		var sum float64
		for _, id := range a.SignalIDs {
			sum += a.Columns[id][i]
		}
		mean := sum / float64(p)
		values[i] = mean

		var variance float64
		for _, id := range a.SignalIDs {
			d := a.Columns[id][i] - mean
			variance += d * d
		}
		variance /= float64(p)
		confidence[i] = 1 / (1 + variance)
	}
	return &FusionResult{Timestamps: a.Timestamps, Values: values, Confidence: confidence, Method: FusionSimpleAverage}
}

// fuseKalman treats each grid point's per-signal readings as a sequence of
// independent measurements of one latent state, run through a scalar
// Kalman filter with one sequential measurement update per input signal
// (§4.D Kalman reused as a multi-sensor fuser, per DESIGN.md).
func fuseKalman(a AlignedSeries) *FusionResult {
	n := len(a.Timestamps)
	p := len(a.SignalIDs)
	values := make([]float64, n)
	confidence := make([]float64, n)

	k := dsp.NewKalman(a.Columns[a.SignalIDs[0]][0], 1, 0.01, 1, 1, 1)
	for i := 0; i < n; i++ {
		var lastGain float64
		for _, id := range a.SignalIDs {
			_, _, lastGain = k.Step(a.Columns[id][i])
		}
		values[i] = k.X
		confidence[i] = 1 - lastGain/float64(p) // gain shrinks as the filter converges
	}
	return &FusionResult{Timestamps: a.Timestamps, Values: values, Confidence: confidence, Method: FusionKalman}
}

// fuseBayesian inverse-variance weights each signal's reading by the
// reciprocal of its own running Welford variance (the textbook "product of
// Gaussians" combination): fused = Σ(x_i/σ_i²) / Σ(1/σ_i²).
func fuseBayesian(a AlignedSeries) *FusionResult {
	n := len(a.Timestamps)
	values := make([]float64, n)
	confidence := make([]float64, n)

	welfords := make(map[string]*dsp.Welford, len(a.SignalIDs))
	for _, id := range a.SignalIDs {
		welfords[id] = &dsp.Welford{}
	}

	for i := 0; i < n; i++ {
		var weightedSum, weightSum float64
		for _, id := range a.SignalIDs {
			v := a.Columns[id][i]
			w := welfords[id]
			w.Update(v)
			variance := w.Variance()
			precision := 1.0
			if variance > 1e-12 {
				precision = 1 / variance
			}
			weightedSum += precision * v
			weightSum += precision
		}
		if weightSum == 0 {
			continue
		}
		values[i] = weightedSum / weightSum
		confidence[i] = 1 - 1/(1+weightSum) // more precision accumulated -> higher confidence
	}
	return &FusionResult{Timestamps: a.Timestamps, Values: values, Confidence: confidence, Method: FusionBayesian}
}

// fuseDempsterShafer runs a simplified two-hypothesis ({normal},
// {anomalous}, {normal,anomalous}) Dempster-Shafer mass combination. Each
// signal assigns a per-point mass to {anomalous} of min(|z|/4, 0.9), where z
// is the point's distance from that signal's mean in standard deviations,
// and the whole remainder to {normal} (the uncertainty set gets no mass);
// masses are combined pairwise with Dempster's rule.
// The fused value is the simple mean (this strategy fuses *belief*, not
// the signal values themselves); Confidence is 1 minus the combined belief
// that the point is anomalous.
func fuseDempsterShafer(a AlignedSeries) *FusionResult {
	n := len(a.Timestamps)
	p := len(a.SignalIDs)
	values := make([]float64, n)
	confidence := make([]float64, n)

	stats := make(map[string]dsp.Stats, p)
	for _, id := range a.SignalIDs {
		stats[id] = dsp.Describe(a.Columns[id])
	}

	for i := 0; i < n; i++ {
		var sum float64
		mNormal, mAnomalous, mUnknown := 1.0, 0.0, 0.0 // identity mass for Dempster's rule
		for idx, id := range a.SignalIDs {
			v := a.Columns[id][i]
			sum += v
			st := stats[id]
			z := 0.0
			if st.StdDev > 0 {
				z = (v - st.Mean) / st.StdDev
			}
			anomalousMass := math.Min(math.Abs(z)/4, 0.9)
			normalMass := 1 - anomalousMass
			if idx == 0 {
				mNormal, mAnomalous, mUnknown = normalMass, anomalousMass, 0
				continue
			}
			mNormal, mAnomalous, mUnknown = dempsterCombine(mNormal, mAnomalous, mUnknown, normalMass, anomalousMass, 0)
		}
		values[i] = sum / float64(p)
		confidence[i] = 1 - mAnomalous
	}
	return &FusionResult{Timestamps: a.Timestamps, Values: values, Confidence: confidence, Method: FusionDempsterShafer}
}

// dempsterCombine applies Dempster's combination rule for the
// three-element frame {normal}, {anomalous}, {normal,anomalous} (the
// "unknown"/uncertain mass). Conflicting mass (normal vs anomalous
// disagreement) is renormalized away per the standard rule.
func dempsterCombine(n1, a1, u1, n2, a2, u2 float64) (n, a, u float64) {
	conflict := n1*a2 + a1*n2
	norm := 1 - conflict
	if norm <= 1e-9 {
		return n1, a1, u1
	}
	n = (n1*n2 + n1*u2 + u1*n2) / norm
	a = (a1*a2 + a1*u2 + u1*a2) / norm
	u = (u1 * u2) / norm
	return n, a, u
}
