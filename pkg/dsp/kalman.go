package dsp

// Kalman is a scalar Kalman filter: state x with error covariance P,
// process noise Q, measurement noise R, transition F and observation H
// (§4.D). Predict then Update runs once per sample.
type Kalman struct {
	X float64 // state estimate
	P float64 // estimate covariance
	Q float64 // process noise
	R float64 // measurement noise
	F float64 // state transition
	H float64 // observation model

	// LastInnovation and LastGain are exposed for callers that want to
	// inspect filter health without re-deriving them.
	LastInnovation float64
	LastGain       float64
}

// NewKalman creates a filter with the given initial state/covariance and
// model parameters. F and H default to 1 (a simple random-walk model with
// direct observation) when passed 0.
func NewKalman(initialX, initialP, q, r, f, h float64) *Kalman {
	if f == 0 {
		f = 1
	}
	if h == 0 {
		h = 1
	}
	return &Kalman{X: initialX, P: initialP, Q: q, R: r, F: f, H: h}
}

// Step predicts then updates with measurement z, returning the filtered
// value, innovation, and gain.
func (k *Kalman) Step(z float64) (filtered, innovation, gain float64) {
	// Predict
	xPred := k.F * k.X
	pPred := k.F*k.P*k.F + k.Q

	// Update
	innov := z - k.H*xPred
	s := k.H*pPred*k.H + k.R
	var kGain float64
	if s != 0 {
		kGain = pPred * k.H / s
	}

	k.X = xPred + kGain*innov
	k.P = (1 - kGain*k.H) * pPred

	k.LastInnovation = innov
	k.LastGain = kGain
	return k.X, innov, kGain
}

// FilterSeries runs the filter over a whole series, returning the filtered
// values. The filter's internal state advances across the call.
func (k *Kalman) FilterSeries(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i], _, _ = k.Step(v)
	}
	return out
}
