package dsp

// LMS is an adaptive transversal filter with L taps and learning rate mu
// (§4.D). Each call to Step predicts the next sample from the tap history,
// computes the error against the true sample, and nudges the weights by
// mu*e*x (the classic LMS update).
type LMS struct {
	weights []float64
	history []float64
	mu      float64

	keepHistory   bool
	weightHistory [][]float64
}

// NewLMS creates an LMS filter with L taps and learning rate mu. When
// trackWeights is true, every Step call appends a snapshot of the weight
// vector to WeightHistory (§4.D: "tracks weights history only if
// requested").
func NewLMS(taps int, mu float64, trackWeights bool) *LMS {
	if taps < 1 {
		taps = 1
	}
	return &LMS{
		weights:     make([]float64, taps),
		history:     make([]float64, taps),
		mu:          mu,
		keepHistory: trackWeights,
	}
}

// Step feeds one new sample x, returning the prediction y-hat and the error
// e = x - y-hat, then adapts the weights.
func (l *LMS) Step(x float64) (predicted, errSignal float64) {
	var yhat float64
	for i, w := range l.weights {
		yhat += w * l.history[i]
	}

	e := x - yhat
	for i := range l.weights {
		l.weights[i] += l.mu * e * l.history[i]
	}

	// shift history: newest first
	copy(l.history[1:], l.history[:len(l.history)-1])
	l.history[0] = x

	if l.keepHistory {
		snap := append([]float64(nil), l.weights...)
		l.weightHistory = append(l.weightHistory, snap)
	}

	return yhat, e
}

// FilterSeries runs the filter over a whole series, returning the per-sample
// predictions and errors.
func (l *LMS) FilterSeries(x []float64) (predicted, errors []float64) {
	predicted = make([]float64, len(x))
	errors = make([]float64, len(x))
	for i, v := range x {
		predicted[i], errors[i] = l.Step(v)
	}
	return predicted, errors
}

// Weights returns a copy of the current tap weights.
func (l *LMS) Weights() []float64 {
	return append([]float64(nil), l.weights...)
}

// WeightHistory returns the recorded weight-vector history, or nil if
// tracking was not requested.
func (l *LMS) WeightHistory() [][]float64 {
	return l.weightHistory
}
