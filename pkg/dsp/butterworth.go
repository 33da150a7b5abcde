package dsp

import (
	"math"
	"math/cmplx"
)

// ButterworthCoeffs holds the feedforward (b) and feedback (a) coefficients
// of a digital filter in standard direct-form-II transposed convention:
// a[0]*y[n] = sum(b[k]*x[n-k]) - sum(a[k]*y[n-k], k>=1), with a[0] == 1.
type ButterworthCoeffs struct {
	B []float64
	A []float64
}

// DesignButterworthLowPass returns the (b, a) coefficients of an order-n
// digital Butterworth low-pass filter with normalizedCutoff expressed as a
// fraction of the Nyquist frequency, in (0, 1) (§4.D). Order is clamped to
// [1, 8]; the spec marks orders above 4 optional, this module supports them
// via the same bilinear-transform construction.
func DesignButterworthLowPass(order int, normalizedCutoff float64) ButterworthCoeffs {
	if order < 1 {
		order = 1
	}
	if order > 8 {
		order = 8
	}
	if normalizedCutoff <= 0 {
		normalizedCutoff = 1e-6
	}
	if normalizedCutoff >= 1 {
		normalizedCutoff = 1 - 1e-6
	}

	// Pre-warp the cutoff for the bilinear transform.
	warped := 2 * math.Tan(math.Pi*normalizedCutoff/2)

	// Analog Butterworth poles on the unit circle in the left half-plane,
	// scaled by the warped cutoff frequency.
	analogPoles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * (2*float64(k) + float64(order) + 1) / (2 * float64(order))
		analogPoles[k] = complex(warped, 0) * cmplx.Exp(complex(0, theta))
	}

	// Bilinear transform s -> 2*(z-1)/(z+1) (with prewarped s already
	// absorbing the sample-period scaling) maps each analog pole to a
	// digital pole, and contributes a (z+1) factor to the numerator.
	digitalPoles := make([]complex128, order)
	for k, p := range analogPoles {
		digitalPoles[k] = (2 + p) / (2 - p)
	}

	// Denominator: product(z - pole_k); numerator: (z+1)^order, scaled so
	// the DC gain (z=1) is exactly 1.
	a := polyFromRoots(digitalPoles)
	bShape := binomialExpansion(order) // coefficients of (z+1)^order

	num := evalPoly(bShape, 1)
	den := evalPoly(a, 1)
	gain := den / num

	b := make([]float64, len(bShape))
	for i, c := range bShape {
		b[i] = c * gain
	}

	return ButterworthCoeffs{B: b, A: a}
}

// DirectFormII is the per-sample evaluation state of a digital filter
// applied in direct-form-II transposed form, so repeated Step calls can be
// used to filter a stream sample-by-sample (§4.D "direct-form II evaluation
// updates history buffers per sample").
type DirectFormII struct {
	b, a  []float64
	state []float64
}

// NewDirectFormII builds filtering state for the given coefficients. a[0]
// is assumed to be 1 (DesignButterworthLowPass normalizes to this).
func NewDirectFormII(c ButterworthCoeffs) *DirectFormII {
	n := max(len(c.B), len(c.A))
	return &DirectFormII{
		b:     padTo(c.B, n),
		a:     padTo(c.A, n),
		state: make([]float64, n),
	}
}

// Step filters one input sample and returns the output sample.
func (d *DirectFormII) Step(x float64) float64 {
	n := len(d.b)
	y := d.b[0]*x + d.state[0]
	for i := 0; i < n-1; i++ {
		d.state[i] = d.b[i+1]*x - d.a[i+1]*y + d.state[i+1]
	}
	return y
}

// Apply filters a whole array by repeated Step calls, returning a new array
// the same length as x.
func Apply(c ButterworthCoeffs, x []float64) []float64 {
	f := NewDirectFormII(c)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = f.Step(v)
	}
	return out
}

func padTo(s []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, s)
	return out
}

// polyFromRoots expands product(z - root_k) into real polynomial
// coefficients [a0=1, a1, ..., an], assuming complex roots come in
// conjugate pairs so the result is real (true for Butterworth poles).
func polyFromRoots(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// binomialExpansion returns the coefficients of (z+1)^n: [C(n,0), C(n,1), ..., C(n,n)].
func binomialExpansion(n int) []float64 {
	out := make([]float64, n+1)
	out[0] = 1
	for k := 1; k <= n; k++ {
		out[k] = out[k-1] * float64(n-k+1) / float64(k)
	}
	return out
}

// evalPoly evaluates sum(coeffs[i]*z^i) at the given real z.
func evalPoly(coeffs []float64, z float64) float64 {
	var sum, zp float64 = 0, 1
	for _, c := range coeffs {
		sum += c * zp
		zp *= z
	}
	return sum
}
