package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is a length-normalized discrete Fourier transform result over a
// real input, zero-padded to the next power of two (§4.D). Bins run from DC
// (index 0) to Nyquist (index len-1).
type Spectrum struct {
	Real      []float64
	Imag      []float64
	Magnitude []float64
	Phase     []float64
	Freqs     []float64 // Hz, Freqs[k] = k*fs/N
	N         int       // zero-padded length used for the transform
}

// FFT computes the real-input FFT of x at sampling rate fs, zero-padding x
// to the next power of two first. For N<1 (empty input) it returns a
// zero-value Spectrum, per §4.D's empty/single-element handling contract.
func FFT(x []float64, fs float64) Spectrum {
	if len(x) == 0 {
		return Spectrum{}
	}
	n := nextPow2(len(x))
	padded := make([]float64, n)
	copy(padded, x)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	bins := len(coeffs)
	re := make([]float64, bins)
	im := make([]float64, bins)
	mag := make([]float64, bins)
	phase := make([]float64, bins)
	freqs := make([]float64, bins)

	for k, c := range coeffs {
		re[k] = real(c) / float64(n)
		im[k] = imag(c) / float64(n)
		mag[k] = cmplx.Abs(c) / float64(n)
		phase[k] = math.Atan2(im[k], re[k])
		freqs[k] = float64(k) * fs / float64(n)
	}

	return Spectrum{Real: re, Imag: im, Magnitude: mag, Phase: phase, Freqs: freqs, N: n}
}

// TopKMagnitudes returns the indices of the k largest magnitude bins
// (excluding bin 0, the DC term), descending by magnitude. Used by
// periodicity detection's FFT cross-check (§4.E).
func (s Spectrum) TopKMagnitudes(k int) []int {
	if len(s.Magnitude) <= 1 {
		return nil
	}
	type bin struct {
		idx int
		mag float64
	}
	bins := make([]bin, 0, len(s.Magnitude)-1)
	for i := 1; i < len(s.Magnitude); i++ {
		bins = append(bins, bin{i, s.Magnitude[i]})
	}
	// simple partial selection sort; spectra here are small (<= a few
	// thousand bins) so O(k*n) is fine and keeps this dependency-free.
	if k > len(bins) {
		k = len(bins)
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		best := i
		for j := i + 1; j < len(bins); j++ {
			if bins[j].mag > bins[best].mag {
				best = j
			}
		}
		bins[i], bins[best] = bins[best], bins[i]
		out = append(out, bins[i].idx)
	}
	return out
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
