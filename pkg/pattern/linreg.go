package pattern

import "math"

// linearFit holds an ordinary-least-squares fit y = intercept + slope*t.
type linearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// fitLinear performs simple linear regression of y on t. Returns a
// zero-value fit with RSquared 0 if fewer than two points are given.
func fitLinear(t, y []float64) linearFit {
	n := len(t)
	if n < 2 || n != len(y) {
		return linearFit{}
	}
	var sumT, sumY float64
	for i := range t {
		sumT += t[i]
		sumY += y[i]
	}
	meanT, meanY := sumT/float64(n), sumY/float64(n)

	var num, den float64
	for i := range t {
		dt := t[i] - meanT
		num += dt * (y[i] - meanY)
		den += dt * dt
	}
	if den == 0 {
		return linearFit{Intercept: meanY}
	}
	slope := num / den
	intercept := meanY - slope*meanT

	var ssRes, ssTot float64
	for i := range t {
		pred := intercept + slope*t[i]
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	} else if ssRes > 0 {
		r2 = 0
	}
	return linearFit{Slope: slope, Intercept: intercept, RSquared: r2}
}

// fitQuadratic fits y = a + b*t + c*t^2 by solving the 3x3 normal equations
// directly (Gaussian elimination in gaussSolve3), avoiding a general linear-algebra dependency
// for a fixed-size system.
func fitQuadratic(t, y []float64) (a, b, c, r2 float64) {
	n := float64(len(t))
	var sT, sT2, sT3, sT4, sY, sTY, sT2Y float64
	for i := range t {
		ti := t[i]
		ti2 := ti * ti
		sT += ti
		sT2 += ti2
		sT3 += ti2 * ti
		sT4 += ti2 * ti2
		sY += y[i]
		sTY += ti * y[i]
		sT2Y += ti2 * y[i]
	}

	// Normal equations:
	// [ n   sT  sT2 ] [a]   [sY  ]
	// [ sT  sT2 sT3 ] [b] = [sTY ]
	// [ sT2 sT3 sT4 ] [c]   [sT2Y]
	m := [3][4]float64{
		{n, sT, sT2, sY},
		{sT, sT2, sT3, sTY},
		{sT2, sT3, sT4, sT2Y},
	}
	if !gaussSolve3(&m) {
		return 0, 0, 0, 0
	}
	a, b, c = m[0][3], m[1][3], m[2][3]

	var ssRes, ssTot float64
	meanY := sY / n
	for i := range t {
		pred := a + b*t[i] + c*t[i]*t[i]
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}
	r2 = 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	} else if ssRes > 0 {
		r2 = 0
	}
	return a, b, c, r2
}

// gaussSolve3 solves the 3x3 augmented system m in place via Gaussian
// elimination with partial pivoting, returning false if singular.
func gaussSolve3(m *[3][4]float64) bool {
	for col := 0; col < 3; col++ {
		pivot := col
		for r := col + 1; r < 3; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return false
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := 0; r < 3; r++ {
			if r == col {
				continue
			}
			factor := m[r][col] / m[col][col]
			for c := col; c < 4; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}
	for r := 0; r < 3; r++ {
		m[r][3] /= m[r][r]
	}
	return true
}
