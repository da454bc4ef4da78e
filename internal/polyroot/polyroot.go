// Package polyroot provides polynomial expansion and root-finding helpers
// shared by the IIR designer and its stability checks.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (leading coefficient zero, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Expand returns the monic polynomial whose roots are roots, in descending
// power order: z^n + c[1]*z^(n-1) + ... + c[n]. An empty root set yields [1].
func Expand(roots []complex128) []complex128 {
	coeff := make([]complex128, 1, len(roots)+1)
	coeff[0] = 1

	for _, r := range roots {
		coeff = append(coeff, 0)
		for i := len(coeff) - 1; i > 0; i-- {
			coeff[i] -= r * coeff[i-1]
		}
	}

	return coeff
}

// RealParts returns the real parts of coeff. Products of conjugate root
// pairs are real up to rounding, so the imaginary parts are discarded.
func RealParts(coeff []complex128) []float64 {
	out := make([]float64, len(coeff))
	for i, c := range coeff {
		out[i] = real(c)
	}

	return out
}

// Roots finds the roots of a real polynomial in descending power order.
// Leading zero coefficients are skipped.
func Roots(coeff []float64) ([]complex128, error) {
	start := 0
	for start < len(coeff) && coeff[start] == 0 {
		start++
	}

	if len(coeff)-start < 2 {
		return nil, ErrDegeneratePolynomial
	}

	c := make([]complex128, len(coeff)-start)
	for i, v := range coeff[start:] {
		c[i] = complex(v, 0)
	}

	return DurandKerner(c)
}

// Iteration limits for DurandKerner.
const (
	maxIterations = 500
	stepTolerance = 1e-12
	residualLimit = 1e-6
)

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
// If the iteration does not settle, the estimates are still accepted when
// every residual is below 1e-6.
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 || coeff[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	monic := make([]complex128, len(coeff))
	for i, c := range coeff {
		monic[i] = c / coeff[0]
	}

	roots := initialGuesses(monic)

	for range maxIterations {
		if weierstrassStep(monic, roots) < stepTolerance {
			return roots, nil
		}
	}

	for _, r := range roots {
		if cmplx.Abs(PolyEval(monic, r)) >= residualLimit {
			return nil, ErrDegeneratePolynomial
		}
	}

	return roots, nil
}

// initialGuesses spreads n starting points on a slightly widening spiral
// whose radius bounds the largest coefficient of the monic polynomial.
func initialGuesses(monic []complex128) []complex128 {
	n := len(monic) - 1

	radius := 1.0
	for _, c := range monic[1:] {
		radius = max(radius, cmplx.Abs(c))
	}

	roots := make([]complex128, n)
	for i := range roots {
		frac := float64(i) / float64(n)
		roots[i] = cmplx.Rect(radius*(1+0.1*frac), 2*math.Pi*frac+0.3)
	}

	return roots
}

// weierstrassStep updates roots in place and returns the largest
// correction applied.
func weierstrassStep(monic, roots []complex128) float64 {
	var largest float64

	for i, zi := range roots {
		den := complex(1, 0)
		for j, zj := range roots {
			if j != i {
				den *= zi - zj
			}
		}

		if den == 0 {
			// Coincident estimates; nudge apart and retry next pass.
			roots[i] += complex(1e-10, 1e-10)

			continue
		}

		delta := PolyEval(monic, zi) / den
		roots[i] = zi - delta
		largest = max(largest, cmplx.Abs(delta))
	}

	return largest
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// MaxModulus returns the largest |r| over roots, or 0 for none.
func MaxModulus(roots []complex128) float64 {
	var m float64
	for _, r := range roots {
		m = max(m, cmplx.Abs(r))
	}

	return m
}
