package iir

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-audioscope/dsp/core"
	"github.com/cwbudde/algo-audioscope/internal/polyroot"
)

// Coefficients is a rational transfer function in z^-1.
//
// Feedforward[i] weights x[n-i] and Feedback[j] weights y[n-j]. Values
// returned by Design are freshly allocated and never mutated by this
// package; use Clone before modifying a shared value.
type Coefficients struct {
	Feedforward []float64
	Feedback    []float64
}

// Order returns the larger of the two polynomial degrees.
func (c Coefficients) Order() int {
	return max(len(c.Feedforward), len(c.Feedback), 1) - 1
}

// Clone returns a deep copy of c.
func (c Coefficients) Clone() Coefficients {
	return Coefficients{
		Feedforward: append([]float64(nil), c.Feedforward...),
		Feedback:    append([]float64(nil), c.Feedback...),
	}
}

// Validate reports whether c can drive the recurrence. Failures wrap
// ErrDegenerateFilter.
func (c Coefficients) Validate() error {
	switch {
	case len(c.Feedforward) == 0:
		return fmt.Errorf("%w: empty feedforward", ErrDegenerateFilter)
	case len(c.Feedback) == 0:
		return fmt.Errorf("%w: empty feedback", ErrDegenerateFilter)
	case c.Feedback[0] == 0:
		return fmt.Errorf("%w: leading feedback coefficient is zero", ErrDegenerateFilter)
	case !core.AllFinite(c.Feedforward) || !core.AllFinite(c.Feedback):
		return fmt.Errorf("%w: non-finite coefficient", ErrDegenerateFilter)
	}

	return nil
}

// Normalized returns a copy of c scaled so that Feedback[0] == 1.
func (c Coefficients) Normalized() Coefficients {
	out := c.Clone()
	if len(out.Feedback) == 0 || out.Feedback[0] == 0 || out.Feedback[0] == 1 {
		return out
	}

	a0 := out.Feedback[0]
	for i := range out.Feedforward {
		out.Feedforward[i] /= a0
	}

	for i := range out.Feedback {
		out.Feedback[i] /= a0
	}

	return out
}

// Response evaluates H(z) on the unit circle at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	zInv := cmplx.Exp(complex(0, -w))

	return evalInv(c.Feedforward, zInv) / evalInv(c.Feedback, zInv)
}

// MagnitudeDB returns |H| in dB at freqHz.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return core.LinearToDB(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Poles returns the roots of the feedback polynomial. A pure feedforward
// filter has no poles.
func (c Coefficients) Poles() ([]complex128, error) {
	if len(c.Feedback) < 2 {
		return nil, nil
	}

	roots, err := polyroot.Roots(c.Feedback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerateFilter, err)
	}

	return roots, nil
}

// Stable reports whether all poles lie strictly inside the unit circle.
func (c Coefficients) Stable() bool {
	poles, err := c.Poles()
	if err != nil {
		return false
	}

	return polyroot.MaxModulus(poles) < 1
}

// evalInv evaluates sum_k p[k]*zInv^k.
func evalInv(p []float64, zInv complex128) complex128 {
	var acc complex128
	for k := len(p) - 1; k >= 0; k-- {
		acc = acc*zInv + complex(p[k], 0)
	}

	return acc
}
