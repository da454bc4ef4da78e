package biquad

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite reports a coefficient that is NaN or infinite.
var ErrNonFinite = errors.New("biquad: non-finite coefficient")

// Coefficients of one second-order section, normalised so a0 = 1:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
//
// A first-order section has B2 == A2 == 0.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Numerator returns [B0, B1, B2], ascending powers of z^-1.
func (c Coefficients) Numerator() [3]float64 {
	return [3]float64{c.B0, c.B1, c.B2}
}

// Denominator returns [1, A1, A2], ascending powers of z^-1.
func (c Coefficients) Denominator() [3]float64 {
	return [3]float64{1, c.A1, c.A2}
}

// FirstOrder reports whether the z^-2 terms vanish.
func (c Coefficients) FirstOrder() bool {
	return c.A2 == 0 && c.B2 == 0
}

// Validate rejects non-finite coefficients.
func (c Coefficients) Validate() error {
	for i, v := range [5]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: term %d = %v", ErrNonFinite, i, v)
		}
	}

	return nil
}

// Section runs one set of Coefficients in transposed direct form II:
//
//	y     = B0*x + z[0]
//	z[0]' = B1*x - A1*y + z[1]
//	z[1]' = B2*x - A2*y
type Section struct {
	Coefficients

	z [2]float64
}

// NewSection returns a Section at rest.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.z[0]
	s.z[0] = s.B1*x - s.A1*y + s.z[1]
	s.z[1] = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	s.ProcessBlockTo(buf, buf)
}

// ProcessBlockTo filters src into dst, which must be at least as long.
// dst and src may be the same slice.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1]

	b0, b1, b2, a1, a2 := s.B0, s.B1, s.B2, s.A1, s.A2
	z0, z1 := s.z[0], s.z[1]

	for i, x := range src {
		y := b0*x + z0
		z0 = b1*x - a1*y + z1
		z1 = b2*x - a2*y
		dst[i] = y
	}

	s.z = [2]float64{z0, z1}
}

// Reset returns the section to rest.
func (s *Section) Reset() {
	s.z = [2]float64{}
}
