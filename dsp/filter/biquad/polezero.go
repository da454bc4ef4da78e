package biquad

import "math/cmplx"

// Poles returns the roots of 1 + A1 z^-1 + A2 z^-2. A first-order
// section reports its single pole first and 0 second.
func (c *Coefficients) Poles() [2]complex128 {
	return quadraticRoots(1, c.A1, c.A2)
}

// Zeros returns the roots of B0 + B1 z^-1 + B2 z^-2.
func (c *Coefficients) Zeros() [2]complex128 {
	return quadraticRoots(c.B0, c.B1, c.B2)
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) Stable() bool {
	p := c.Poles()
	return cmplx.Abs(p[0]) < 1 && cmplx.Abs(p[1]) < 1
}

// Stable reports whether every section is stable.
func (c *Chain) Stable() bool {
	for i := range c.sections {
		if !c.sections[i].Stable() {
			return false
		}
	}

	return true
}

// quadraticRoots solves a w^2 + b w + c = 0 with w = z, taking the root
// pair through q = -(b + sign(b)·sqrt(disc))/2 to avoid cancellation.
func quadraticRoots(a, b, c float64) [2]complex128 {
	if a == 0 {
		if b == 0 {
			return [2]complex128{}
		}

		return [2]complex128{complex(-c/b, 0), 0}
	}

	sq := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	if b < 0 {
		sq = -sq
	}

	q := -(complex(b, 0) + sq) / 2
	if q == 0 {
		return [2]complex128{}
	}

	return [2]complex128{q / complex(a, 0), complex(c, 0) / q}
}
