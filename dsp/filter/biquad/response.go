package biquad

import (
	"math"
	"math/cmplx"
)

// Response returns H(e^jw) of the section at freqHz.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	zi := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)

	num := complex(c.B0, 0) + zi*(complex(c.B1, 0)+zi*complex(c.B2, 0))
	den := 1 + zi*(complex(c.A1, 0)+zi*complex(c.A2, 0))

	return num / den
}

// MagnitudeSquared returns |H(f)|^2.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	h := c.Response(freqHz, sampleRate)
	return real(h)*real(h) + imag(h)*imag(h)
}

// MagnitudeDB returns the section gain at freqHz in dB.
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Response returns the product of the section responses.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freqHz, sampleRate)
	}

	return h
}

// MagnitudeDB returns the cascade gain at freqHz in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// ImpulseResponse returns the first n samples of the chain's impulse
// response. It runs on a fresh chain, so c's state is untouched.
func (c *Chain) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	ir := make([]float64, n)
	ir[0] = 1
	NewChain(c.Coefficients()).ProcessBlock(ir)

	return ir
}
