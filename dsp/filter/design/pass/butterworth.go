package pass

import (
	"math"

	"github.com/cwbudde/algo-audioscope/dsp/filter/biquad"
)

type response int

const (
	lowpass response = iota
	highpass
)

// ButterworthLP designs a lowpass Butterworth cascade. Odd orders end in a
// first-order section (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworth(lowpass, freq, order, sampleRate)
}

// ButterworthHP designs a highpass Butterworth cascade. Odd orders end in a
// first-order section (B2=A2=0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworth(highpass, freq, order, sampleRate)
}

// butterworth emits the pole pairs from the highest Q down, then the real
// pole for odd orders.
func butterworth(resp response, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok || order <= 0 {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, resp.secondOrder(k, butterworthQ(order, i)))
	}

	if order%2 == 1 {
		sections = append(sections, resp.firstOrder(k))
	}

	return sections
}

// bilinearK is the pre-warped cutoff tan(pi*freq/sampleRate). ok is false
// unless 0 < freq < sampleRate/2.
func bilinearK(freq, sampleRate float64) (k float64, ok bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if !(freq > 0 && freq < sampleRate/2) {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}

// butterworthQ is the quality factor of pole pair index of an order-n
// prototype: 1/(2 sin((2i+1)pi/2n)).
func butterworthQ(order, index int) float64 {
	s := math.Sin(math.Pi * float64(2*index+1) / float64(2*order))
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// secondOrder maps s^2/(s^2+s/Q+1) or 1/(s^2+s/Q+1) through the bilinear
// transform with s = (z-1)/(k(z+1)).
func (r response) secondOrder(k, q float64) biquad.Coefficients {
	kk := k * k
	norm := 1 / (1 + k/q + kk)

	c := biquad.Coefficients{
		A1: 2 * (kk - 1) * norm,
		A2: (1 - k/q + kk) * norm,
	}

	if r == highpass {
		c.B0, c.B1, c.B2 = norm, -2*norm, norm
	} else {
		c.B0 = kk * norm
		c.B1, c.B2 = 2*c.B0, c.B0
	}

	return c
}

func (r response) firstOrder(k float64) biquad.Coefficients {
	norm := 1 / (1 + k)

	c := biquad.Coefficients{A1: (k - 1) * norm}
	if r == highpass {
		c.B0, c.B1 = norm, -norm
	} else {
		c.B0, c.B1 = k*norm, k*norm
	}

	return c
}
