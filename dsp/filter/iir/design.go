package iir

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-audioscope/dsp/filter/biquad"
	"github.com/cwbudde/algo-audioscope/dsp/filter/design/pass"
	"github.com/cwbudde/algo-audioscope/internal/polyroot"
)

// bilinearFs2 is 2*fs for the normalized sample rate fs=2 used by the
// bilinear transform, where Nyquist maps to a normalized frequency of 1.
const bilinearFs2 = 4.0

// Design returns the direct-form Butterworth coefficients for spec.
//
// The analog prototype poles lie on the left half of the unit circle. They
// are frequency-scaled (low-pass) or inverted (high-pass) at the
// pre-warped cutoff, then mapped to the z-plane with the bilinear transform.
// The feedback polynomial is normalized so that Feedback[0] == 1.
func Design(spec Spec) (Coefficients, error) {
	if err := spec.Validate(); err != nil {
		return Coefficients{}, err
	}

	zeros, poles, gain := analogZPK(spec.Order, spec.Kind, prewarp(spec.NormalizedCutoff()))
	zd, pd, kd := bilinearZPK(zeros, poles, gain)

	ff := polyroot.RealParts(polyroot.Expand(zd))
	for i := range ff {
		ff[i] *= kd
	}

	fb := polyroot.RealParts(polyroot.Expand(pd))

	c := Coefficients{Feedforward: ff, Feedback: fb}
	if err := c.Validate(); err != nil {
		return Coefficients{}, fmt.Errorf("iir: design %v: %w", spec, err)
	}

	return c, nil
}

// DesignSections returns the same response as Design, factored into
// second-order sections. An odd order ends with one first-order section.
func DesignSections(spec Spec) ([]biquad.Coefficients, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	rate := float64(spec.SampleRateHz)

	var sections []biquad.Coefficients

	switch spec.Kind {
	case LowPass:
		sections = pass.ButterworthLP(spec.CutoffHz, spec.Order, rate)
	case HighPass:
		sections = pass.ButterworthHP(spec.CutoffHz, spec.Order, rate)
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: no sections for %v", ErrInvalidSpec, spec)
	}

	return sections, nil
}

// prewarp maps a cutoff normalized to Nyquist onto the analog frequency
// that the bilinear transform sends back to it.
func prewarp(wn float64) float64 {
	return bilinearFs2 * math.Tan(math.Pi*wn/2)
}

// analogZPK returns the zeros, poles and gain of the analog Butterworth
// filter of the given order at angular cutoff warped.
func analogZPK(order int, kind Kind, warped float64) ([]complex128, []complex128, float64) {
	poles := make([]complex128, order)
	for k := range order {
		m := float64(2*k - order + 1)
		poles[k] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order)))
	}

	w := complex(warped, 0)

	if kind == HighPass {
		prod := complex(1, 0)
		for _, p := range poles {
			prod *= -p
		}

		for i, p := range poles {
			poles[i] = w / p
		}

		return make([]complex128, order), poles, real(1 / prod)
	}

	for i := range poles {
		poles[i] *= w
	}

	return nil, poles, math.Pow(warped, float64(order))
}

// bilinearZPK maps an analog zero/pole/gain set to the z-plane. Zeros at
// infinity land on z = -1.
func bilinearZPK(zeros, poles []complex128, gain float64) ([]complex128, []complex128, float64) {
	fs2 := complex(bilinearFs2, 0)

	zd := make([]complex128, 0, len(poles))
	num := complex(1, 0)

	for _, z := range zeros {
		zd = append(zd, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}

	pd := make([]complex128, len(poles))
	den := complex(1, 0)

	for i, p := range poles {
		pd[i] = (fs2 + p) / (fs2 - p)
		den *= fs2 - p
	}

	for len(zd) < len(pd) {
		zd = append(zd, -1)
	}

	return zd, pd, gain * real(num/den)
}
