package pass

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-audioscope/dsp/filter/biquad"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func magChain(c *biquad.Chain, freq, sr float64) float64 {
	return cmplx.Abs(c.Response(freq, sr))
}

func assertStableSection(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	v := []float64{c.B0, c.B1, c.B2, c.A1, c.A2}
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			t.Fatalf("invalid coefficient[%d]=%v", i, v[i])
		}
	}
	for _, p := range c.Poles() {
		if cmplx.Abs(p) >= 1+tol {
			t.Fatalf("unstable pole %v in %+v", p, c)
		}
	}
}
