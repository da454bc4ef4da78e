package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := simpleLowpass()
	for _, f := range []float64{0, 100, 1000, 5000, 12000, 23999} {
		h := c.Response(f, 48000)
		want := real(h)*real(h) + imag(h)*imag(h)
		got := c.MagnitudeSquared(f, 48000)
		if math.Abs(got-want) > 1e-10 {
			t.Fatalf("f=%v: MagnitudeSquared=%v, want %v", f, got, want)
		}
		if db := c.MagnitudeDB(f, 48000); math.Abs(db-10*math.Log10(want)) > 1e-9 {
			t.Fatalf("f=%v: MagnitudeDB=%v", f, db)
		}
	}
}

func TestResponse_Passthrough(t *testing.T) {
	c := passthrough()
	for _, f := range []float64{0, 440, 20000} {
		if got := cmplx.Abs(c.Response(f, 48000)); math.Abs(got-1) > eps {
			t.Fatalf("|H(%v)| = %v, want 1", f, got)
		}
	}
}

func TestChain_MagnitudeDB_MatchesResponse(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	h := c.Response(1000, 48000)
	want := 20 * math.Log10(cmplx.Abs(h))
	if got := c.MagnitudeDB(1000, 48000); math.Abs(got-want) > 1e-12 {
		t.Fatalf("MagnitudeDB = %v, want %v", got, want)
	}
}

func TestPolesZeros(t *testing.T) {
	// (1 - 0.5 z^-1)(1 - 0.25 z^-1) = 1 - 0.75 z^-1 + 0.125 z^-2
	c := Coefficients{B0: 1, B1: 2, B2: 1, A1: -0.75, A2: 0.125}

	poles := c.Poles()
	if !rootsMatch(poles, 0.5, 0.25) {
		t.Fatalf("Poles() = %v", poles)
	}

	zeros := c.Zeros()
	if !rootsMatch(zeros, -1, -1) {
		t.Fatalf("Zeros() = %v", zeros)
	}
	if !c.Stable() {
		t.Fatal("expected stable section")
	}
}

func rootsMatch(got [2]complex128, a, b complex128) bool {
	near := func(x, y complex128) bool { return cmplx.Abs(x-y) < 1e-9 }
	return (near(got[0], a) && near(got[1], b)) || (near(got[0], b) && near(got[1], a))
}
