package biquad

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

func simpleLowpass() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func TestSectionPassthrough(t *testing.T) {
	s := NewSection(passthrough())
	for i, x := range []float64{1, -0.5, 0.25, 0} {
		if got := s.ProcessSample(x); got != x {
			t.Fatalf("sample %d: got %v, want %v", i, got, x)
		}
	}
}

// The transposed structure must reproduce the plain difference equation.
func TestSectionMatchesDifferenceEquation(t *testing.T) {
	c := simpleLowpass()
	s := NewSection(c)

	var x1, x2, y1, y2 float64

	for i, x := range []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8} {
		want := c.B0*x + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
		if got := s.ProcessSample(x); !almostEqual(got, want, eps) {
			t.Fatalf("sample %d: got %.15f, want %.15f", i, got, want)
		}

		x2, x1 = x1, x
		y2, y1 = y1, want
	}
}

func TestSectionBlockMatchesSample(t *testing.T) {
	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, 0.1}

	ref := NewSection(simpleLowpass())
	want := make([]float64, len(input))

	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	inPlace := append([]float64(nil), input...)
	NewSection(simpleLowpass()).ProcessBlock(inPlace)

	out := make([]float64, len(input))
	NewSection(simpleLowpass()).ProcessBlockTo(out, input)

	for i := range want {
		if !almostEqual(inPlace[i], want[i], eps) || !almostEqual(out[i], want[i], eps) {
			t.Fatalf("index %d: block=%v to=%v, want %v", i, inPlace[i], out[i], want[i])
		}
	}

	if input[0] != 1 {
		t.Fatal("ProcessBlockTo modified src")
	}
}

func TestSectionReset(t *testing.T) {
	s := NewSection(simpleLowpass())
	first := s.ProcessSample(1)
	s.ProcessSample(0.5)

	s.Reset()

	if got := s.ProcessSample(1); got != first {
		t.Fatalf("after Reset got %v, want %v", got, first)
	}
}

func TestCoefficientsPolynomials(t *testing.T) {
	c := simpleLowpass()
	if c.Numerator() != [3]float64{0.25, 0.5, 0.25} {
		t.Fatalf("Numerator() = %v", c.Numerator())
	}

	if c.Denominator() != [3]float64{1, -0.2, 0.04} {
		t.Fatalf("Denominator() = %v", c.Denominator())
	}

	if c.FirstOrder() || !(Coefficients{B0: 0.5, B1: 0.5, A1: -0.1}).FirstOrder() {
		t.Fatal("FirstOrder misreported")
	}
}

func TestCoefficientsValidate(t *testing.T) {
	if err := simpleLowpass().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := simpleLowpass()
	bad.A2 = math.Inf(1)

	if err := bad.Validate(); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("err=%v, want ErrNonFinite", err)
	}
}

func TestSectionImpulseDecays(t *testing.T) {
	s := NewSection(simpleLowpass())
	y := s.ProcessSample(1)

	for range 100000 {
		y = s.ProcessSample(0)
	}

	if math.Abs(y) > 1e-12 {
		t.Fatalf("impulse response did not decay: %v", y)
	}
}
