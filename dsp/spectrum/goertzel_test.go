package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-audioscope/internal/testutil"
)

func TestGoertzel_MatchesDFT(t *testing.T) {
	sampleRate := 16000.0
	freq0 := 1000.0
	sig := testutil.DeterministicSine(freq0, sampleRate, 1.0, 1024)

	g, err := NewGoertzel(freq0, sampleRate)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}

	g.ProcessBlock(sig)

	var dft complex128

	for n, x := range sig {
		angle := -2 * math.Pi * freq0 / sampleRate * float64(n)
		dft += complex(x, 0) * cmplx.Exp(complex(0, angle))
	}

	wantP := real(dft)*real(dft) + imag(dft)*imag(dft)
	if pwr := g.Power(); math.Abs(pwr-wantP) > 1e-7*wantP {
		t.Errorf("Power = %v, want %v", pwr, wantP)
	}

	if mag := g.Magnitude(); math.Abs(mag-cmplx.Abs(dft)) > 1e-7*cmplx.Abs(dft) {
		t.Errorf("Magnitude = %v, want %v", mag, cmplx.Abs(dft))
	}
}

func TestGoertzel_SampleAndBlockAgree(t *testing.T) {
	sig := testutil.DeterministicNoise(3, 1, 500)

	a, _ := NewGoertzel(440, 16000)
	b, _ := NewGoertzel(440, 16000)

	a.ProcessBlock(sig)

	for _, x := range sig {
		b.ProcessSample(x)
	}

	if a.Power() != b.Power() || a.Count() != b.Count() {
		t.Fatalf("block %v/%d != sample %v/%d", a.Power(), a.Count(), b.Power(), b.Count())
	}
}

func TestGoertzel_Reset(t *testing.T) {
	g, _ := NewGoertzel(1000, 48000)
	g.ProcessSample(1.0)

	if g.Power() == 0 {
		t.Error("Power should be non-zero after processing")
	}

	g.Reset()

	if g.Power() != 0 || g.Count() != 0 || g.Amplitude() != 0 {
		t.Errorf("after Reset: power=%v count=%d", g.Power(), g.Count())
	}
}

func TestGoertzel_InvalidParams(t *testing.T) {
	tests := []struct {
		name       string
		freq, rate float64
	}{
		{"negative freq", -1, 16000},
		{"above nyquist", 8001, 16000},
		{"nan freq", math.NaN(), 16000},
		{"zero rate", 100, 0},
		{"inf rate", 100, math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGoertzel(tc.freq, tc.rate); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestToneAmplitude(t *testing.T) {
	const rate = 16000.0

	sig := testutil.DeterministicSine(50, rate, 0.8, 16000)
	high := testutil.DeterministicSine(2000, rate, 0.3, 16000)

	for i := range sig {
		sig[i] += high[i] + 0.1
	}

	tests := []struct {
		freq, want float64
	}{
		{50, 0.8},
		{2000, 0.3},
		{0, 0.1},
		{1000, 0},
	}

	for _, tc := range tests {
		got, err := ToneAmplitude(sig, tc.freq, rate)
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(got-tc.want) > 1e-5 {
			t.Errorf("ToneAmplitude(%v Hz) = %v, want %v", tc.freq, got, tc.want)
		}
	}

	if _, err := ToneAmplitude(nil, 50, rate); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty input err = %v", err)
	}
}

func TestProbe(t *testing.T) {
	sig := testutil.DeterministicSine(250, 8000, 1, 8000)

	amps, err := Probe(sig, []float64{250, 500}, 8000)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(amps[0]-1) > 1e-6 || amps[1] > 1e-6 {
		t.Fatalf("amps = %v, want [1 0]", amps)
	}

	if _, err := Probe(sig, []float64{9000}, 8000); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGoertzelDCAndNyquist(t *testing.T) {
	dc, _ := NewGoertzel(0, 1000)
	dc.ProcessBlock(testutil.Ones(64))

	if math.Abs(dc.Power()-64*64) > 1e-6 {
		t.Fatalf("DC power = %v, want %v", dc.Power(), 64*64)
	}

	if math.Abs(dc.Amplitude()-1) > 1e-12 {
		t.Fatalf("DC amplitude = %v, want 1", dc.Amplitude())
	}

	alt := make([]float64, 64)
	for i := range alt {
		alt[i] = 0.5
		if i%2 == 1 {
			alt[i] = -0.5
		}
	}

	ny, _ := NewGoertzel(500, 1000)
	ny.ProcessBlock(alt)

	if math.Abs(ny.Amplitude()-0.5) > 1e-12 {
		t.Fatalf("Nyquist amplitude = %v, want 0.5", ny.Amplitude())
	}
}
