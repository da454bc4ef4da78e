package frequency

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func binFreqs(n int, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * sampleRate / float64(2*(n-1))
	}

	return out
}

func singleBin(n, bin int) []float64 {
	mag := make([]float64, n)
	mag[bin] = 1

	return mag
}

func TestCalculateMismatchedLength(t *testing.T) {
	if _, err := Calculate([]float64{0, 1}, []float64{1}); !errors.Is(err, ErrMismatchedLength) {
		t.Fatalf("err=%v, want ErrMismatchedLength", err)
	}
}

func TestCalculateDegenerate(t *testing.T) {
	for _, mag := range [][]float64{nil, {1}, make([]float64, 513)} {
		s, err := Calculate(binFreqs(max(len(mag), 2), 48000)[:len(mag)], mag)
		if err != nil {
			t.Fatal(err)
		}

		if s != (Stats{}) {
			t.Fatalf("len=%d: stats=%+v, want zero", len(mag), s)
		}
	}
}

func TestCalculateSingleBin(t *testing.T) {
	const n = 513

	freqs := binFreqs(n, 48000)

	s, err := Calculate(freqs, singleBin(n, 100))
	if err != nil {
		t.Fatal(err)
	}

	want := freqs[100]
	if math.Abs(s.PeakHz-want) > tolerance || math.Abs(s.Centroid-want) > tolerance {
		t.Fatalf("peak=%g centroid=%g, want %g", s.PeakHz, s.Centroid, want)
	}

	if s.Spread > tolerance || s.Flatness != 0 {
		t.Fatalf("spread=%g flatness=%g, want 0", s.Spread, s.Flatness)
	}

	if math.Abs(s.Rolloff-want) > tolerance {
		t.Fatalf("rolloff=%g, want %g", s.Rolloff, want)
	}
}

func TestFlatness(t *testing.T) {
	flat := make([]float64, 65)
	for i := range flat {
		flat[i] = 0.5
	}

	if got := Flatness(flat); math.Abs(got-1) > tolerance {
		t.Fatalf("flat spectrum flatness=%g, want 1", got)
	}

	peaky := append([]float64(nil), flat...)
	peaky[10] = 50

	if got := Flatness(peaky); got >= 0.9 {
		t.Fatalf("peaky spectrum flatness=%g, want < 0.9", got)
	}

	// DC is ignored.
	flat[0] = 100
	if got := Flatness(flat); math.Abs(got-1) > tolerance {
		t.Fatalf("flatness with DC=%g, want 1", got)
	}
}

func TestRolloff(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}
	mag := []float64{1, 1, 1, 1}

	tests := []struct {
		fraction float64
		want     float64
	}{
		{0.25, 0},
		{0.5, 100},
		{0.85, 300},
		{1, 300},
	}

	for _, tt := range tests {
		if got := Rolloff(freqs, mag, tt.fraction); got != tt.want {
			t.Errorf("Rolloff(%g)=%g, want %g", tt.fraction, got, tt.want)
		}
	}

	if got := Rolloff(freqs, make([]float64, 4), 0.85); got != 0 {
		t.Errorf("silent rolloff=%g, want 0", got)
	}
}

func TestBandwidthTriangle(t *testing.T) {
	freqs := []float64{0, 1000, 2000, 3000, 4000}
	mag := []float64{0, 1, 2, 1, 0}

	want := 2000 * (1 - (math.Sqrt2 - 1))
	if got := Bandwidth(freqs, mag); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Bandwidth=%g, want %g", got, want)
	}

	if got := Bandwidth(freqs, make([]float64, 5)); got != 0 {
		t.Fatalf("silent bandwidth=%g, want 0", got)
	}
}

func TestCentroidAndSpread(t *testing.T) {
	freqs := []float64{0, 1000, 2000, 3000, 4000}
	mag := []float64{0, 1, 2, 1, 0}

	s, err := Calculate(freqs, mag)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(s.Centroid-2000) > tolerance || math.Abs(Centroid(freqs, mag)-2000) > tolerance {
		t.Fatalf("centroid=%g, want 2000", s.Centroid)
	}

	if want := math.Sqrt(5e5); math.Abs(s.Spread-want) > 1e-6 {
		t.Fatalf("spread=%g, want %g", s.Spread, want)
	}
}

func TestCalculateDB(t *testing.T) {
	freqs := []float64{0, 1000, 2000, 3000, 4000}
	levels := []float64{-140, 0, 6.020599913279624, 0, -140}

	s, err := CalculateDB(freqs, levels)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(s.Centroid-2000) > 1e-3 || s.PeakHz != 2000 {
		t.Fatalf("stats=%+v", s)
	}
}
