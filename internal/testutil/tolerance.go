package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
)

// RequireSliceNearlyEqual fails tb if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(tb testing.TB, got, want []float64, eps float64) {
	tb.Helper()

	d, err := MaxAbsDiff(got, want)
	if err != nil {
		tb.Fatal(err)
	}

	if d > eps {
		for i := range got {
			if math.Abs(got[i]-want[i]) == d {
				tb.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], d, eps)
			}
		}
	}
}

// RequireBuffersNearlyEqual compares rate, length and samples of two buffers.
func RequireBuffersNearlyEqual(tb testing.TB, got, want buffer.SampleBuffer, eps float64) {
	tb.Helper()

	if got.SampleRate() != want.SampleRate() {
		tb.Fatalf("sample rate: got %d, want %d", got.SampleRate(), want.SampleRate())
	}

	RequireSliceNearlyEqual(tb, got.Samples(), want.Samples(), eps)
}

// RequireFinite fails tb if any element is NaN or Inf.
func RequireFinite(tb testing.TB, data []float64) {
	tb.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			tb.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	maxDiff := 0.0
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(a[i]-b[i]))
	}

	return maxDiff, nil
}
