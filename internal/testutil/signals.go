// Package testutil holds deterministic fixtures and assertions shared by
// package tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
)

// DeterministicSine generates a sine wave starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// TwoTone returns the sum of two unit-amplitude sines, the classic
// low-plus-high fixture for filter tests.
func TwoTone(lowHz, highHz float64, sampleRate, length int) []float64 {
	out := DeterministicSine(lowHz, float64(sampleRate), 1, length)
	high := DeterministicSine(highHz, float64(sampleRate), 1, length)

	for i := range out {
		out[i] += high[i]
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Ramp returns length samples rising linearly from 0 to length-1, so each
// sample equals its own index.
func Ramp(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i)
	}

	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}

	return out
}

// MustBuffer wraps samples in a SampleBuffer or fails tb.
func MustBuffer(tb testing.TB, samples []float64, sampleRate int) buffer.SampleBuffer {
	tb.Helper()

	buf, err := buffer.New(samples, sampleRate)
	if err != nil {
		tb.Fatalf("buffer.New: %v", err)
	}

	return buf
}
