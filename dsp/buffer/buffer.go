package buffer

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-audioscope/dsp/core"
)

var (
	// ErrEmpty indicates a buffer without samples.
	ErrEmpty = errors.New("buffer: no samples")
	// ErrInvalidRate indicates a non-positive sample rate.
	ErrInvalidRate = errors.New("buffer: sample rate must be > 0")
	// ErrNonFinite indicates a NaN or Inf sample.
	ErrNonFinite = errors.New("buffer: non-finite sample")
)

// SampleBuffer is an immutable sequence of mono samples at a fixed rate.
// The zero value is not valid; use New or FromOwned.
type SampleBuffer struct {
	samples    []float64
	sampleRate int
}

// New validates samples and sampleRate and returns a buffer holding a copy
// of samples.
func New(samples []float64, sampleRate int) (SampleBuffer, error) {
	if err := validate(samples, sampleRate); err != nil {
		return SampleBuffer{}, err
	}

	s := make([]float64, len(samples))
	copy(s, samples)

	return SampleBuffer{samples: s, sampleRate: sampleRate}, nil
}

// FromOwned validates and wraps samples without copying. The caller hands
// over ownership and must not modify samples afterwards.
func FromOwned(samples []float64, sampleRate int) (SampleBuffer, error) {
	if err := validate(samples, sampleRate); err != nil {
		return SampleBuffer{}, err
	}

	return SampleBuffer{samples: samples, sampleRate: sampleRate}, nil
}

func validate(samples []float64, sampleRate int) error {
	if len(samples) == 0 {
		return ErrEmpty
	}

	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	for i, v := range samples {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w at index %d: %v", ErrNonFinite, i, v)
		}
	}

	return nil
}

// Len returns the number of samples.
func (b SampleBuffer) Len() int {
	return len(b.samples)
}

// SampleRate returns the sample rate in Hz.
func (b SampleBuffer) SampleRate() int {
	return b.sampleRate
}

// At returns the sample at index i. It panics if i is out of range.
func (b SampleBuffer) At(i int) float64 {
	return b.samples[i]
}

// Samples returns a copy of the samples.
func (b SampleBuffer) Samples() []float64 {
	out := make([]float64, len(b.samples))
	copy(out, b.samples)
	return out
}

// CopyTo copies the samples into dst and returns the number copied.
func (b SampleBuffer) CopyTo(dst []float64) int {
	return copy(dst, b.samples)
}

// View calls fn with the backing slice. fn must not retain or modify it.
// Hot loops use this to avoid the copy made by Samples.
func (b SampleBuffer) View(fn func(samples []float64)) {
	fn(b.samples)
}

// TimeAt returns the time of sample i in seconds (i / sampleRate).
func (b SampleBuffer) TimeAt(i int) float64 {
	return float64(i) / float64(b.sampleRate)
}

// Duration returns the length of the buffer in time.
func (b SampleBuffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(len(b.samples)) / float64(b.sampleRate) * float64(time.Second))
}

// IsZero reports whether b is the zero value, i.e. was never constructed.
func (b SampleBuffer) IsZero() bool {
	return b.samples == nil && b.sampleRate == 0
}
