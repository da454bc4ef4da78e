package waveform

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
)

// DefaultMaxPoints is the plot resolution used when none is configured.
const DefaultMaxPoints = 5000

// ErrInvalidMaxPoints indicates a maxPoints value below one.
var ErrInvalidMaxPoints = errors.New("waveform: maxPoints must be >= 1")

// Series is a decimated waveform. Times[i] and Amplitudes[i] describe the
// source sample at index Indices[i].
type Series struct {
	Times      []float64 `json:"times"`
	Amplitudes []float64 `json:"amplitudes"`
	Indices    []int     `json:"-"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Amplitudes)
}

// Indices returns the source positions kept when reducing n samples to at
// most maxPoints: round(i*(n-1)/(maxPoints-1)) for i in [0, maxPoints).
// When n <= maxPoints every index is kept. The result is strictly
// increasing, so no index repeats.
func Indices(n, maxPoints int) ([]int, error) {
	if maxPoints < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxPoints, maxPoints)
	}

	if n <= maxPoints {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}

		return idx, nil
	}

	if maxPoints == 1 {
		return []int{0}, nil
	}

	span, steps := n-1, maxPoints-1
	idx := make([]int, maxPoints)

	for i := range idx {
		// Integer round-half-up of i*span/steps.
		idx[i] = (2*i*span + steps) / (2 * steps)
	}

	return idx, nil
}

// Decimate reduces buf to at most maxPoints points with Times[i] equal to
// index/sampleRate. Buffers no longer than maxPoints are returned whole.
func Decimate(buf buffer.SampleBuffer, maxPoints int) (Series, error) {
	if buf.Len() == 0 {
		return Series{}, buffer.ErrEmpty
	}

	idx, err := Indices(buf.Len(), maxPoints)
	if err != nil {
		return Series{}, err
	}

	s := Series{
		Times:      make([]float64, len(idx)),
		Amplitudes: make([]float64, len(idx)),
		Indices:    idx,
	}

	buf.View(func(samples []float64) {
		for i, j := range idx {
			s.Times[i] = buf.TimeAt(j)
			s.Amplitudes[i] = samples[j]
		}
	})

	return s, nil
}

// Decimate re-decimates s, keeping its time stamps and source indices.
// A series already within maxPoints is returned as a copy.
func (s Series) Decimate(maxPoints int) (Series, error) {
	idx, err := Indices(s.Len(), maxPoints)
	if err != nil {
		return Series{}, err
	}

	out := Series{
		Times:      make([]float64, len(idx)),
		Amplitudes: make([]float64, len(idx)),
	}

	if s.Indices != nil {
		out.Indices = make([]int, len(idx))
	}

	for i, j := range idx {
		out.Times[i] = s.Times[j]
		out.Amplitudes[i] = s.Amplitudes[j]

		if out.Indices != nil {
			out.Indices[i] = s.Indices[j]
		}
	}

	return out, nil
}

// DecimateXY applies the Indices selection to an arbitrary x/y pair, such
// as a spectrum's frequency and level arrays.
func DecimateXY(x, y []float64, maxPoints int) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("waveform: x/y length mismatch: %d != %d", len(x), len(y))
	}

	idx, err := Indices(len(x), maxPoints)
	if err != nil {
		return nil, nil, err
	}

	xo := make([]float64, len(idx))
	yo := make([]float64, len(idx))

	for i, j := range idx {
		xo[i], yo[i] = x[j], y[j]
	}

	return xo, yo, nil
}
