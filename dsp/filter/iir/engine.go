package iir

import (
	"fmt"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
	"github.com/cwbudde/algo-audioscope/dsp/filter/biquad"
)

// Filter runs the direct-form recurrence sample by sample.
type Filter struct {
	b, a []float64
	xh   []float64 // x[n-1], x[n-2], ...
	yh   []float64 // y[n-1], y[n-2], ...
}

// NewFilter returns a zero-state Filter for c. The coefficients are copied
// and normalized by Feedback[0].
func NewFilter(c Coefficients) (*Filter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	n := c.Normalized()

	return &Filter{
		b:  n.Feedforward,
		a:  n.Feedback,
		xh: make([]float64, len(n.Feedforward)-1),
		yh: make([]float64, len(n.Feedback)-1),
	}, nil
}

// ProcessSample filters one input sample.
func (f *Filter) ProcessSample(x float64) float64 {
	y := f.b[0] * x
	for i, v := range f.xh {
		y += f.b[i+1] * v
	}

	for j, v := range f.yh {
		y -= f.a[j+1] * v
	}

	if len(f.xh) > 0 {
		copy(f.xh[1:], f.xh)
		f.xh[0] = x
	}

	if len(f.yh) > 0 {
		copy(f.yh[1:], f.yh)
		f.yh[0] = y
	}

	return y
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessBlockTo filters src into dst. dst must be at least len(src).
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the filter history.
func (f *Filter) Reset() {
	clear(f.xh)
	clear(f.yh)
}

// Apply filters in with c from zero initial state and returns a new buffer
// of the same length and sample rate. The input is not modified.
func Apply(in buffer.SampleBuffer, c Coefficients) (buffer.SampleBuffer, error) {
	f, err := NewFilter(c)
	if err != nil {
		return buffer.SampleBuffer{}, err
	}

	out := make([]float64, in.Len())
	in.View(func(src []float64) {
		f.ProcessBlockTo(out, src)
	})

	return wrapOutput(out, in.SampleRate())
}

// ApplySections filters in through a cascade of biquad sections.
func ApplySections(in buffer.SampleBuffer, sections []biquad.Coefficients) (buffer.SampleBuffer, error) {
	if len(sections) == 0 {
		return buffer.SampleBuffer{}, fmt.Errorf("%w: no sections", ErrDegenerateFilter)
	}

	for i, sec := range sections {
		if err := sec.Validate(); err != nil {
			return buffer.SampleBuffer{}, fmt.Errorf("%w: section %d: %w", ErrDegenerateFilter, i, err)
		}
	}

	chain := biquad.NewChain(sections)
	out := make([]float64, in.Len())

	in.View(func(src []float64) {
		chain.ProcessBlockTo(out, src)
	})

	return wrapOutput(out, in.SampleRate())
}

func wrapOutput(out []float64, rate int) (buffer.SampleBuffer, error) {
	buf, err := buffer.FromOwned(out, rate)
	if err != nil {
		return buffer.SampleBuffer{}, fmt.Errorf("%w: output diverged: %w", ErrDegenerateFilter, err)
	}

	return buf, nil
}
