package spectrum

import (
	"fmt"
	"math"
)

// Goertzel evaluates one DFT bin at an arbitrary frequency over every
// sample fed to it since the last Reset. Leakage vanishes only when the
// block spans a whole number of cycles of the target frequency.
type Goertzel struct {
	freq, rate float64
	coeff      float64
	s1, s2     float64
	n          int
}

// NewGoertzel returns an analyzer for freq Hz at rate Hz. freq must lie in
// [0, rate/2].
func NewGoertzel(freq, rate float64) (*Goertzel, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: goertzel sample rate %v", ErrInvalidInput, rate)
	}

	if !(freq >= 0 && freq <= rate/2) {
		return nil, fmt.Errorf("%w: goertzel frequency %v outside [0, %v]", ErrInvalidInput, freq, rate/2)
	}

	return &Goertzel{
		freq:  freq,
		rate:  rate,
		coeff: 2 * math.Cos(2*math.Pi*freq/rate),
	}, nil
}

// Reset clears the accumulator.
func (g *Goertzel) Reset() {
	g.s1, g.s2, g.n = 0, 0, 0
}

// Count reports how many samples have been accumulated.
func (g *Goertzel) Count() int { return g.n }

// ProcessSample feeds one sample.
func (g *Goertzel) ProcessSample(x float64) {
	g.s1, g.s2 = x+g.coeff*g.s1-g.s2, g.s1
	g.n++
}

// ProcessBlock feeds a block of samples.
func (g *Goertzel) ProcessBlock(block []float64) {
	s1, s2, c := g.s1, g.s2, g.coeff
	for _, x := range block {
		s1, s2 = x+c*s1-s2, s1
	}

	g.s1, g.s2 = s1, s2
	g.n += len(block)
}

// Power returns |X(f)|^2 for the accumulated block.
func (g *Goertzel) Power() float64 {
	return g.s1*g.s1 + g.s2*g.s2 - g.coeff*g.s1*g.s2
}

// Magnitude returns |X(f)|.
func (g *Goertzel) Magnitude() float64 {
	return math.Sqrt(max(g.Power(), 0))
}

// Amplitude returns the peak amplitude of a sinusoid at the target
// frequency: 2|X(f)|/N, or |X(f)|/N at DC and Nyquist.
func (g *Goertzel) Amplitude() float64 {
	if g.n == 0 {
		return 0
	}

	a := g.Magnitude() / float64(g.n)
	if g.freq > 0 && g.freq < g.rate/2 {
		a *= 2
	}

	return a
}

// ToneAmplitude returns the amplitude of the sinusoid at freq in block.
// The estimate is exact when block holds a whole number of cycles.
func ToneAmplitude(block []float64, freq, rate float64) (float64, error) {
	amps, err := Probe(block, []float64{freq}, rate)
	if err != nil {
		return 0, err
	}

	return amps[0], nil
}

// Probe measures the amplitudes of several tones over the same block.
func Probe(block, freqs []float64, rate float64) ([]float64, error) {
	if len(block) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidInput)
	}

	out := make([]float64, len(freqs))

	for i, f := range freqs {
		g, err := NewGoertzel(f, rate)
		if err != nil {
			return nil, err
		}

		g.ProcessBlock(block)
		out[i] = g.Amplitude()
	}

	return out, nil
}
