package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-audioscope/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// SetSeed replaces the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Sine generates a sine wave starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Tones([]Tone{{FreqHz: freqHz, Amplitude: amplitude}}, samples)
}

// Tone is one sinusoidal component of a synthetic signal.
type Tone struct {
	FreqHz    float64
	Amplitude float64
}

// Tones generates the sum of the given sinusoids.
func (g *Generator) Tones(tones []Tone, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("tone samples must be > 0: %d", samples)
	}

	nyquist := g.cfg.Nyquist()
	for _, tone := range tones {
		if tone.FreqHz < 0 || tone.FreqHz > nyquist || math.IsNaN(tone.FreqHz) {
			return nil, fmt.Errorf("tone frequency must be in [0, %g]: %g", nyquist, tone.FreqHz)
		}
	}

	out := make([]float64, samples)

	for _, tone := range tones {
		step := 2 * math.Pi * tone.FreqHz * g.cfg.Period()
		for i := range out {
			out[i] += tone.Amplitude * math.Sin(step*float64(i))
		}
	}

	return out, nil
}

// ParseTones parses a comma-separated tone list such as "50,2000:0.5".
// A component without ":amplitude" has amplitude 1.
func ParseTones(s string) ([]Tone, error) {
	fields := strings.Split(s, ",")
	tones := make([]Tone, 0, len(fields))

	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		freqStr, ampStr, hasAmp := strings.Cut(field, ":")

		freq, err := strconv.ParseFloat(strings.TrimSpace(freqStr), 64)
		if err != nil {
			return nil, fmt.Errorf("tone %q: %w", field, err)
		}

		amp := 1.0
		if hasAmp {
			amp, err = strconv.ParseFloat(strings.TrimSpace(ampStr), 64)
			if err != nil {
				return nil, fmt.Errorf("tone %q amplitude: %w", field, err)
			}
		}

		tones = append(tones, Tone{FreqHz: freq, Amplitude: amp})
	}

	if len(tones) == 0 {
		return nil, fmt.Errorf("no tones in %q", s)
	}

	return tones, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)

	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// Mix sums equal-length signals into a new slice.
func Mix(signals ...[]float64) ([]float64, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("mix requires at least one signal")
	}

	n := len(signals[0])
	out := make([]float64, n)

	for i, s := range signals {
		if len(s) != n {
			return nil, fmt.Errorf("mix length mismatch at %d: %d != %d", i, len(s), n)
		}

		for j, v := range s {
			out[j] += v
		}
	}

	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}

// Clip limits every sample of data to [lo, hi] and returns a new slice.
func Clip(data []float64, lo, hi float64) ([]float64, error) {
	if lo > hi {
		return nil, fmt.Errorf("clip bounds inverted: %f > %f", lo, hi)
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = core.Clamp(v, lo, hi)
	}

	return out, nil
}
