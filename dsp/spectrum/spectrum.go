package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-audioscope/dsp/core"
	"github.com/cwbudde/algo-audioscope/dsp/window"
)

const (
	// DefaultFFTSize is the analysis frame length.
	DefaultFFTSize = 4096
	// FloorDB is the lowest level reported; silent bins clamp to it.
	FloorDB = -140.0

	minFFTSize = 16
)

// ErrInvalidInput indicates an empty block, a non-positive sample rate or
// an FFT size that is not a power of two.
var ErrInvalidInput = errors.New("spectrum: invalid input")

// Spectrum is a one-sided magnitude spectrum. MagnitudesDB are amplitude
// levels (0 dB = full-scale sine) at Frequencies, from DC to Nyquist.
type Spectrum struct {
	Frequencies  []float64
	MagnitudesDB []float64
	FFTSize      int
	Frames       int
	Window       string
}

// Peak returns the frequency and level of the loudest bin above DC.
func (s Spectrum) Peak() (freqHz, levelDB float64) {
	levelDB = math.Inf(-1)

	for i := 1; i < len(s.MagnitudesDB); i++ {
		if s.MagnitudesDB[i] > levelDB {
			freqHz, levelDB = s.Frequencies[i], s.MagnitudesDB[i]
		}
	}

	return freqHz, levelDB
}

// Option configures Analyze.
type Option func(*config)

type config struct {
	fftSize int
	window  window.Type
}

// WithFFTSize sets the frame length. It must be a power of two; blocks
// shorter than the frame are zero-padded.
func WithFFTSize(n int) Option {
	return func(c *config) {
		c.fftSize = n
	}
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// Analyze returns the averaged magnitude spectrum of samples. Frames
// overlap by half; blocks shorter than one frame use a single frame sized
// to the next power of two.
func Analyze(samples []float64, sampleRate int, opts ...Option) (Spectrum, error) {
	cfg := config{fftSize: DefaultFFTSize, window: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(samples) == 0 {
		return Spectrum{}, fmt.Errorf("%w: no samples", ErrInvalidInput)
	}

	if sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("%w: sample rate must be > 0: %d", ErrInvalidInput, sampleRate)
	}

	if cfg.fftSize < minFFTSize || bits.OnesCount(uint(cfg.fftSize)) != 1 {
		return Spectrum{}, fmt.Errorf("%w: fft size must be a power of two >= %d: %d", ErrInvalidInput, minFFTSize, cfg.fftSize)
	}

	n := cfg.fftSize
	if len(samples) < n {
		n = max(minFFTSize, nextPow2(len(samples)))
	}

	frameLen := min(n, len(samples))
	win := window.Generate(cfg.window, frameLen, window.WithPeriodic())

	gain, err := window.CoherentGain(win)
	if err != nil || gain == 0 {
		return Spectrum{}, fmt.Errorf("%w: window %v has no coherent gain", ErrInvalidInput, cfg.window)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: fft plan %d: %w", n, err)
	}

	bins := n/2 + 1
	in := make([]complex128, n)
	out := make([]complex128, n)
	power := make([]float64, bins)
	framePower := make([]float64, bins)
	hop := max(1, frameLen/2)
	frames := 0

	for start := 0; start+frameLen <= len(samples); start += hop {
		clear(in)

		for i, w := range win {
			in[i] = complex(samples[start+i]*w, 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return Spectrum{}, fmt.Errorf("spectrum: forward fft: %w", err)
		}

		PowerFromBins(framePower, out[:bins])

		for k, p := range framePower {
			power[k] += p
		}

		frames++
	}

	spec := Spectrum{
		Frequencies:  make([]float64, bins),
		MagnitudesDB: make([]float64, bins),
		FFTSize:      n,
		Frames:       frames,
		Window:       cfg.window.String(),
	}

	scale := 1 / (float64(frameLen) * gain)

	for k := range bins {
		mag := math.Sqrt(power[k]/float64(frames)) * scale
		if k != 0 && k != n/2 {
			mag *= 2
		}

		spec.Frequencies[k] = float64(k) * float64(sampleRate) / float64(n)
		spec.MagnitudesDB[k] = core.FloorDB(core.LinearToDB(mag), FloorDB)
	}

	return spec, nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)

	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}

	return buf.data[:n], buf.data[n:need], buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)

	return out
}

// PowerFromBins writes |X[k]|^2 for each bin of in into dst.
// dst must be at least len(in).
func PowerFromBins(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst[:len(in)], re, im)
	scratchPool.Put(buf)
}
