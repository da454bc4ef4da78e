package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects the anti-aliasing filter profile.
type Quality int

const (
	// QualityFast uses short filters.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long, steep filters.
	QualityBest
)

// Profile holds the prototype filter parameters of a Quality.
type Profile struct {
	TapsPerPhase int
	CutoffScale  float64
	KaiserBeta   float64
}

var profiles = [...]Profile{
	QualityFast:     {TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0},
	QualityBalanced: {TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5},
	QualityBest:     {TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0},
}

// QualityProfile returns the profile of q. Unknown values get the
// balanced profile.
func QualityProfile(q Quality) Profile {
	if q < 0 || int(q) >= len(profiles) {
		q = QualityBalanced
	}

	return profiles[q]
}

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityBest:
		return "best"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality accepts "fast", "balanced" or "best".
func ParseQuality(s string) (Quality, error) {
	for q := QualityFast; q <= QualityBest; q++ {
		if strings.EqualFold(strings.TrimSpace(s), q.String()) {
			return q, nil
		}
	}

	return 0, fmt.Errorf("resample: unknown quality %q", s)
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps denominator size for rate-ratio approximation.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Resampler performs rational sample-rate conversion using a polyphase FIR.
// It keeps history between Process calls, so a stream may be fed in blocks.
type Resampler struct {
	up, down int
	quality  Quality

	phases     [][]float64
	delay      int
	maxPhaseLn int

	phase      int
	inputIndex int
	totalIn    int
	history    []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := newConfig(opts)

	phases, delay, maxPhaseLn, err := designPolyphaseFIR(up, down, QualityProfile(cfg.quality))
	if err != nil {
		return nil, err
	}

	return &Resampler{
		up:         up,
		down:       down,
		quality:    cfg.quality,
		phases:     phases,
		delay:      delay,
		maxPhaseLn: maxPhaseLn,
	}, nil
}

// NewForRates creates a resampler for outRate/inRate. Whole-number rates
// give the exact ratio; fractional rates are approximated with a
// denominator of at most WithMaxDenominator.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 || math.IsNaN(inRate) || math.IsNaN(outRate) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("%w: %g -> %g", ErrInvalidRate, inRate, outRate)
	}

	cfg := newConfig(opts)
	up, down := rateRatio(inRate, outRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// Resample converts input using ratio up/down as a one-shot helper. The
// output carries the filter's group delay; see ConvertRate for an aligned
// conversion.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	r, err := NewRational(up, down, opts...)
	if err != nil {
		return nil, err
	}

	return r.Process(input), nil
}

// ConvertRate converts a whole clip from inRate to outRate. The filter
// delay is compensated so that output sample n lines up with time
// n/outRate, and the output holds round(len(input)*outRate/inRate)
// samples. Equal rates return a copy.
func ConvertRate(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, inRate, outRate)
	}

	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	r, err := NewRational(outRate, inRate, opts...)
	if err != nil {
		return nil, err
	}

	want := int(math.Round(float64(len(input)) * float64(r.up) / float64(r.down)))
	if want == 0 {
		return nil, nil
	}

	skip := r.Delay()

	out := r.Process(input)
	for len(out) < skip+want {
		out = append(out, r.Process(make([]float64, r.maxPhaseLn))...)
	}

	return out[skip : skip+want], nil
}

// ConvertBuffer resamples buf to outRate with ConvertRate.
func ConvertBuffer(buf buffer.SampleBuffer, outRate int, opts ...Option) (buffer.SampleBuffer, error) {
	if buf.SampleRate() == outRate {
		return buf, nil
	}

	var (
		out []float64
		err error
	)

	buf.View(func(samples []float64) {
		out, err = ConvertRate(samples, buf.SampleRate(), outRate, opts...)
	})

	if err != nil {
		return buffer.SampleBuffer{}, err
	}

	return buffer.FromOwned(out, outRate)
}

// Reset clears internal filter state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.history = nil
}

// Process converts an input block and keeps the tail of the input as
// history for the next call.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	// work[j] holds absolute input sample first+j.
	work := append(r.history, input...)
	first := r.totalIn - len(r.history)
	end := r.totalIn + len(input)

	out := make([]float64, 0, r.PredictOutputLen(len(input)))
	for r.inputIndex < end {
		taps := r.phases[r.phase]
		newest := r.inputIndex - first

		var acc float64
		for k := range min(len(taps), newest+1) {
			acc += taps[k] * work[newest-k]
		}

		out = append(out, acc)
		r.inputIndex, r.phase = r.advance(r.inputIndex, r.phase)
	}

	r.totalIn = end

	keep := min(max(0, r.maxPhaseLn-1), len(work))
	r.history = append(make([]float64, 0, keep), work[len(work)-keep:]...)

	return out
}

// advance steps the output clock by one sample: the phase moves down
// branches and every wrap past up consumes one input sample.
func (r *Resampler) advance(index, phase int) (int, int) {
	phase += r.down

	return index + phase/r.up, phase % r.up
}

// PredictOutputLen returns the number of samples the next Process call
// with inputLen samples will produce.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	end := r.totalIn + inputLen
	index, phase := r.inputIndex, r.phase

	n := 0
	for ; index < end; n++ {
		index, phase = r.advance(index, phase)
	}

	return n
}

// Ratio returns reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Quality returns the configured quality mode.
func (r *Resampler) Quality() Quality {
	return r.quality
}

// Delay returns the group delay of the anti-aliasing filter in output
// samples.
func (r *Resampler) Delay() int {
	return r.delay
}
