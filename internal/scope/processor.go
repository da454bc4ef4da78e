package scope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
	"github.com/cwbudde/algo-audioscope/dsp/filter/iir"
	"github.com/cwbudde/algo-audioscope/dsp/resample"
	"github.com/cwbudde/algo-audioscope/dsp/spectrum"
	"github.com/cwbudde/algo-audioscope/dsp/waveform"
	"github.com/cwbudde/algo-audioscope/internal/codec"
	statfreq "github.com/cwbudde/algo-audioscope/stats/frequency"
	stattime "github.com/cwbudde/algo-audioscope/stats/time"
)

// ErrNoInput reports a request with neither encoded audio nor samples.
var ErrNoInput = errors.New("scope: request has no audio")

// Request is one clip to process. Audio holds encoded bytes; when it is
// empty Samples is used as is.
type Request struct {
	Name    string
	Audio   []byte
	Samples buffer.SampleBuffer
	Filter  FilterChoice
}

// Result is the outcome of one request. Err is set when the request
// failed; the other fields are then zero.
type Result struct {
	Name     string
	Original buffer.SampleBuffer
	Filtered buffer.SampleBuffer
	WAV      []byte
	Report   Report
	Err      error
}

// Processor runs requests against a fixed Config.
type Processor struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewProcessor validates cfg. A nil logger discards log output.
func NewProcessor(cfg Config, logger *slog.Logger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Processor{cfg: cfg, logger: logger, now: time.Now}, nil
}

// Config returns the processor's settings.
func (p *Processor) Config() Config {
	return p.cfg
}

// Process runs the full pipeline for req. An invalid filter choice does
// not fail the request: the filter step is skipped, the original audio is
// returned as the filtered result and the report says why.
func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	start := p.now()
	log := p.logger.With("request", req.Name)

	original, info, err := p.load(req)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	filtered, fr, err := p.filter(original, req.Filter)
	if err != nil {
		return Result{}, err
	}

	if fr.Skipped {
		log.Warn("filter skipped", "reason", fr.Reason)
	} else if fr.Structure != p.cfg.Structure {
		log.Warn("direct form ill-conditioned, running cascade", "order", fr.Order, "maxDirectOrder", MaxDirectOrder)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	origTrack, err := p.track(original)
	if err != nil {
		return Result{}, fmt.Errorf("original track: %w", err)
	}

	filtTrack, err := p.track(filtered)
	if err != nil {
		return Result{}, fmt.Errorf("filtered track: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	wav, err := codec.EncodeWAV(filtered, codec.WithBitDepth(p.cfg.BitDepth))
	if err != nil {
		return Result{}, err
	}

	report := Report{
		ID:         uuid.NewString(),
		Name:       req.Name,
		CreatedAt:  start.UTC(),
		Source:     info,
		SampleRate: original.SampleRate(),
		Samples:    original.Len(),
		Seconds:    original.Duration().Seconds(),
		Filter:     fr,
		Original:   origTrack,
		Filtered:   filtTrack,
	}

	log.Info("processed",
		"id", report.ID,
		"samples", report.Samples,
		"rate", report.SampleRate,
		"filter", fr.Kind,
		"applied", fr.Applied,
		"elapsed", p.now().Sub(start),
	)

	return Result{
		Name:     req.Name,
		Original: original,
		Filtered: filtered,
		WAV:      wav,
		Report:   report,
	}, nil
}

// ProcessBatch processes reqs concurrently with at most Config.Workers
// requests in flight. Results follow the order of reqs. A failing request
// records its error in Result.Err and does not stop the others; the
// returned error is non-nil only when ctx ends first.
func (p *Processor) ProcessBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := p.Process(gctx, req)
			if err != nil {
				p.logger.Error("request failed", "request", req.Name, "error", err)
				res = Result{Name: req.Name, Err: err}
			}

			results[i] = res

			return nil
		})
	}

	_ = g.Wait()

	return results, ctx.Err()
}

// load decodes or adopts the request audio at the configured rate.
func (p *Processor) load(req Request) (buffer.SampleBuffer, *codec.Info, error) {
	if len(req.Audio) > 0 {
		buf, info, err := codec.DecodeWithInfo(req.Audio,
			codec.WithTargetRate(p.cfg.TargetRate),
			codec.WithResampleQuality(p.cfg.ResampleQuality),
		)
		if err != nil {
			return buffer.SampleBuffer{}, nil, err
		}

		return buf, &info, nil
	}

	if req.Samples.IsZero() {
		return buffer.SampleBuffer{}, nil, ErrNoInput
	}

	buf, err := resample.ConvertBuffer(req.Samples, p.cfg.TargetRate, resample.WithQuality(p.cfg.ResampleQuality))
	if err != nil {
		return buffer.SampleBuffer{}, nil, err
	}

	return buf, nil, nil
}

// filter applies choice to buf. Invalid specs are reported, not returned.
func (p *Processor) filter(buf buffer.SampleBuffer, choice FilterChoice) (buffer.SampleBuffer, FilterReport, error) {
	if choice.None() {
		return buf, FilterReport{Kind: "none"}, nil
	}

	spec := choice.spec(buf.SampleRate())
	fr := FilterReport{
		Kind:      choice.Kind.String(),
		CutoffHz:  spec.CutoffHz,
		Order:     spec.Order,
		Structure: p.cfg.Structure,
	}

	// High-order direct-form polynomials lose their poles to rounding.
	if fr.Structure == StructureDirect && spec.Order > MaxDirectOrder {
		fr.Structure = StructureCascade
	}

	coeffs, err := iir.Design(spec)
	if errors.Is(err, iir.ErrInvalidSpec) {
		fr.Skipped = true
		fr.Reason = err.Error()

		return buf, fr, nil
	}

	if err != nil {
		return buffer.SampleBuffer{}, fr, err
	}

	fr.Feedforward = coeffs.Feedforward
	fr.Feedback = coeffs.Feedback
	fr.Stable = coeffs.Stable()

	var out buffer.SampleBuffer

	switch fr.Structure {
	case StructureCascade:
		sections, serr := iir.DesignSections(spec)
		if serr != nil {
			return buffer.SampleBuffer{}, fr, serr
		}

		out, err = iir.ApplySections(buf, sections)
	default:
		out, err = iir.Apply(buf, coeffs)
	}

	if err != nil {
		return buffer.SampleBuffer{}, fr, err
	}

	fr.Applied = true

	return out, fr, nil
}

func (p *Processor) track(buf buffer.SampleBuffer) (Track, error) {
	series, err := waveform.Decimate(buf, p.cfg.MaxPoints)
	if err != nil {
		return Track{}, err
	}

	var tr Track

	tr.Waveform = series

	buf.View(func(samples []float64) {
		tr.Stats = stattime.Calculate(samples)
		tr.Spectrum = p.spectrumCurve(samples, buf.SampleRate())
		tr.Probes = p.probes(samples, buf.SampleRate())
	})

	return tr, nil
}

// spectrumCurve returns nil for blocks too short to analyse.
func (p *Processor) spectrumCurve(samples []float64, rate int) *SpectrumCurve {
	spec, err := spectrum.Analyze(samples, rate,
		spectrum.WithFFTSize(p.cfg.FFTSize),
		spectrum.WithWindow(p.cfg.Window),
	)
	if err != nil {
		p.logger.Debug("spectrum unavailable", "error", err)
		return nil
	}

	freqs, levels, err := waveform.DecimateXY(spec.Frequencies, spec.MagnitudesDB, p.cfg.SpectrumPoints)
	if err != nil {
		return nil
	}

	shape, err := statfreq.CalculateDB(spec.Frequencies, spec.MagnitudesDB)
	if err != nil {
		return nil
	}

	peakHz, peakDB := spec.Peak()

	return &SpectrumCurve{
		Frequencies: freqs,
		LevelsDB:    levels,
		PeakHz:      peakHz,
		PeakDB:      peakDB,
		FFTSize:     spec.FFTSize,
		Window:      spec.Window,
		Frames:      spec.Frames,
		Shape:       shape,
	}
}

// probes skips frequencies above Nyquist.
func (p *Processor) probes(samples []float64, rate int) []ToneProbe {
	if len(p.cfg.ProbeFreqs) == 0 {
		return nil
	}

	nyquist := float64(rate) / 2
	out := make([]ToneProbe, 0, len(p.cfg.ProbeFreqs))

	for _, f := range p.cfg.ProbeFreqs {
		if f > nyquist {
			continue
		}

		amp, err := spectrum.ToneAmplitude(samples, f, float64(rate))
		if err != nil {
			continue
		}

		out = append(out, ToneProbe{FreqHz: f, Amplitude: amp})
	}

	return out
}
