// Command audioscope filters audio clips and writes plot-ready reports.
//
// Usage:
//
//	audioscope [flags] file ...
//	audioscope [flags] -synth "50,2000"
//
// Every input is decoded to mono at -rate, passed through the selected
// Butterworth filter and written next to -out as <name>.filtered.wav
// plus <name>.report.json holding the decimated waveforms, spectra and
// level statistics of the original and filtered signals.
//
// Examples:
//
//	audioscope -kind low -cutoff 500 voice.wav
//	audioscope -kind high -cutoff 2000 -order 6 -structure cascade a.mp3 b.flac
//	audioscope -synth "50,2000" -probe "50,2000" -kind low -cutoff 500
//
// Flags default to AUDIOSCOPE_* environment variables when set, for
// example AUDIOSCOPE_CUTOFF=800 or AUDIOSCOPE_LOG_FORMAT=json.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
	"github.com/cwbudde/algo-audioscope/dsp/core"
	"github.com/cwbudde/algo-audioscope/dsp/filter/iir"
	"github.com/cwbudde/algo-audioscope/dsp/resample"
	dspsignal "github.com/cwbudde/algo-audioscope/dsp/signal"
	"github.com/cwbudde/algo-audioscope/dsp/waveform"
	"github.com/cwbudde/algo-audioscope/dsp/window"
	"github.com/cwbudde/algo-audioscope/internal/scope"
)

const envPrefix = "AUDIOSCOPE_"

type options struct {
	scope     scope.Config
	filter    scope.FilterChoice
	inputs    []string
	synth     string
	duration  time.Duration
	noise     float64
	peak      float64
	outDir    string
	logFormat string
	logLevel  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := newLogger(opts.logFormat, opts.logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	proc, err := scope.NewProcessor(opts.scope, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	reqs, err := buildRequests(opts)
	if err != nil {
		logger.Error("cannot build requests", "error", err)
		return 1
	}

	logger.Info("processing",
		"inputs", len(reqs),
		"filter", opts.filter.String(),
		"workers", opts.scope.Workers,
	)

	results, err := proc.ProcessBatch(ctx, reqs)
	if err != nil {
		logger.Error("batch interrupted", "error", err)
	}

	failed := 0

	for i := range results {
		res := &results[i]
		if res.Err != nil {
			failed++
			continue
		}

		if werr := writeOutputs(opts.outDir, res); werr != nil {
			logger.Error("cannot write outputs", "request", res.Name, "error", werr)
			res.Err = werr
			failed++
		}
	}

	printSummary(stdout, results)

	if failed > 0 || err != nil {
		return 1
	}

	return 0
}

func parseOptions(args []string, getenv func(string) string, stderr io.Writer) (options, error) {
	env := envLookup(getenv)
	def := scope.DefaultConfig()

	fs := flag.NewFlagSet("audioscope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	kind := fs.String("kind", env.getEnv("KIND", "none"), "filter kind: none, low or high")
	cutoff := fs.Float64("cutoff", env.getEnvAsFloat("CUTOFF", 1000), "cutoff frequency in Hz (100-5000 typical, must be below rate/2)")
	order := fs.Int("order", env.getEnvAsInt("ORDER", iir.DefaultOrder), "Butterworth order")
	structure := fs.String("structure", env.getEnv("STRUCTURE", string(scope.StructureDirect)), "filter structure: direct or cascade")
	rate := fs.Int("rate", env.getEnvAsInt("RATE", def.TargetRate), "decode sample rate in Hz")
	quality := fs.String("resample-quality", env.getEnv("RESAMPLE_QUALITY", def.ResampleQuality.String()), "resampler quality: fast, balanced or best")
	points := fs.Int("points", env.getEnvAsInt("POINTS", waveform.DefaultMaxPoints), "maximum waveform points per plot")
	specPoints := fs.Int("spectrum-points", env.getEnvAsInt("SPECTRUM_POINTS", def.SpectrumPoints), "maximum spectrum points per plot")
	fftSize := fs.Int("fft", env.getEnvAsInt("FFT", def.FFTSize), "spectrum FFT size (power of two)")
	win := fs.String("window", env.getEnv("WINDOW", "hann"), "spectrum window: hann, hamming, blackman, blackman-harris, flattop or rect")
	bits := fs.Int("bits", env.getEnvAsInt("BITS", def.BitDepth), "filtered WAV bit depth: 16 or 24")
	workers := fs.Int("workers", env.getEnvAsInt("WORKERS", runtime.NumCPU()), "files processed concurrently")
	probe := fs.String("probe", env.getEnv("PROBE", ""), "comma-separated tone frequencies to measure, e.g. 50,2000")
	synth := fs.String("synth", env.getEnv("SYNTH", ""), "synthesize a test clip from tones, e.g. 50,2000:0.5")
	duration := fs.Duration("duration", env.getEnvAsDuration("DURATION", time.Second), "length of the synthesized clip")
	noise := fs.Float64("noise", env.getEnvAsFloat("NOISE", 0), "white noise amplitude added to the synthesized clip")
	peak := fs.Float64("normalize", env.getEnvAsFloat("NORMALIZE", 0), "scale the synthesized clip to this peak (0 keeps the raw sum)")
	outDir := fs.String("out", env.getEnv("OUT", "."), "output directory")
	logFormat := fs.String("log-format", env.getEnv("LOG_FORMAT", "text"), "log format: text or json")
	logLevel := fs.String("log-level", env.getEnv("LOG_LEVEL", "info"), "log level: debug, info, warn or error")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: audioscope [flags] file ...\n\n")
		fmt.Fprintf(stderr, "Filters audio clips with a Butterworth low-pass or high-pass filter and\n")
		fmt.Fprintf(stderr, "writes <name>.filtered.wav and <name>.report.json for each input.\n\n")
		fmt.Fprintf(stderr, "Flags (defaults from %s* environment variables):\n", envPrefix)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  audioscope -kind low -cutoff 500 voice.wav\n")
		fmt.Fprintf(stderr, "  audioscope -kind high -cutoff 2000 -structure cascade a.mp3 b.flac\n")
		fmt.Fprintf(stderr, "  audioscope -synth 50,2000 -probe 50,2000 -kind low -cutoff 500\n")
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	k, err := scope.ParseFilterKind(*kind)
	if err != nil {
		return options{}, err
	}

	st, err := scope.ParseStructure(*structure)
	if err != nil {
		return options{}, err
	}

	rq, err := resample.ParseQuality(*quality)
	if err != nil {
		return options{}, err
	}

	wt, err := window.ParseType(*win)
	if err != nil {
		return options{}, err
	}

	probes, err := parseFloats(*probe)
	if err != nil {
		return options{}, fmt.Errorf("-probe: %w", err)
	}

	cfg := def
	cfg.TargetRate = *rate
	cfg.ResampleQuality = rq
	cfg.MaxPoints = *points
	cfg.SpectrumPoints = *specPoints
	cfg.FFTSize = *fftSize
	cfg.Window = wt
	cfg.BitDepth = *bits
	cfg.Workers = *workers
	cfg.Structure = st
	cfg.ProbeFreqs = probes

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	opts := options{
		scope:     cfg,
		filter:    scope.FilterChoice{Kind: k, CutoffHz: *cutoff, Order: *order},
		inputs:    fs.Args(),
		synth:     *synth,
		duration:  *duration,
		noise:     *noise,
		peak:      *peak,
		outDir:    *outDir,
		logFormat: *logFormat,
		logLevel:  *logLevel,
	}

	if len(opts.inputs) == 0 && opts.synth == "" {
		fs.Usage()
		return options{}, errors.New("no input files and no -synth tones")
	}

	return opts, nil
}

func newLogger(format, level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	hopts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// buildRequests rejects inputs whose outputs would land on the same
// <name>.filtered.wav and <name>.report.json.
func buildRequests(opts options) ([]scope.Request, error) {
	reqs := make([]scope.Request, 0, len(opts.inputs)+1)
	sources := make(map[string]string, len(opts.inputs)+1)

	if opts.synth != "" {
		sources["synth"] = "-synth"
	}

	for _, path := range opts.inputs {
		name := baseName(path)
		if prev, ok := sources[name]; ok {
			return nil, fmt.Errorf("%s and %s both write %q outputs", prev, path, name)
		}

		sources[name] = path
	}

	if opts.synth != "" {
		buf, err := synthesize(opts)
		if err != nil {
			return nil, fmt.Errorf("-synth: %w", err)
		}

		reqs = append(reqs, scope.Request{Name: "synth", Samples: buf, Filter: opts.filter})
	}

	for _, path := range opts.inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		reqs = append(reqs, scope.Request{Name: baseName(path), Audio: data, Filter: opts.filter})
	}

	return reqs, nil
}

func synthesize(opts options) (buffer.SampleBuffer, error) {
	tones, err := dspsignal.ParseTones(opts.synth)
	if err != nil {
		return buffer.SampleBuffer{}, err
	}

	rate := opts.scope.TargetRate
	n := int(opts.duration.Seconds() * float64(rate))

	gen := dspsignal.NewGenerator(core.WithSampleRate(rate))

	samples, err := gen.Tones(tones, n)
	if err != nil {
		return buffer.SampleBuffer{}, err
	}

	if opts.noise > 0 {
		noise, err := gen.WhiteNoise(opts.noise, n)
		if err != nil {
			return buffer.SampleBuffer{}, err
		}

		if samples, err = dspsignal.Mix(samples, noise); err != nil {
			return buffer.SampleBuffer{}, err
		}
	}

	if opts.peak > 0 {
		if samples, err = dspsignal.Normalize(samples, opts.peak); err != nil {
			return buffer.SampleBuffer{}, err
		}
	}

	return buffer.FromOwned(samples, rate)
}

func writeOutputs(dir string, res *scope.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, res.Name+".filtered.wav"), res.WAV, 0o644); err != nil {
		return err
	}

	report, err := res.Report.JSON()
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, res.Name+".report.json"), report, 0o644)
}

func printSummary(w io.Writer, results []scope.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tSamples\tRate\tFilter\tRMS dB in\tRMS dB out\tPeak in\tPeak out\tStatus\n")
	fmt.Fprintf(tw, "----\t-------\t----\t------\t---------\t----------\t-------\t--------\t------\n")

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t-\t%v\n", res.Name, res.Err)
			continue
		}

		rep := res.Report
		status := "ok"

		switch {
		case rep.Filter.Skipped:
			status = "filter skipped: " + rep.Filter.Reason
		case !rep.Filter.Applied:
			status = "unfiltered"
		}

		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.2f\t%.2f\t%.4f\t%.4f\t%s\n",
			res.Name,
			rep.Samples,
			rep.SampleRate,
			filterLabel(rep.Filter),
			rep.Original.Stats.RMSDB,
			rep.Filtered.Stats.RMSDB,
			rep.Original.Stats.Peak,
			rep.Filtered.Stats.Peak,
			status,
		)
	}

	tw.Flush()
}

func filterLabel(fr scope.FilterReport) string {
	if fr.Kind == "none" {
		return "none"
	}

	return fmt.Sprintf("%s %gHz N=%d", fr.Kind, fr.CutoffHz, fr.Order)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))

	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// envLookup reads AUDIOSCOPE_* variables, falling back to a default when
// a variable is unset or does not parse.
type envLookup func(string) string

func (e envLookup) getEnv(key, def string) string {
	if v := e(envPrefix + key); v != "" {
		return v
	}

	return def
}

func (e envLookup) getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(e.getEnv(key, "")); err == nil {
		return v
	}

	return def
}

func (e envLookup) getEnvAsFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(e.getEnv(key, ""), 64); err == nil {
		return v
	}

	return def
}

func (e envLookup) getEnvAsDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.getEnv(key, "")); err == nil {
		return v
	}

	return def
}
