package scope

import (
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-audioscope/dsp/filter/iir"
	"github.com/cwbudde/algo-audioscope/dsp/resample"
	"github.com/cwbudde/algo-audioscope/dsp/spectrum"
	"github.com/cwbudde/algo-audioscope/dsp/waveform"
	"github.com/cwbudde/algo-audioscope/dsp/window"
	"github.com/cwbudde/algo-audioscope/internal/codec"
)

// ErrInvalidConfig reports an unusable Config.
var ErrInvalidConfig = errors.New("scope: invalid config")

// Structure selects how a designed filter is run.
type Structure string

const (
	// StructureDirect runs the single high-order recurrence.
	StructureDirect Structure = "direct"
	// StructureCascade runs the same response as second-order sections.
	StructureCascade Structure = "cascade"
)

// ParseStructure accepts "direct" or "cascade" (alias "sos").
func ParseStructure(s string) (Structure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct", "df":
		return StructureDirect, nil
	case "cascade", "sos", "biquad":
		return StructureCascade, nil
	default:
		return "", fmt.Errorf("%w: unknown structure %q", ErrInvalidConfig, s)
	}
}

// MaxDirectOrder is the highest order run as a single recurrence; above
// it StructureDirect falls back to StructureCascade.
const MaxDirectOrder = 6

// Config holds the pipeline settings shared by every request.
type Config struct {
	// TargetRate is the rate every input is converted to.
	TargetRate      int
	ResampleQuality resample.Quality
	// MaxPoints bounds each plotted waveform.
	MaxPoints int
	// SpectrumPoints bounds each plotted spectrum curve.
	SpectrumPoints int
	FFTSize        int
	// Window tapers each spectrum frame.
	Window    window.Type
	Structure Structure
	// BitDepth of the filtered WAV.
	BitDepth int
	// Workers limits ProcessBatch concurrency.
	Workers int
	// ProbeFreqs are tone frequencies measured in both signals.
	ProbeFreqs []float64
}

// DefaultConfig returns the settings the CLI starts from.
func DefaultConfig() Config {
	return Config{
		TargetRate:      codec.DefaultTargetRate,
		ResampleQuality: resample.QualityBalanced,
		MaxPoints:       waveform.DefaultMaxPoints,
		SpectrumPoints:  1024,
		FFTSize:         spectrum.DefaultFFTSize,
		Window:          window.TypeHann,
		Structure:       StructureDirect,
		BitDepth:        codec.DefaultBitDepth,
		Workers:         runtime.NumCPU(),
	}
}

// Validate checks c for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.TargetRate <= 0 {
		return fmt.Errorf("%w: target rate must be > 0: %d", ErrInvalidConfig, c.TargetRate)
	}

	if _, err := resample.ParseQuality(c.ResampleQuality.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.MaxPoints < 1 {
		return fmt.Errorf("%w: max points must be >= 1: %d", ErrInvalidConfig, c.MaxPoints)
	}

	if c.SpectrumPoints < 1 {
		return fmt.Errorf("%w: spectrum points must be >= 1: %d", ErrInvalidConfig, c.SpectrumPoints)
	}

	if c.FFTSize < 16 || bits.OnesCount(uint(c.FFTSize)) != 1 {
		return fmt.Errorf("%w: fft size must be a power of two >= 16: %d", ErrInvalidConfig, c.FFTSize)
	}

	if !c.Window.Valid() {
		return fmt.Errorf("%w: unknown window %v", ErrInvalidConfig, c.Window)
	}

	if c.Structure != StructureDirect && c.Structure != StructureCascade {
		return fmt.Errorf("%w: unknown structure %q", ErrInvalidConfig, c.Structure)
	}

	if c.BitDepth != 16 && c.BitDepth != 24 {
		return fmt.Errorf("%w: bit depth must be 16 or 24: %d", ErrInvalidConfig, c.BitDepth)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1: %d", ErrInvalidConfig, c.Workers)
	}

	for _, f := range c.ProbeFreqs {
		if !(f >= 0) {
			return fmt.Errorf("%w: probe frequency must be >= 0: %g", ErrInvalidConfig, f)
		}
	}

	return nil
}

// FilterChoice is the user's filter selection. A zero Kind means no
// filtering. Order is designed as given, so a zero Order is reported as
// a skipped filter; NewFilterChoice fills in iir.DefaultOrder.
type FilterChoice struct {
	Kind     iir.Kind
	CutoffHz float64
	Order    int
}

// NewFilterChoice returns a choice of iir.DefaultOrder.
func NewFilterChoice(kind iir.Kind, cutoffHz float64) FilterChoice {
	return FilterChoice{Kind: kind, CutoffHz: cutoffHz, Order: iir.DefaultOrder}
}

// ParseFilterKind maps "none" and "" to the zero Kind and defers every
// other spelling to iir.ParseKind.
func ParseFilterKind(s string) (iir.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off", "bypass":
		return 0, nil
	default:
		return iir.ParseKind(s)
	}
}

// None reports whether the choice disables filtering.
func (f FilterChoice) None() bool {
	return f.Kind == 0
}

func (f FilterChoice) String() string {
	if f.None() {
		return "none"
	}

	return fmt.Sprintf("%s %gHz order=%d", f.Kind, f.CutoffHz, f.Order)
}

func (f FilterChoice) spec(rate int) iir.Spec {
	s := iir.NewSpec(f.Kind, f.CutoffHz, rate)
	s.Order = f.Order

	return s
}
