package iir

import (
	"fmt"
	"math"
	"strings"
)

// DefaultOrder is the Butterworth order used when none is configured.
const DefaultOrder = 4

// Kind selects the filter response.
type Kind int

const (
	// LowPass passes frequencies below the cutoff.
	LowPass Kind = iota + 1
	// HighPass passes frequencies above the cutoff.
	HighPass
)

// String returns the canonical name of k.
func (k Kind) String() string {
	switch k {
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the usual spellings of low-pass and high-pass
// ("low", "lowpass", "low-pass", "lp", ...), case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "lowpass", "low-pass", "low_pass", "lp", "lpf":
		return LowPass, nil
	case "high", "highpass", "high-pass", "high_pass", "hp", "hpf":
		return HighPass, nil
	default:
		return 0, fmt.Errorf("%w: unknown filter kind %q", ErrInvalidSpec, s)
	}
}

// Spec describes a Butterworth filter to design.
type Spec struct {
	Order        int
	Kind         Kind
	CutoffHz     float64
	SampleRateHz int
}

// NewSpec returns a Spec of DefaultOrder.
func NewSpec(kind Kind, cutoffHz float64, sampleRateHz int) Spec {
	return Spec{
		Order:        DefaultOrder,
		Kind:         kind,
		CutoffHz:     cutoffHz,
		SampleRateHz: sampleRateHz,
	}
}

// Nyquist returns half the sample rate in Hz.
func (s Spec) Nyquist() float64 {
	return float64(s.SampleRateHz) / 2
}

// NormalizedCutoff returns the cutoff as a fraction of Nyquist.
func (s Spec) NormalizedCutoff() float64 {
	return s.CutoffHz / s.Nyquist()
}

// Validate reports whether s can be designed. Failures wrap ErrInvalidSpec.
// Out-of-range values are rejected, never clamped.
func (s Spec) Validate() error {
	if s.Order < 1 {
		return fmt.Errorf("%w: order must be >= 1: %d", ErrInvalidSpec, s.Order)
	}

	if s.Kind != LowPass && s.Kind != HighPass {
		return fmt.Errorf("%w: unknown filter kind %v", ErrInvalidSpec, s.Kind)
	}

	if s.SampleRateHz <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", ErrInvalidSpec, s.SampleRateHz)
	}

	nyquist := s.Nyquist()
	if math.IsNaN(s.CutoffHz) || s.CutoffHz <= 0 || s.CutoffHz >= nyquist {
		return fmt.Errorf("%w: cutoff %g Hz must be in (0, %g) Hz", ErrInvalidSpec, s.CutoffHz, nyquist)
	}

	return nil
}

// String formats s for logs.
func (s Spec) String() string {
	return fmt.Sprintf("%s order=%d cutoff=%gHz rate=%dHz", s.Kind, s.Order, s.CutoffHz, s.SampleRateHz)
}
