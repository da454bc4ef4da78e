package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeFlatTop
)

// Metadata holds spectral properties of a window type.
type Metadata struct {
	Name            string
	ENBW            float64
	HighestSidelobe float64
	CoherentGain    float64
}

// shape is a window's metadata plus its cosine-sum terms; the zeroth term
// is the coherent gain.
type shape struct {
	Metadata
	terms []float64
}

var shapes = [...]shape{
	TypeRectangular:         {Metadata{"Rectangular", 1, -13.3, 1}, []float64{1}},
	TypeHann:                {Metadata{"Hann", 1.5, -31.5, 0.5}, []float64{0.5, -0.5}},
	TypeHamming:             {Metadata{"Hamming", 1.36, -42.7, 0.54}, []float64{0.54, -0.46}},
	TypeBlackman:            {Metadata{"Blackman", 1.73, -58.1, 0.42}, []float64{0.42, -0.5, 0.08}},
	TypeBlackmanHarris4Term: {Metadata{"Blackman-Harris", 2.0, -92, 0.35875}, []float64{0.35875, -0.48829, 0.14128, -0.01168}},
	TypeFlatTop: {
		Metadata{"Flat Top", 3.77, -93, 0.21557895},
		[]float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
	},
}

// Valid reports whether t names a known window.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(shapes)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// ParseType resolves a window name such as "hann" or "flattop".
func ParseType(name string) (Type, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	switch key {
	case "rect", "rectangular", "none", "boxcar":
		return TypeRectangular, nil
	case "hann", "hanning":
		return TypeHann, nil
	case "hamming":
		return TypeHamming, nil
	case "blackman":
		return TypeBlackman, nil
	case "blackmanharris":
		return TypeBlackmanHarris4Term, nil
	case "flattop":
		return TypeFlatTop, nil
	default:
		return 0, fmt.Errorf("window: unknown type %q", name)
	}
}

// String returns the display name of t.
func (t Type) String() string {
	if t.Valid() {
		return shapes[t].Name
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	terms := []float64{1}
	if t.Valid() {
		terms = shapes[t].terms
	}

	// Symmetric windows reach the far edge at length-1; periodic ones stop
	// one sample short of it.
	span := float64(max(length-1, 1))
	if cfg.periodic {
		span = float64(length)
	}

	out := make([]float64, length)
	for i := range out {
		phase := 2 * math.Pi * float64(i) / span
		for k, c := range terms {
			out[i] += c * math.Cos(float64(k)*phase)
		}
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Info returns static metadata for a window type; the zero Metadata for
// unknown types.
func Info(t Type) Metadata {
	if !t.Valid() {
		return Metadata{}
	}

	return shapes[t].Metadata
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	return Generate(TypeHann, size, opts...), nil
}

// CoherentGain returns the mean of coeffs, the amplitude scale a window
// applies to a bin-centred tone.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength(len(samples), len(coeffs))
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}
