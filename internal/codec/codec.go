package codec

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
	"github.com/cwbudde/algo-audioscope/dsp/resample"
)

const (
	// DefaultTargetRate is the rate decoded audio is converted to.
	DefaultTargetRate = 16000
	// DefaultBitDepth is the PCM depth written by EncodeWAV.
	DefaultBitDepth = 16
)

var (
	// ErrDecode reports unknown, unsupported or corrupt input.
	ErrDecode = errors.New("codec: decode failed")
	// ErrEncode reports a failure to produce WAV output.
	ErrEncode = errors.New("codec: encode failed")
)

// Format identifies a container recognised by Detect.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatFLAC
	FormatMP3
	FormatM4A
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatFLAC:
		return "flac"
	case FormatMP3:
		return "mp3"
	case FormatM4A:
		return "m4a"
	default:
		return "unknown"
	}
}

// Info describes the source stream before down-mixing and resampling.
type Info struct {
	Format     string        `json:"format"`
	SampleRate int           `json:"sampleRate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bitDepth"`
	Frames     int           `json:"frames"`
	Duration   time.Duration `json:"duration"`
}

type config struct {
	targetRate int
	bitDepth   int
	quality    resample.Quality
}

// Option configures Decode and EncodeWAV.
type Option func(*config)

// WithTargetRate sets the output rate of Decode. Zero keeps the native rate.
func WithTargetRate(rate int) Option {
	return func(cfg *config) {
		cfg.targetRate = rate
	}
}

// WithBitDepth selects 16- or 24-bit output for EncodeWAV.
func WithBitDepth(bits int) Option {
	return func(cfg *config) {
		cfg.bitDepth = bits
	}
}

// WithResampleQuality selects the resampler profile used by Decode.
func WithResampleQuality(q resample.Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		targetRate: DefaultTargetRate,
		bitDepth:   DefaultBitDepth,
		quality:    resample.QualityBalanced,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Detect guesses the container of data from its magic bytes.
func Detect(data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return FormatM4A
	default:
		return FormatUnknown
	}
}

// pcm is an interleaved decode result scaled to [-1, 1].
type pcm struct {
	samples  []float64
	rate     int
	channels int
	bitDepth int
}

// Decode converts an encoded clip into a mono buffer at the target rate.
func Decode(data []byte, opts ...Option) (buffer.SampleBuffer, error) {
	buf, _, err := DecodeWithInfo(data, opts...)
	return buf, err
}

// DecodeWithInfo is Decode that also reports the source stream parameters.
func DecodeWithInfo(data []byte, opts ...Option) (buffer.SampleBuffer, Info, error) {
	cfg := newConfig(opts)
	if cfg.targetRate < 0 {
		return buffer.SampleBuffer{}, Info{}, fmt.Errorf("%w: negative target rate %d", ErrDecode, cfg.targetRate)
	}

	format := Detect(data)

	var (
		raw pcm
		err error
	)

	switch format {
	case FormatWAV:
		raw, err = decodeWAV(data)
	case FormatFLAC:
		raw, err = decodeFLAC(data)
	case FormatMP3:
		raw, err = decodeMP3(data)
	case FormatM4A:
		err = errors.New("m4a/aac is not supported")
	default:
		err = errors.New("unrecognised container")
	}

	if err != nil {
		return buffer.SampleBuffer{}, Info{}, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}

	info := Info{
		Format:     format.String(),
		SampleRate: raw.rate,
		Channels:   raw.channels,
		BitDepth:   raw.bitDepth,
	}

	mono, err := downmix(raw.samples, raw.channels)
	if err != nil {
		return buffer.SampleBuffer{}, info, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}

	info.Frames = len(mono)
	if raw.rate > 0 {
		info.Duration = time.Duration(float64(len(mono)) / float64(raw.rate) * float64(time.Second))
	}

	buf, err := buffer.FromOwned(mono, raw.rate)
	if err != nil {
		return buffer.SampleBuffer{}, info, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}

	if cfg.targetRate == 0 || cfg.targetRate == raw.rate {
		return buf, info, nil
	}

	out, err := resample.ConvertBuffer(buf, cfg.targetRate, resample.WithQuality(cfg.quality))
	if err != nil {
		return buffer.SampleBuffer{}, info, fmt.Errorf("%w: resample %d -> %d Hz: %w", ErrDecode, raw.rate, cfg.targetRate, err)
	}

	return out, info, nil
}

// downmix averages interleaved channels into one.
func downmix(interleaved []float64, channels int) ([]float64, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	frames := len(interleaved) / channels
	if frames == 0 {
		return nil, buffer.ErrEmpty
	}

	if channels == 1 {
		return interleaved[:frames], nil
	}

	out := make([]float64, frames)
	inv := 1 / float64(channels)

	for i := range out {
		sum := 0.0
		for _, v := range interleaved[i*channels : (i+1)*channels] {
			sum += v
		}

		out[i] = sum * inv
	}

	return out, nil
}

// scaleInt maps a signed integer sample of the given depth to [-1, 1).
func scaleInt(v int64, bits int) float64 {
	return float64(v) / float64(int64(1)<<(bits-1))
}
