package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/cwbudde/algo-audioscope/dsp/spectrum"
	"github.com/cwbudde/algo-audioscope/internal/testutil"
)

// encodeFLAC writes a 16-bit stream with one subframe per channel slice,
// split into frames of at most blockSize samples.
func encodeFLAC(t *testing.T, channels [][]int32, rate, blockSize int) []byte {
	t.Helper()

	assignment := frame.ChannelsMono
	if len(channels) == 2 {
		assignment = frame.ChannelsLR
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(blockSize),
		BlockSizeMax:  uint16(blockSize),
		SampleRate:    uint32(rate),
		NChannels:     uint8(len(channels)),
		BitsPerSample: 16,
	}

	var ws memWriteSeeker

	enc, err := flac.NewEncoder(&ws, info)
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}

	total := len(channels[0])
	for offset := 0; offset < total; offset += blockSize {
		n := min(blockSize, total-offset)

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(rate),
				Channels:          assignment,
				BitsPerSample:     16,
			},
			Subframes: make([]*frame.Subframe, len(channels)),
		}

		for ch, samples := range channels {
			f.Subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   append([]int32(nil), samples[offset:offset+n]...),
				NSamples:  n,
			}
		}

		if err := enc.WriteFrame(f); err != nil {
			t.Fatalf("write frame at %d: %v", offset, err)
		}
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	return ws.Bytes()
}

func TestFLACRoundTrip(t *testing.T) {
	const (
		rate   = 16000
		frames = 1600
	)

	// 400 Hz over 1600 samples is a whole number of cycles.
	tone := testutil.DeterministicSine(400, rate, 0.5, frames)

	left := make([]int32, frames)
	right := make([]int32, frames)

	for i, v := range tone {
		left[i] = int32(math.Round(v * 32767))
		right[i] = left[i]
	}

	data := encodeFLAC(t, [][]int32{left, right}, rate, 1024)

	got, info, err := DecodeWithInfo(data, WithTargetRate(0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if info.Format != "flac" || info.SampleRate != rate || info.Channels != 2 || info.BitDepth != 16 {
		t.Fatalf("info=%+v", info)
	}

	if info.Frames != frames || got.Len() != frames {
		t.Fatalf("frames=%d len=%d, want %d", info.Frames, got.Len(), frames)
	}

	for i := 0; i < frames; i++ {
		if want := float64(left[i]) / 32768; math.Abs(got.At(i)-want) > 1e-12 {
			t.Fatalf("sample %d = %g, want %g", i, got.At(i), want)
		}
	}

	amp, err := spectrum.ToneAmplitude(got.Samples(), 400, rate)
	if err != nil {
		t.Fatalf("tone amplitude: %v", err)
	}

	if math.Abs(amp-0.5) > 1e-3 {
		t.Fatalf("tone amplitude=%g, want 0.5", amp)
	}
}

func TestFLACDownmixesChannels(t *testing.T) {
	const frames = 64

	left := make([]int32, frames)
	right := make([]int32, frames)

	for i := range left {
		left[i] = 16384
		right[i] = -8192
	}

	got, err := Decode(encodeFLAC(t, [][]int32{left, right}, 16000, 32), WithTargetRate(0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Len() != frames {
		t.Fatalf("len=%d, want %d", got.Len(), frames)
	}

	for i := 0; i < got.Len(); i++ {
		if math.Abs(got.At(i)-0.125) > 1e-12 {
			t.Fatalf("sample %d = %g, want 0.125", i, got.At(i))
		}
	}
}

func TestFLACHugeDeclaredLength(t *testing.T) {
	var data bytes.Buffer

	data.WriteString("fLaC")
	// Last metadata block, STREAMINFO, 34 bytes.
	data.Write([]byte{0x80, 0x00, 0x00, 0x22})
	// Block sizes 4096/4096, unknown frame sizes.
	data.Write([]byte{0x10, 0x00, 0x10, 0x00, 0, 0, 0, 0, 0, 0})
	// 44100 Hz, stereo, 16 bits, 2^36-1 samples.
	data.Write([]byte{0x0a, 0xc4, 0x42, 0xff, 0xff, 0xff, 0xff, 0xff})
	data.Write(make([]byte, 16))

	if data.Len() != 42 {
		t.Fatalf("header is %d bytes, want 42", data.Len())
	}

	if _, err := Decode(data.Bytes()); !errors.Is(err, ErrDecode) {
		t.Fatalf("err=%v, want ErrDecode", err)
	}
}
