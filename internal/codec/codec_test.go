package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
	"github.com/cwbudde/algo-audioscope/internal/testutil"
)

func encodeRaw(t *testing.T, data []int, rate, bits, channels int) []byte {
	t.Helper()

	var ws memWriteSeeker

	enc := wav.NewEncoder(&ws, rate, bits, channels, wavFormatPCM)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bits,
	}

	if err := enc.Write(ib); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	return ws.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), FormatWAV},
		{"riff not wave", []byte("RIFF\x00\x00\x00\x00AVI LIST"), FormatUnknown},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), FormatFLAC},
		{"id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), FormatMP3},
		{"frame sync", []byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3},
		{"m4a", []byte("\x00\x00\x00\x20ftypM4A "), FormatM4A},
		{"text", []byte("hello world"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Fatalf("Detect=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestWAVRoundTrip(t *testing.T) {
	for _, bits := range []int{16, 24} {
		src := testutil.MustBuffer(t, testutil.DeterministicSine(440, 16000, 0.5, 1600), 16000)

		data, err := EncodeWAV(src, WithBitDepth(bits))
		if err != nil {
			t.Fatalf("bits=%d: encode: %v", bits, err)
		}

		got, info, err := DecodeWithInfo(data)
		if err != nil {
			t.Fatalf("bits=%d: decode: %v", bits, err)
		}

		if info.Format != "wav" || info.Channels != 1 || info.BitDepth != bits || info.SampleRate != 16000 {
			t.Fatalf("bits=%d: info=%+v", bits, info)
		}

		if info.Frames != 1600 || info.Duration.Milliseconds() != 100 {
			t.Fatalf("bits=%d: frames=%d duration=%v", bits, info.Frames, info.Duration)
		}

		tol := 1.5 / float64(int64(1)<<(bits-1))
		testutil.RequireBuffersNearlyEqual(t, got, src, tol)
	}
}

func TestDecodeStereoDownmix(t *testing.T) {
	const frames = 64

	data := make([]int, 2*frames)
	for i := 0; i < frames; i++ {
		data[2*i] = 16384
		data[2*i+1] = -8192
	}

	got, info, err := DecodeWithInfo(encodeRaw(t, data, 16000, 16, 2))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if info.Channels != 2 {
		t.Fatalf("channels=%d, want 2", info.Channels)
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

func TestDecodeResamplesToTargetRate(t *testing.T) {
	src := testutil.MustBuffer(t, testutil.DeterministicSine(100, 8000, 0.5, 8000), 8000)

	data, err := EncodeWAV(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.SampleRate() != DefaultTargetRate {
		t.Fatalf("rate=%d, want %d", got.SampleRate(), DefaultTargetRate)
	}

	if got.Len() != 16000 {
		t.Fatalf("len=%d, want 16000", got.Len())
	}

	native, err := Decode(data, WithTargetRate(0))
	if err != nil {
		t.Fatalf("decode native: %v", err)
	}

	if native.SampleRate() != 8000 || native.Len() != 8000 {
		t.Fatalf("native rate=%d len=%d", native.SampleRate(), native.Len())
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	valid, err := EncodeWAV(testutil.MustBuffer(t, testutil.Ones(32), 16000))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not audio")},
		{"m4a", []byte("\x00\x00\x00\x20ftypM4A \x00\x00\x00\x00")},
		{"truncated wav", valid[:20]},
		{"corrupt flac", []byte("fLaC\xff\xff\xff\xff\x00\x01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrDecode) {
				t.Fatalf("err=%v, want ErrDecode", err)
			}
		})
	}

	if _, err := Decode(valid, WithTargetRate(-1)); !errors.Is(err, ErrDecode) {
		t.Fatalf("negative target rate: err=%v, want ErrDecode", err)
	}
}

func TestEncodeWAVClips(t *testing.T) {
	src := testutil.MustBuffer(t, []float64{2, -3, 0.5}, 16000)

	data, err := EncodeWAV(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(data, WithTargetRate(0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []float64{32767.0 / 32768, -32767.0 / 32768, 16384.0 / 32768}
	testutil.RequireSliceNearlyEqual(t, got.Samples(), want, 1e-12)
}

func TestEncodeWAVErrors(t *testing.T) {
	src := testutil.MustBuffer(t, testutil.Ones(8), 16000)

	if _, err := EncodeWAV(src, WithBitDepth(12)); !errors.Is(err, ErrEncode) {
		t.Fatalf("bit depth 12: err=%v, want ErrEncode", err)
	}

	if _, err := EncodeWAV(buffer.SampleBuffer{}); !errors.Is(err, ErrEncode) {
		t.Fatalf("zero buffer: err=%v, want ErrEncode", err)
	}
}

func TestMemWriteSeekerPatches(t *testing.T) {
	var ws memWriteSeeker

	if _, err := ws.Write([]byte("abcdef")); err != nil {
		t.Fatal(err)
	}

	if _, err := ws.Seek(2, 0); err != nil {
		t.Fatal(err)
	}

	if _, err := ws.Write([]byte("XY")); err != nil {
		t.Fatal(err)
	}

	if _, err := ws.Seek(0, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := ws.Write([]byte("g")); err != nil {
		t.Fatal(err)
	}

	if got := string(ws.Bytes()); got != "abXYefg" {
		t.Fatalf("bytes=%q, want %q", got, "abXYefg")
	}

	if _, err := ws.Seek(-1, 0); err == nil {
		t.Fatal("expected error for negative seek")
	}
}
