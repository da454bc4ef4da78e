package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-audioscope/internal/testutil"
)

// extensibleWAV builds a mono WAVE_FORMAT_EXTENSIBLE file whose SubFormat
// GUID carries the given format tag.
func extensibleWAV(t *testing.T, subFormat uint16, rate, bits int, payload []byte) []byte {
	t.Helper()

	le := binary.LittleEndian
	blockAlign := bits / 8

	var fmtChunk bytes.Buffer

	for _, v := range []any{
		uint16(wavFormatExtensible),
		uint16(1),
		uint32(rate),
		uint32(rate * blockAlign),
		uint16(blockAlign),
		uint16(bits),
		uint16(22),   // cbSize
		uint16(bits), // valid bits
		uint32(4),    // front centre
		subFormat,
	} {
		if err := binary.Write(&fmtChunk, le, v); err != nil {
			t.Fatalf("fmt chunk: %v", err)
		}
	}

	fmtChunk.Write(wavSubGUID)

	var out bytes.Buffer

	out.WriteString("RIFF")
	_ = binary.Write(&out, le, uint32(4+8+fmtChunk.Len()+8+len(payload)))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	_ = binary.Write(&out, le, uint32(fmtChunk.Len()))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	_ = binary.Write(&out, le, uint32(len(payload)))
	out.Write(payload)

	return out.Bytes()
}

func TestWAVExtensibleFloatRejected(t *testing.T) {
	const (
		rate   = 16000
		frames = 1600
	)

	var payload bytes.Buffer

	for _, v := range testutil.DeterministicSine(440, rate, 0.5, frames) {
		_ = binary.Write(&payload, binary.LittleEndian, math.Float32bits(float32(v)))
	}

	data := extensibleWAV(t, 3, rate, 32, payload.Bytes())
	if len(data) != 68+4*frames {
		t.Fatalf("file is %d bytes, want %d", len(data), 68+4*frames)
	}

	if _, err := Decode(data); !errors.Is(err, ErrDecode) {
		t.Fatalf("err=%v, want ErrDecode", err)
	}
}

func TestWAVExtensiblePCM(t *testing.T) {
	const frames = 64

	var payload bytes.Buffer

	for i := 0; i < frames; i++ {
		_ = binary.Write(&payload, binary.LittleEndian, int16(8192))
	}

	got, info, err := DecodeWithInfo(extensibleWAV(t, wavFormatPCM, 16000, 16, payload.Bytes()), WithTargetRate(0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if info.Channels != 1 || info.BitDepth != 16 || info.SampleRate != 16000 || info.Frames != frames {
		t.Fatalf("info=%+v", info)
	}

	for i := 0; i < got.Len(); i++ {
		if math.Abs(got.At(i)-0.25) > 1e-12 {
			t.Fatalf("sample %d = %g, want 0.25", i, got.At(i))
		}
	}
}

func TestWAVSubFormat(t *testing.T) {
	valid := extensibleWAV(t, 3, 16000, 32, make([]byte, 8))

	sub, err := wavSubFormat(valid)
	if err != nil || sub != 3 {
		t.Fatalf("wavSubFormat=%d, %v; want 3", sub, err)
	}

	short := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint16(short[36:38], 0) // cbSize

	if _, err := wavSubFormat(short); err == nil {
		t.Fatal("expected error for cbSize 0")
	}

	foreign := append([]byte(nil), valid...)
	foreign[59] ^= 0xFF // last GUID byte

	if _, err := wavSubFormat(foreign); err == nil {
		t.Fatal("expected error for foreign GUID")
	}

	if _, err := wavSubFormat(valid[:30]); err == nil {
		t.Fatal("expected error for truncated fmt chunk")
	}
}
