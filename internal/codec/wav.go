package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-audioscope/dsp/buffer"
	"github.com/cwbudde/algo-audioscope/dsp/signal"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

func decodeWAV(data []byte) (pcm, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return pcm{}, err
		}

		return pcm{}, errors.New("invalid wav header")
	}

	switch dec.WavAudioFormat {
	case wavFormatPCM:
	case wavFormatExtensible:
		sub, err := wavSubFormat(data)
		if err != nil {
			return pcm{}, err
		}

		if sub != wavFormatPCM {
			return pcm{}, fmt.Errorf("unsupported wav extensible sub-format %d", sub)
		}
	default:
		return pcm{}, fmt.Errorf("unsupported wav audio format %d", dec.WavAudioFormat)
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, err
	}

	bits := int(dec.BitDepth)
	if bits < 8 || bits > 32 {
		return pcm{}, fmt.Errorf("unsupported bit depth %d", bits)
	}

	out := make([]float64, len(ib.Data))
	for i, v := range ib.Data {
		if bits == 8 {
			// 8-bit WAV is unsigned.
			v -= 128
		}

		out[i] = scaleInt(int64(v), bits)
	}

	return pcm{
		samples:  out,
		rate:     int(dec.SampleRate),
		channels: int(dec.NumChans),
		bitDepth: bits,
	}, nil
}

// wavExtensibleSize is the fmt chunk length up to the end of SubFormat.
const wavExtensibleSize = 40

// wavSubGUID is the fixed tail of every KSDATAFORMAT_SUBTYPE GUID; the
// leading two bytes carry the plain format tag.
var wavSubGUID = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// wavSubFormat returns the format tag held in the SubFormat GUID of a
// WAVE_FORMAT_EXTENSIBLE fmt chunk. The wav decoder skips these bytes.
func wavSubFormat(data []byte) (uint16, error) {
	parser := riff.New(bytes.NewReader(data))
	if err := parser.ParseHeaders(); err != nil {
		return 0, err
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk: %w", err)
		}

		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		if chunk.Size < wavExtensibleSize {
			return 0, fmt.Errorf("extensible fmt chunk is %d bytes, want %d", chunk.Size, wavExtensibleSize)
		}

		body := make([]byte, wavExtensibleSize)
		if _, err := io.ReadFull(chunk, body); err != nil {
			return 0, fmt.Errorf("fmt chunk: %w", err)
		}

		if cb := binary.LittleEndian.Uint16(body[16:18]); cb < 22 {
			return 0, fmt.Errorf("extensible cbSize %d, want >= 22", cb)
		}

		if !bytes.Equal(body[26:], wavSubGUID) {
			return 0, errors.New("unrecognised extensible sub-format GUID")
		}

		return binary.LittleEndian.Uint16(body[24:26]), nil
	}
}

// EncodeWAV renders buf as a mono PCM WAV file.
func EncodeWAV(buf buffer.SampleBuffer, opts ...Option) ([]byte, error) {
	var ws memWriteSeeker
	if err := WriteWAV(&ws, buf, opts...); err != nil {
		return nil, err
	}

	return ws.Bytes(), nil
}

// WriteWAV streams buf as a mono PCM WAV file to w. Samples outside
// [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, buf buffer.SampleBuffer, opts ...Option) error {
	cfg := newConfig(opts)
	if cfg.bitDepth != 16 && cfg.bitDepth != 24 {
		return fmt.Errorf("%w: unsupported bit depth %d", ErrEncode, cfg.bitDepth)
	}

	if buf.IsZero() {
		return fmt.Errorf("%w: %w", ErrEncode, buffer.ErrEmpty)
	}

	clipped, err := signal.Clip(buf.Samples(), -1, 1)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	full := float64(int64(1)<<(cfg.bitDepth-1) - 1)
	ints := make([]int, len(clipped))

	for i, v := range clipped {
		ints[i] = int(math.Round(v * full))
	}

	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.SampleRate()},
		Data:           ints,
		SourceBitDepth: cfg.bitDepth,
	}

	enc := wav.NewEncoder(w, buf.SampleRate(), cfg.bitDepth, 1, wavFormatPCM)
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return nil
}

// memWriteSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks
// back to patch chunk sizes on Close.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}

	copy(m.buf[m.pos:], p)
	m.pos = end

	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}

	next := base + offset
	if next < 0 {
		return 0, errors.New("negative seek position")
	}

	m.pos = int(next)

	return next, nil
}

func (m *memWriteSeeker) Bytes() []byte {
	return m.buf
}
