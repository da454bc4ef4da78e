package codec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// mp3Channels is fixed; the decoder always emits interleaved stereo.
const mp3Channels = 2

func decodeMP3(data []byte) (pcm, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return pcm{}, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, err
	}

	out := make([]float64, len(raw)/2)
	for i := range out {
		out[i] = scaleInt(int64(int16(binary.LittleEndian.Uint16(raw[2*i:]))), 16)
	}

	return pcm{
		samples:  out,
		rate:     dec.SampleRate(),
		channels: mp3Channels,
		bitDepth: 16,
	}, nil
}
