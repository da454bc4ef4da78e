package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

func decodeFLAC(data []byte) (pcm, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return pcm{}, err
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bits := int(stream.Info.BitsPerSample)

	if channels < 1 {
		return pcm{}, fmt.Errorf("invalid channel count %d", channels)
	}

	if bits < 4 || bits > 32 {
		return pcm{}, fmt.Errorf("unsupported bit depth %d", bits)
	}

	// NSamples is untrusted; cap the up-front allocation by the input size.
	capacity := stream.Info.NSamples * uint64(channels)
	if limit := uint64(len(data)); capacity > limit {
		capacity = limit
	}

	out := make([]float64, 0, int(capacity))

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return pcm{}, err
		}

		if len(frame.Subframes) < channels {
			return pcm{}, fmt.Errorf("frame has %d subframes, want %d", len(frame.Subframes), channels)
		}

		n := int(frame.BlockSize)
		for ch := 0; ch < channels; ch++ {
			if len(frame.Subframes[ch].Samples) < n {
				return pcm{}, fmt.Errorf("subframe %d has %d samples, want %d", ch, len(frame.Subframes[ch].Samples), n)
			}
		}

		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				out = append(out, scaleInt(int64(frame.Subframes[ch].Samples[i]), bits))
			}
		}
	}

	return pcm{
		samples:  out,
		rate:     int(stream.Info.SampleRate),
		channels: channels,
		bitDepth: bits,
	}, nil
}
