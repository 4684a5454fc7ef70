package audio

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

func decodeWAV(r io.ReadSeeker, limit func(rate int) int) (Waveform, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Waveform{}, fmt.Errorf("wav: %w", ErrUnsupported)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("wav: %w", err)
	}

	rate := int(d.SampleRate)
	channels := int(d.NumChans)
	bits := int(d.BitDepth)
	if rate <= 0 || channels <= 0 {
		return Waveform{}, fmt.Errorf("wav: invalid format rate=%d channels=%d", rate, channels)
	}

	var scale, offset float64
	switch bits {
	case 8:
		scale, offset = 128, 128
	case 16, 24, 32:
		scale = float64(int64(1) << (bits - 1))
	default:
		return Waveform{}, fmt.Errorf("wav: %d-bit samples: %w", bits, ErrUnsupported)
	}

	interleaved := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		interleaved[i] = (float64(v) - offset) / scale
	}

	return Waveform{
		Samples:    downmix(interleaved, channels, limit(rate)),
		SampleRate: rate,
	}, nil
}
