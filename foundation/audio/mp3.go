package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always emits 16-bit little-endian stereo.
const (
	mp3Channels    = 2
	mp3SampleBytes = 2
)

func decodeMP3(r io.Reader, limit func(rate int) int) (Waveform, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return Waveform{}, fmt.Errorf("mp3: %w", err)
	}

	rate := d.SampleRate()
	if rate <= 0 {
		return Waveform{}, fmt.Errorf("mp3: invalid sample rate %d", rate)
	}

	frames := limit(rate)
	want := -1
	if frames >= 0 {
		want = frames * mp3Channels * mp3SampleBytes
	}

	var pcm []byte
	buf := make([]byte, 8192)
	for want < 0 || len(pcm) < want {
		n, err := d.Read(buf)
		pcm = append(pcm, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Waveform{}, fmt.Errorf("mp3: read: %w", err)
		}
	}

	interleaved := make([]float64, len(pcm)/mp3SampleBytes)
	for i := range interleaved {
		s := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		interleaved[i] = float64(s) / 32768.0
	}

	return Waveform{
		Samples:    downmix(interleaved, mp3Channels, frames),
		SampleRate: rate,
	}, nil
}
