// Package audio decodes MP3 and WAV clips into mono analysis waveforms.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var (
	ErrEmpty       = errors.New("audio: no samples decoded")
	ErrUnsupported = errors.New("audio: unsupported encoding")
)

// Waveform is a mono clip with samples in [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// LoadConfig bounds and normalises decoded audio.
type LoadConfig struct {
	Window     time.Duration // maximum clip length kept, 0 keeps everything
	SampleRate int           // analysis rate, 0 keeps the native rate
}

// DefaultLoadConfig keeps the first 10 seconds at 22050 Hz.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Window:     10 * time.Second,
		SampleRate: 22050,
	}
}

// Load opens and decodes the clip at path.
func Load(path string, cfg LoadConfig) (Waveform, error) {
	file, err := os.Open(path)
	if err != nil {
		return Waveform{}, err
	}
	defer file.Close()

	return Decode(file, cfg)
}

// Decode sniffs the container, decodes, downmixes to mono, truncates to the
// window and resamples to the analysis rate.
func Decode(r io.ReadSeeker, cfg LoadConfig) (Waveform, error) {
	header := make([]byte, 12)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return Waveform{}, ErrEmpty
		}
		return Waveform{}, err
	}
	header = header[:n]
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Waveform{}, err
	}

	limit := func(rate int) int {
		if cfg.Window <= 0 {
			return -1
		}
		return int(cfg.Window.Seconds() * float64(rate))
	}

	var w Waveform
	switch {
	case isWAV(header):
		w, err = decodeWAV(r, limit)
	case isMP3(header):
		w, err = decodeMP3(r, limit)
	default:
		return Waveform{}, ErrUnsupported
	}
	if err != nil {
		return Waveform{}, err
	}

	if len(w.Samples) == 0 {
		return Waveform{}, ErrEmpty
	}

	if cfg.SampleRate > 0 && cfg.SampleRate != w.SampleRate {
		resampled, err := Resample(w, cfg.SampleRate)
		if err != nil {
			return Waveform{}, fmt.Errorf("resample %d -> %d: %w", w.SampleRate, cfg.SampleRate, err)
		}
		return resampled, nil
	}

	return w, nil
}

func isWAV(h []byte) bool {
	return len(h) >= 12 && bytes.Equal(h[0:4], []byte("RIFF")) && bytes.Equal(h[8:12], []byte("WAVE"))
}

func isMP3(h []byte) bool {
	if len(h) >= 3 && bytes.Equal(h[0:3], []byte("ID3")) {
		return true
	}
	return len(h) >= 2 && h[0] == 0xFF && h[1]&0xE0 == 0xE0
}

// downmix averages interleaved channels into mono, keeping at most limit
// frames when limit >= 0.
func downmix(interleaved []float64, channels, limit int) []float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(interleaved) / channels
	if limit >= 0 && frames > limit {
		frames = limit
	}
	mono := make([]float64, frames)
	for i := range mono {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
