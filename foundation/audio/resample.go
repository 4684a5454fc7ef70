package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts w to the given rate. The output always holds
// ceil(len(w.Samples) * rate / w.SampleRate) samples: the filter tail is
// flushed and the result is trimmed or zero padded to that length.
func Resample(w Waveform, rate int) (Waveform, error) {
	if rate <= 0 {
		return Waveform{}, fmt.Errorf("invalid target rate %d", rate)
	}
	if w.SampleRate == rate {
		return w, nil
	}
	if w.SampleRate <= 0 {
		return Waveform{}, fmt.Errorf("invalid source rate %d", w.SampleRate)
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(w.SampleRate),
		OutputRate: float64(rate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return Waveform{}, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := r.Process(w.Samples)
	if err != nil {
		return Waveform{}, fmt.Errorf("resample error: %w", err)
	}

	tail, err := r.Flush()
	if err != nil {
		return Waveform{}, fmt.Errorf("resample flush: %w", err)
	}
	out = append(out, tail...)

	return Waveform{Samples: fixLength(out, resampledLength(len(w.Samples), w.SampleRate, rate)), SampleRate: rate}, nil
}

func resampledLength(n, from, to int) int {
	return int(math.Ceil(float64(n) * float64(to) / float64(from)))
}

func fixLength(s []float64, n int) []float64 {
	if len(s) >= n {
		return s[:n]
	}
	return append(s, make([]float64, n-len(s))...)
}
