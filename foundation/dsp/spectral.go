package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SpectralCentroid returns the amplitude-weighted mean frequency of each
// magnitude frame. Frames without energy yield 0.
func SpectralCentroid(mag [][]float64, sampleRate int, f Frame) []float64 {
	out := make([]float64, len(mag))
	binHz := float64(sampleRate) / float64(f.NFFT)
	for t, frame := range mag {
		total := floats.Sum(frame)
		if total < tiny {
			continue
		}
		var weighted float64
		for k, a := range frame {
			weighted += float64(k) * binHz * a
		}
		out[t] = weighted / total
	}
	return out
}

// MeanAbs returns mean(|x|), or 0 for an empty slice.
func MeanAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	abs := make([]float64, len(x))
	for i, v := range x {
		abs[i] = math.Abs(v)
	}
	return stat.Mean(abs, nil)
}

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}
