package dsp

import (
	"math"
	"slices"
)

// HPSS separates a complex spectrogram into harmonic and percussive parts by
// median filtering the magnitude along time (harmonic) and along frequency
// (percussive), then applying power-2 soft masks to the complex input.
func HPSS(spec [][]complex128, kernel int) (harmonic, percussive [][]complex128) {
	mag := Magnitude(spec, 1)
	harm := medianAlongTime(mag, kernel)
	perc := medianAlongFreq(mag, kernel)

	harmonic = make([][]complex128, len(spec))
	percussive = make([][]complex128, len(spec))
	for t, frame := range spec {
		h := make([]complex128, len(frame))
		p := make([]complex128, len(frame))
		for k, c := range frame {
			mh, mp := softmask(harm[t][k], perc[t][k])
			h[k] = c * complex(mh, 0)
			p[k] = c * complex(mp, 0)
		}
		harmonic[t] = h
		percussive[t] = p
	}
	return harmonic, percussive
}

// softmask returns the power-2 Wiener masks for x against ref. Bins where both
// are zero get zero in both masks.
func softmask(x, ref float64) (float64, float64) {
	z := math.Max(x, ref)
	if z < tiny {
		return 0, 0
	}
	a := (x / z) * (x / z)
	b := (ref / z) * (ref / z)
	return a / (a + b), b / (a + b)
}

func medianAlongTime(mag [][]float64, kernel int) [][]float64 {
	frames := len(mag)
	out := make([][]float64, frames)
	if frames == 0 {
		return out
	}
	bins := len(mag[0])
	for t := range out {
		out[t] = make([]float64, bins)
	}

	half := kernel / 2
	window := make([]float64, kernel)
	for k := 0; k < bins; k++ {
		for t := 0; t < frames; t++ {
			for i := range window {
				window[i] = mag[reflect(t-half+i, frames)][k]
			}
			out[t][k] = median(window)
		}
	}
	return out
}

func medianAlongFreq(mag [][]float64, kernel int) [][]float64 {
	out := make([][]float64, len(mag))
	half := kernel / 2
	window := make([]float64, kernel)
	for t, row := range mag {
		bins := len(row)
		res := make([]float64, bins)
		for k := 0; k < bins; k++ {
			for i := range window {
				window[i] = row[reflect(k-half+i, bins)]
			}
			res[k] = median(window)
		}
		out[t] = res
	}
	return out
}

// reflect maps i into [0, n) with half-sample symmetric boundaries
// (d c b a | a b c d | d c b a).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// median sorts w in place and returns its middle element. len(w) is odd.
func median(w []float64) float64 {
	slices.Sort(w)
	return w[len(w)/2]
}
