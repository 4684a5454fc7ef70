// Package dsp implements the short-time spectral routines used by the
// voice analysis front-end: STFT/ISTFT, harmonic/percussive separation,
// spectral centroid, mel cepstra and delta features.
//
// Spectra are stored frame-major: spec[t][k] is bin k of frame t.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// tiny is the smallest normal float32, used as the zero guard for window
// envelopes and normalisation.
const tiny = 1.1754944e-38

// Frame controls STFT framing.
type Frame struct {
	NFFT int // FFT size, must be even
	Hop  int // hop length in samples
}

// DefaultFrame returns the 2048/512 framing used for speech analysis.
func DefaultFrame() Frame {
	return Frame{NFFT: 2048, Hop: 512}
}

// Bins returns the number of non-negative frequency bins.
func (f Frame) Bins() int {
	return f.NFFT/2 + 1
}

// NumFrames returns the number of centred frames for n samples.
func (f Frame) NumFrames(n int) int {
	return 1 + n/f.Hop
}

// hann returns a periodic Hann window.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// STFT computes the centred short-time Fourier transform of y. The signal is
// zero padded by NFFT/2 on both sides.
func STFT(y []float64, f Frame) [][]complex128 {
	pad := f.NFFT / 2
	padded := make([]float64, len(y)+2*pad)
	copy(padded[pad:], y)

	fft := fourier.NewFFT(f.NFFT)
	win := hann(f.NFFT)
	buf := make([]float64, f.NFFT)

	frames := f.NumFrames(len(y))
	spec := make([][]complex128, frames)
	for t := range spec {
		start := t * f.Hop
		for i := range buf {
			buf[i] = padded[start+i] * win[i]
		}
		spec[t] = fft.Coefficients(nil, buf)
	}
	return spec
}

// ISTFT inverts a centred STFT by weighted overlap-add and returns exactly
// length samples.
func ISTFT(spec [][]complex128, f Frame, length int) []float64 {
	if len(spec) == 0 {
		return make([]float64, length)
	}

	fft := fourier.NewFFT(f.NFFT)
	win := hann(f.NFFT)
	scale := 1 / float64(f.NFFT)

	full := f.NFFT + f.Hop*(len(spec)-1)
	y := make([]float64, full)
	envelope := make([]float64, full)
	seq := make([]float64, f.NFFT)

	for t, coeffs := range spec {
		fft.Sequence(seq, coeffs)
		start := t * f.Hop
		for i, s := range seq {
			y[start+i] += s * scale * win[i]
			envelope[start+i] += win[i] * win[i]
		}
	}

	for i := range y {
		if envelope[i] > tiny {
			y[i] /= envelope[i]
		}
	}

	out := make([]float64, length)
	pad := f.NFFT / 2
	if pad < len(y) {
		copy(out, y[pad:])
	}
	return out
}

// Magnitude returns |spec| and optionally raises it to power.
func Magnitude(spec [][]complex128, power float64) [][]float64 {
	mag := make([][]float64, len(spec))
	for t, frame := range spec {
		row := make([]float64, len(frame))
		for k, c := range frame {
			a := math.Hypot(real(c), imag(c))
			if power != 1 {
				a = math.Pow(a, power)
			}
			row[k] = a
		}
		mag[t] = row
	}
	return mag
}
