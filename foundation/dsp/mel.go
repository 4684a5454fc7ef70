package dsp

import "math"

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSP        = 200.0 / 3
	melMinLogHz   = 1000.0
	melMinLogMel  = melMinLogHz / melFSP
	melLogStepDen = 27.0
)

var melLogStep = math.Log(6.4) / melLogStepDen

// HzToMel converts a frequency to the Slaney mel scale.
func HzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSP
}

// MelToHz is the inverse of HzToMel.
func MelToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return mel * melFSP
}

// MelFilterBank builds a Slaney-normalised triangular filterbank spanning
// [0, sampleRate/2]. Returns [numMels][f.Bins()].
func MelFilterBank(numMels, sampleRate int, f Frame) [][]float64 {
	bins := f.Bins()
	fftFreqs := make([]float64, bins)
	for k := range fftFreqs {
		fftFreqs[k] = float64(k) * float64(sampleRate) / float64(f.NFFT)
	}

	lo := HzToMel(0)
	hi := HzToMel(float64(sampleRate) / 2)
	melF := make([]float64, numMels+2)
	for i := range melF {
		melF[i] = MelToHz(lo + (hi-lo)*float64(i)/float64(numMels+1))
	}

	bank := make([][]float64, numMels)
	for m := range bank {
		lower, center, upper := melF[m], melF[m+1], melF[m+2]
		enorm := 2.0 / (upper - lower)
		row := make([]float64, bins)
		for k, hz := range fftFreqs {
			rise := (hz - lower) / (center - lower)
			fall := (upper - hz) / (upper - center)
			w := math.Max(0, math.Min(rise, fall))
			row[k] = w * enorm
		}
		bank[m] = row
	}
	return bank
}
