package dsp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrShortTrajectory is returned by Delta when there are fewer frames than
// the filter width.
var ErrShortTrajectory = errors.New("trajectory shorter than delta window")

// MelSpectrogram applies a filterbank to a power spectrogram.
// Returns [frames][numMels].
func MelSpectrogram(power [][]float64, bank [][]float64) [][]float64 {
	out := make([][]float64, len(power))
	for t, frame := range power {
		row := make([]float64, len(bank))
		for m, filter := range bank {
			row[m] = floats.Dot(filter, frame)
		}
		out[t] = row
	}
	return out
}

// PowerToDB converts a power spectrogram to decibels relative to 1.0,
// flooring at amin and clipping to topDB below the global peak.
func PowerToDB(s [][]float64, amin, topDB float64) [][]float64 {
	out := make([][]float64, len(s))
	peak := math.Inf(-1)
	for t, row := range s {
		db := make([]float64, len(row))
		for i, v := range row {
			db[i] = 10 * math.Log10(math.Max(amin, v))
		}
		if len(db) > 0 {
			peak = math.Max(peak, floats.Max(db))
		}
		out[t] = db
	}
	floor := peak - topDB
	for _, row := range out {
		for i, v := range row {
			if v < floor {
				row[i] = floor
			}
		}
	}
	return out
}

// DCT returns the first n coefficients of the orthonormal DCT-II of x.
func DCT(x []float64, n int) []float64 {
	size := float64(len(x))
	out := make([]float64, n)
	for k := range out {
		var sum float64
		for i, v := range x {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*size))
		}
		if k == 0 {
			out[k] = sum * math.Sqrt(1/size)
		} else {
			out[k] = sum * math.Sqrt(2/size)
		}
	}
	return out
}

// Cepstrum holds one trajectory per coefficient: c[i][t].
type Cepstrum [][]float64

// MFCC computes numCoeffs mel-frequency cepstral coefficients from a power
// spectrogram. The result is coefficient-major.
func MFCC(power [][]float64, bank [][]float64, numCoeffs int) Cepstrum {
	db := PowerToDB(MelSpectrogram(power, bank), 1e-10, 80)

	c := make(Cepstrum, numCoeffs)
	for i := range c {
		c[i] = make([]float64, len(db))
	}
	for t, row := range db {
		for i, v := range DCT(row, numCoeffs) {
			c[i][t] = v
		}
	}
	return c
}

// Delta computes the first-order derivative of each trajectory with a
// Savitzky-Golay filter of the given odd width and polynomial order 1.
// Edge frames take the slope of the linear fit over the first or last window.
func Delta(c Cepstrum, width int) (Cepstrum, error) {
	if width < 3 || width%2 == 0 {
		return nil, fmt.Errorf("delta width must be odd and >= 3, got %d", width)
	}

	half := width / 2
	var norm float64
	for k := -half; k <= half; k++ {
		norm += float64(k * k)
	}

	out := make(Cepstrum, len(c))
	for i, traj := range c {
		n := len(traj)
		if n < width {
			return nil, fmt.Errorf("%w: %d frames, width %d", ErrShortTrajectory, n, width)
		}

		slope := func(center int) float64 {
			var s float64
			for k := -half; k <= half; k++ {
				s += float64(k) * traj[center+k]
			}
			return s / norm
		}

		d := make([]float64, n)
		for t := range d {
			center := min(max(t, half), n-1-half)
			d[t] = slope(center)
		}
		out[i] = d
	}
	return out, nil
}

// MeanAbs returns the mean absolute value over all trajectories.
func (c Cepstrum) MeanAbs() float64 {
	var sum float64
	var count int
	for _, traj := range c {
		for _, v := range traj {
			sum += math.Abs(v)
		}
		count += len(traj)
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
