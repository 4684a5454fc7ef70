package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfeelapi/goVeritas/foundation/dsp"
)

const sampleRate = 22050

func sine(freq float64, n int) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return y
}

func TestSTFTShape(t *testing.T) {
	f := dsp.DefaultFrame()
	spec := dsp.STFT(make([]float64, 10000), f)

	require.Len(t, spec, 1+10000/512)
	for _, frame := range spec {
		assert.Len(t, frame, 1025)
	}
}

func TestISTFTRoundTrip(t *testing.T) {
	f := dsp.DefaultFrame()
	y := sine(440, 8000)

	got := dsp.ISTFT(dsp.STFT(y, f), f, len(y))

	require.Len(t, got, len(y))
	for i := range y {
		require.InDelta(t, y[i], got[i], 1e-6, "sample %d", i)
	}
}

func TestSpectralCentroidTracksTone(t *testing.T) {
	f := dsp.DefaultFrame()

	low := dsp.Mean(dsp.SpectralCentroid(dsp.Magnitude(dsp.STFT(sine(300, sampleRate), f), 1), sampleRate, f))
	high := dsp.Mean(dsp.SpectralCentroid(dsp.Magnitude(dsp.STFT(sine(4000, sampleRate), f), 1), sampleRate, f))

	assert.InDelta(t, 300, low, 60)
	assert.InDelta(t, 4000, high, 200)
}

func TestSpectralCentroidSilence(t *testing.T) {
	f := dsp.DefaultFrame()
	c := dsp.SpectralCentroid(dsp.Magnitude(dsp.STFT(make([]float64, 4096), f), 1), sampleRate, f)

	for _, v := range c {
		assert.Zero(t, v)
	}
}

func TestHPSSMasksSumToInput(t *testing.T) {
	f := dsp.DefaultFrame()
	y := sine(220, 6000)
	for i := 0; i < len(y); i += 700 {
		y[i] += 0.9
	}

	spec := dsp.STFT(y, f)
	harm, perc := dsp.HPSS(spec, 31)

	for tIdx := range spec {
		for k := range spec[tIdx] {
			sum := harm[tIdx][k] + perc[tIdx][k]
			assert.InDelta(t, real(spec[tIdx][k]), real(sum), 1e-9)
			assert.InDelta(t, imag(spec[tIdx][k]), imag(sum), 1e-9)
		}
	}
}

func TestHPSSSilence(t *testing.T) {
	f := dsp.DefaultFrame()
	harm, perc := dsp.HPSS(dsp.STFT(make([]float64, 4096), f), 31)

	assert.Zero(t, dsp.MeanAbs(dsp.ISTFT(harm, f, 4096)))
	assert.Zero(t, dsp.MeanAbs(dsp.ISTFT(perc, f, 4096)))
}

func TestMelScaleInverse(t *testing.T) {
	for _, hz := range []float64{0, 200, 999, 1000, 3000, 11025} {
		assert.InDelta(t, hz, dsp.MelToHz(dsp.HzToMel(hz)), 1e-6)
	}
	assert.InDelta(t, 15.0, dsp.HzToMel(1000), 1e-12)
}

func TestMelFilterBank(t *testing.T) {
	f := dsp.DefaultFrame()
	bank := dsp.MelFilterBank(128, sampleRate, f)

	require.Len(t, bank, 128)
	for m, row := range bank {
		require.Len(t, row, f.Bins())
		var nonzero bool
		for _, w := range row {
			assert.GreaterOrEqual(t, w, 0.0)
			if w > 0 {
				nonzero = true
			}
		}
		assert.True(t, nonzero, "filter %d is empty", m)
	}
}

func TestDCTOrthonormal(t *testing.T) {
	x := []float64{1, 1, 1, 1}
	c := dsp.DCT(x, 4)

	assert.InDelta(t, 2.0, c[0], 1e-12)
	for _, v := range c[1:] {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

func TestDeltaLinearRamp(t *testing.T) {
	traj := make([]float64, 20)
	for i := range traj {
		traj[i] = 3 * float64(i)
	}

	d, err := dsp.Delta(dsp.Cepstrum{traj}, 9)
	require.NoError(t, err)

	for _, v := range d[0] {
		assert.InDelta(t, 3.0, v, 1e-9)
	}
	assert.InDelta(t, 3.0, d.MeanAbs(), 1e-9)
}

func TestDeltaEdgesUseBoundaryFit(t *testing.T) {
	traj := []float64{0, 0, 5, 0, 0, 0, 0, 0, 0, 9, 0, 0, 0, 0, 0, 0, 7, 0, 0}

	d, err := dsp.Delta(dsp.Cepstrum{traj}, 9)
	require.NoError(t, err)

	assert.InDelta(t, -10.0/60, d[0][0], 1e-12)
	for i := 0; i < 4; i++ {
		assert.Equal(t, d[0][4], d[0][i])
	}
	n := len(traj)
	for i := n - 4; i < n; i++ {
		assert.Equal(t, d[0][n-5], d[0][i])
	}
}

func TestDeltaTooShort(t *testing.T) {
	_, err := dsp.Delta(dsp.Cepstrum{make([]float64, 8)}, 9)
	assert.ErrorIs(t, err, dsp.ErrShortTrajectory)

	_, err = dsp.Delta(dsp.Cepstrum{make([]float64, 20)}, 4)
	assert.Error(t, err)
}

func TestMFCCSilenceIsFlat(t *testing.T) {
	f := dsp.DefaultFrame()
	power := dsp.Magnitude(dsp.STFT(make([]float64, 8192), f), 2)
	c := dsp.MFCC(power, dsp.MelFilterBank(128, sampleRate, f), 13)

	require.Len(t, c, 13)
	d, err := dsp.Delta(c, 9)
	require.NoError(t, err)
	assert.InDelta(t, 0, d.MeanAbs(), 1e-9)
}
