package detector

import (
	"errors"
	"fmt"
	"math"

	"github.com/superfeelapi/goVeritas/foundation/audio"
	"github.com/superfeelapi/goVeritas/foundation/dsp"
)

var ErrTooShort = errors.New("clip too short for analysis")

// FeatureSet holds the three acoustic signals derived from one waveform.
type FeatureSet struct {
	HarmonicToNoiseRatio float64 `json:"harmonicToNoiseRatio"`
	SpectralBrightness   float64 `json:"spectralBrightness"`
	MovementScore        float64 `json:"movementScore"`
}

// ExtractorConfig controls the analysis front-end.
type ExtractorConfig struct {
	Frame      dsp.Frame
	HPSSKernel int     // median filter length, odd
	NumMels    int     // mel bands feeding the cepstrum
	NumCoeffs  int     // cepstral coefficients kept
	DeltaWidth int     // delta filter width, odd
	Epsilon    float64 // HNR denominator guard
}

// DefaultExtractorConfig returns the v1 analysis front-end.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Frame:      dsp.DefaultFrame(),
		HPSSKernel: 31,
		NumMels:    128,
		NumCoeffs:  13,
		DeltaWidth: 9,
		Epsilon:    1e-6,
	}
}

// Extract derives a FeatureSet from w. It is safe for concurrent use: every
// call builds its own transforms.
func Extract(w audio.Waveform, cfg ExtractorConfig) (FeatureSet, error) {
	if len(w.Samples) == 0 {
		return FeatureSet{}, audio.ErrEmpty
	}
	if w.SampleRate <= 0 {
		return FeatureSet{}, fmt.Errorf("invalid sample rate %d", w.SampleRate)
	}
	if frames := cfg.Frame.NumFrames(len(w.Samples)); frames < cfg.DeltaWidth {
		return FeatureSet{}, fmt.Errorf("%w: %d frames, need %d", ErrTooShort, frames, cfg.DeltaWidth)
	}

	spec := dsp.STFT(w.Samples, cfg.Frame)

	// Harmonic / percussive
	harmSpec, percSpec := dsp.HPSS(spec, cfg.HPSSKernel)
	harmonic := dsp.ISTFT(harmSpec, cfg.Frame, len(w.Samples))
	percussive := dsp.ISTFT(percSpec, cfg.Frame, len(w.Samples))
	hnr := dsp.MeanAbs(harmonic) / (dsp.MeanAbs(percussive) + cfg.Epsilon)

	// Brightness
	mag := dsp.Magnitude(spec, 1)
	brightness := dsp.Mean(dsp.SpectralCentroid(mag, w.SampleRate, cfg.Frame))

	// Movement
	power := make([][]float64, len(mag))
	for t, row := range mag {
		p := make([]float64, len(row))
		for k, a := range row {
			p[k] = a * a
		}
		power[t] = p
	}
	bank := dsp.MelFilterBank(cfg.NumMels, w.SampleRate, cfg.Frame)
	delta, err := dsp.Delta(dsp.MFCC(power, bank, cfg.NumCoeffs), cfg.DeltaWidth)
	if err != nil {
		return FeatureSet{}, fmt.Errorf("%w: %w", ErrTooShort, err)
	}
	movement := delta.MeanAbs()

	fs := FeatureSet{
		HarmonicToNoiseRatio: hnr,
		SpectralBrightness:   brightness,
		MovementScore:        movement,
	}
	if !fs.finite() {
		return FeatureSet{}, fmt.Errorf("non-finite features %+v", fs)
	}

	return fs, nil
}

func (fs FeatureSet) finite() bool {
	for _, v := range []float64{fs.HarmonicToNoiseRatio, fs.SpectralBrightness, fs.MovementScore} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
