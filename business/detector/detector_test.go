package detector_test

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfeelapi/goVeritas/business/detector"
	"github.com/superfeelapi/goVeritas/foundation/audio"
)

const rate = 22050

func newDetector(t *testing.T) *detector.Detector {
	t.Helper()
	d, err := detector.New(nil, detector.DefaultConfig())
	require.NoError(t, err)
	return d
}

func toneWave(freq float64, seconds float64) audio.Waveform {
	n := int(seconds * rate)
	s := make([]float64, n)
	for i := range s {
		s[i] = 0.4 * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return audio.Waveform{Samples: s, SampleRate: rate}
}

func clickWave(seconds float64) audio.Waveform {
	n := int(seconds * rate)
	s := make([]float64, n)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < n; i += 1500 {
		for j := 0; j < 40 && i+j < n; j++ {
			s[i+j] = rng.Float64()*1.6 - 0.8
		}
	}
	return audio.Waveform{Samples: s, SampleRate: rate}
}

func TestExtractFeaturesAreFinite(t *testing.T) {
	for name, w := range map[string]audio.Waveform{
		"tone":    toneWave(220, 1),
		"clicks":  clickWave(1),
		"silence": {Samples: make([]float64, rate), SampleRate: rate},
	} {
		t.Run(name, func(t *testing.T) {
			fs, err := detector.Extract(w, detector.DefaultExtractorConfig())
			require.NoError(t, err)

			for _, v := range []float64{fs.HarmonicToNoiseRatio, fs.SpectralBrightness, fs.MovementScore} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
				assert.GreaterOrEqual(t, v, 0.0)
			}
		})
	}
}

func TestExtractSeparatesToneFromClicks(t *testing.T) {
	cfg := detector.DefaultExtractorConfig()

	tone, err := detector.Extract(toneWave(220, 1), cfg)
	require.NoError(t, err)
	clicks, err := detector.Extract(clickWave(1), cfg)
	require.NoError(t, err)

	assert.Greater(t, tone.HarmonicToNoiseRatio, clicks.HarmonicToNoiseRatio)
	assert.Greater(t, clicks.SpectralBrightness, tone.SpectralBrightness)
}

func TestExtractSilence(t *testing.T) {
	fs, err := detector.Extract(audio.Waveform{Samples: make([]float64, rate), SampleRate: rate}, detector.DefaultExtractorConfig())
	require.NoError(t, err)

	assert.Zero(t, fs.HarmonicToNoiseRatio)
	assert.Zero(t, fs.SpectralBrightness)
	assert.InDelta(t, 0, fs.MovementScore, 1e-9)
}

func TestExtractRejectsDegenerateInput(t *testing.T) {
	cfg := detector.DefaultExtractorConfig()

	_, err := detector.Extract(audio.Waveform{SampleRate: rate}, cfg)
	assert.ErrorIs(t, err, audio.ErrEmpty)

	_, err = detector.Extract(audio.Waveform{Samples: make([]float64, 100)}, cfg)
	assert.Error(t, err)

	_, err = detector.Extract(audio.Waveform{Samples: make([]float64, 2000), SampleRate: rate}, cfg)
	assert.ErrorIs(t, err, detector.ErrTooShort)
}

func TestAnalyzeWaveformSilenceReadsAsStatic(t *testing.T) {
	v := newDetector(t).AnalyzeWaveform(audio.Waveform{Samples: make([]float64, rate), SampleRate: rate})

	assert.False(t, v.Degraded)
	assert.Equal(t, detector.AIGenerated, v.Classification)
	assert.Equal(t, 0.7, v.Confidence)
}

func TestAnalyzeFallsBack(t *testing.T) {
	d := newDetector(t)
	fallback := detector.Fallback()

	t.Run("empty waveform", func(t *testing.T) {
		assert.Equal(t, fallback, d.AnalyzeWaveform(audio.Waveform{SampleRate: rate}))
	})

	t.Run("too short", func(t *testing.T) {
		assert.Equal(t, fallback, d.AnalyzeWaveform(audio.Waveform{Samples: make([]float64, 512), SampleRate: rate}))
	})

	t.Run("not audio", func(t *testing.T) {
		assert.Equal(t, fallback, d.AnalyzeReader(bytes.NewReader([]byte("definitely not an mp3"))))
	})

	t.Run("corrupt mp3", func(t *testing.T) {
		junk := append([]byte("ID3"), bytes.Repeat([]byte{0x00, 0xff, 0x13}, 200)...)
		assert.Equal(t, fallback, d.AnalyzeReader(bytes.NewReader(junk)))
	})

	t.Run("zero length file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.mp3")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		assert.Equal(t, fallback, d.Analyze(path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, fallback, d.Analyze(filepath.Join(t.TempDir(), "nope.mp3")))
	})
}

func TestAnalyzeWAVFile(t *testing.T) {
	w := toneWave(330, 1.5)
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		data[i] = int(s * 32767)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	d := newDetector(t)
	v := d.Analyze(path)

	assert.False(t, v.Degraded)
	assert.GreaterOrEqual(t, v.Confidence, 0.01)
	assert.LessOrEqual(t, v.Confidence, 0.99)

	fs, inspected, err := d.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, v, inspected)
	assert.Equal(t, detector.Evaluate(fs, d.Policy()), inspected)
}

func TestAnalyzeIsDeterministicUnderConcurrency(t *testing.T) {
	d := newDetector(t)
	w := clickWave(1)
	want := d.AnalyzeWaveform(w)

	var wg sync.WaitGroup
	results := make([]detector.Verdict, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.AnalyzeWaveform(w)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	cfg := detector.DefaultConfig()
	cfg.Policy.Version = ""

	_, err := detector.New(nil, cfg)
	assert.Error(t, err)
}

func TestAnalyzeMP3(t *testing.T) {
	d := newDetector(t)
	path := "../../foundation/audio/testdata/speech.mp3"

	v := d.Analyze(path)
	assert.False(t, v.Degraded)
	assert.GreaterOrEqual(t, v.Confidence, 0.01)
	assert.LessOrEqual(t, v.Confidence, 0.99)

	fs, inspected, err := d.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, v, inspected)
	assert.Greater(t, fs.SpectralBrightness, 0.0)
	assert.Greater(t, fs.MovementScore, 0.0)
}

func TestAnalyzeShortResampledClip(t *testing.T) {
	// 8300 samples at 44.1 kHz resample to 4150, exactly nine frames.
	const src = 44100
	data := make([]int, 8300)
	for i := range data {
		data[i] = int(12000 * math.Sin(2*math.Pi*330*float64(i)/src))
	}

	path := filepath.Join(t.TempDir(), "short.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, src, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: src},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	d := newDetector(t)
	_, _, err = d.Inspect(path)
	require.NoError(t, err)
	assert.False(t, d.Analyze(path).Degraded)
}
