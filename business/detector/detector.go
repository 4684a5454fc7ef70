// Package detector scores a voice clip as AI_GENERATED or HUMAN from three
// acoustic features and a fixed additive policy.
//
// Analysis never fails from the caller's point of view: decode errors,
// degenerate input and numeric faults all collapse into the fallback verdict
// (HUMAN, 0.1, "Simple analysis used due to file quality."). The Degraded flag
// on Verdict is the only way to tell it apart from a genuine low score.
package detector

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/superfeelapi/goVeritas/foundation/audio"
)

type Config struct {
	Load      audio.LoadConfig
	Extractor ExtractorConfig
	Policy    Policy
}

// DefaultConfig returns the 10 s / 22050 Hz analysis with the v1 policy.
func DefaultConfig() Config {
	return Config{
		Load:      audio.DefaultLoadConfig(),
		Extractor: DefaultExtractorConfig(),
		Policy:    DefaultPolicy(),
	}
}

// Detector is stateless between calls and safe for concurrent use.
type Detector struct {
	cfg    Config
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger, cfg Config) (*Detector, error) {
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Detector{cfg: cfg, logger: logger}, nil
}

// Policy returns the active scoring policy.
func (d *Detector) Policy() Policy {
	return d.cfg.Policy
}

// Analyze decodes and scores the clip at path.
func (d *Detector) Analyze(path string) Verdict {
	return d.guard("path", path, func() (Verdict, error) {
		w, err := audio.Load(path, d.cfg.Load)
		if err != nil {
			return Verdict{}, fmt.Errorf("load: %w", err)
		}
		_, v, err := d.evaluate(w)
		return v, err
	})
}

// AnalyzeReader decodes and scores a clip held in memory.
func (d *Detector) AnalyzeReader(r io.ReadSeeker) Verdict {
	return d.guard("source", "reader", func() (Verdict, error) {
		w, err := audio.Decode(r, d.cfg.Load)
		if err != nil {
			return Verdict{}, fmt.Errorf("decode: %w", err)
		}
		_, v, err := d.evaluate(w)
		return v, err
	})
}

// AnalyzeWaveform scores an already decoded waveform.
func (d *Detector) AnalyzeWaveform(w audio.Waveform) Verdict {
	return d.guard("source", "waveform", func() (Verdict, error) {
		_, v, err := d.evaluate(w)
		return v, err
	})
}

// Inspect is Analyze without the fallback: it returns the features and the
// error so tooling can see why a clip degraded.
func (d *Detector) Inspect(path string) (FeatureSet, Verdict, error) {
	w, err := audio.Load(path, d.cfg.Load)
	if err != nil {
		return FeatureSet{}, Verdict{}, fmt.Errorf("load: %w", err)
	}
	return d.evaluate(w)
}

func (d *Detector) evaluate(w audio.Waveform) (FeatureSet, Verdict, error) {
	fs, err := Extract(w, d.cfg.Extractor)
	if err != nil {
		return FeatureSet{}, Verdict{}, fmt.Errorf("extract: %w", err)
	}

	v := Evaluate(fs, d.cfg.Policy)
	d.logger.Debugw("detector: evaluate", "features", fs, "policy", d.cfg.Policy.Version, "classification", v.Classification, "confidence", v.Confidence)

	return fs, v, nil
}

// guard converts any error or panic from fn into the fallback verdict.
func (d *Detector) guard(key string, value any, fn func() (Verdict, error)) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("detector: analyze: panic", key, value, "ERROR", r)
			v = Fallback()
		}
	}()

	v, err := fn()
	if err != nil {
		d.logger.Warnw("detector: analyze: degraded to fallback", key, value, "ERROR", err)
		return Fallback()
	}
	return v
}
