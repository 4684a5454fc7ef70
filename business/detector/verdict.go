package detector

import "math"

type Classification string

const (
	AIGenerated Classification = "AI_GENERATED"
	Human       Classification = "HUMAN"
)

const (
	aiExplanation       = "Detected synthetic spectral signatures and lack of organic vocal movement."
	humanExplanation    = "Natural harmonic variance and biological speech patterns identified."
	fallbackExplanation = "Simple analysis used due to file quality."

	fallbackConfidence = 0.1
)

// Verdict is the outcome of one analysis call.
//
// Degraded marks the fallback verdict. It is reported to logs and the event
// feed only; the public response keeps the plain three-field shape.
type Verdict struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Explanation    string         `json:"explanation"`
	Degraded       bool           `json:"-"`
}

// Fallback returns the verdict used when analysis fails.
func Fallback() Verdict {
	return Verdict{
		Classification: Human,
		Confidence:     fallbackConfidence,
		Explanation:    fallbackExplanation,
		Degraded:       true,
	}
}

// Score accumulates the additive policy rules. The result is unclamped.
func Score(fs FeatureSet, p Policy) float64 {
	score := p.Neutral

	if fs.HarmonicToNoiseRatio > p.HNRThreshold {
		score += p.HNRWeight
	}

	if fs.SpectralBrightness > p.BrightnessThreshold {
		score += p.BrightnessWeight
	}

	switch {
	case fs.MovementScore < p.StaticMovementThreshold:
		score += p.StaticMovementWeight
	case fs.MovementScore > p.OrganicMovementThreshold:
		score += p.OrganicMovementWeight
	}

	return score
}

// Confidence clamps a raw score into the policy range and rounds it to two
// decimals.
func Confidence(score float64, p Policy) float64 {
	c := math.Max(p.MinConfidence, math.Min(p.MaxConfidence, score))
	return math.Round(c*100) / 100
}

// Classify maps a reported confidence to a label and explanation.
func Classify(confidence float64, p Policy) Verdict {
	if confidence > p.AIThreshold {
		return Verdict{
			Classification: AIGenerated,
			Confidence:     confidence,
			Explanation:    aiExplanation,
		}
	}
	return Verdict{
		Classification: Human,
		Confidence:     confidence,
		Explanation:    humanExplanation,
	}
}

// Evaluate runs score, clamp and classify over a feature set.
func Evaluate(fs FeatureSet, p Policy) Verdict {
	return Classify(Confidence(Score(fs, p), p), p)
}
